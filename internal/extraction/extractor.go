package extraction

import (
	"context"
	"strings"
)

// Media is one binary attachment to a trip-notes submission
type Media struct {
	Data []byte
	MIME string
}

// Hint carries fields the user already filled in manually; the extractor
// keeps them unless the notes contradict them
type Hint struct {
	ClientName    string
	InvoiceNumber string
	InvoiceDate   string
}

// Input is one extraction request. At least one of Text, Image or Audio
// must be present.
type Input struct {
	Text  string
	Image *Media
	Audio *Media
	Hint  Hint
}

// Empty reports whether the input carries no notes at all
func (in Input) Empty() bool {
	return strings.TrimSpace(in.Text) == "" && in.Image == nil && in.Audio == nil
}

// ResultItem is one extracted trip line
type ResultItem struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	TimeIn      string  `json:"timeIn,omitempty"`
	TimeOut     string  `json:"timeOut,omitempty"`
	Amount      float64 `json:"amount"`
}

// Result is the structured invoice extracted from the notes
type Result struct {
	InvoiceNumber  string       `json:"invoiceNumber,omitempty"`
	ClientName     string       `json:"clientName"`
	ClientAddress  string       `json:"clientAddress,omitempty"`
	InvoiceDate    string       `json:"invoiceDate"`
	Items          []ResultItem `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	TotalAmount    float64      `json:"totalAmount"`
	ClosingMessage string       `json:"closingMessage"`
	Status         string       `json:"status"`
}

// Extractor turns free-form trip notes into a structured invoice
type Extractor interface {
	// Extract analyzes the notes and returns a normalized Result
	Extract(ctx context.Context, in Input) (*Result, error)
	// Close releases the extractor's resources
	Close() error
}
