package invoice

// Status is the payment state of an invoice
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

// ValidStatus reports whether s is one of the known payment states
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Item is one billable trip line on an invoice
type Item struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	TimeIn      string  `json:"timeIn,omitempty"`
	TimeOut     string  `json:"timeOut,omitempty"`
	Amount      float64 `json:"amount"`
}

// Invoice is a draft or archived invoice. Subtotal and TotalAmount are
// always kept equal to the sum of item amounts; use RecomputeTotals after
// any item mutation.
type Invoice struct {
	InvoiceNumber  string  `json:"invoiceNumber,omitempty"`
	ClientName     string  `json:"clientName"`
	ClientAddress  string  `json:"clientAddress,omitempty"`
	InvoiceDate    string  `json:"invoiceDate"`
	Items          []Item  `json:"items"`
	Subtotal       float64 `json:"subtotal"`
	TotalAmount    float64 `json:"totalAmount"`
	ClosingMessage string  `json:"closingMessage"`
	Status         Status  `json:"status"`
}

// Clone returns a deep copy of the invoice. Archived snapshots must not
// alias the live draft's item slice.
func (inv *Invoice) Clone() *Invoice {
	out := *inv
	out.Items = make([]Item, len(inv.Items))
	copy(out.Items, inv.Items)
	return &out
}

// Empty reports whether the invoice has no items and no client name.
// Empty invoices are never archived.
func (inv *Invoice) Empty() bool {
	return len(inv.Items) == 0 && inv.ClientName == ""
}

// RecomputeTotals returns the sum of the item amounts. Callers assign the
// result to both Subtotal and TotalAmount; formatting and rounding happen
// at render time only.
func RecomputeTotals(items []Item) float64 {
	var sum float64
	for _, item := range items {
		sum += item.Amount
	}
	return sum
}

// Archived wraps an immutable invoice snapshot. Only the snapshot's status
// may change after archival, through Manager.UpdateStatus.
type Archived struct {
	ID        string   `json:"id"`
	CreatedAt int64    `json:"createdAt"` // unix milliseconds
	Data      *Invoice `json:"data"`
}

// Client is an address-book entry. At most one client exists per
// case-insensitive name.
type Client struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	LastSeen int64  `json:"lastSeen"` // unix milliseconds
}

// Profile is the singleton company configuration
type Profile struct {
	CompanyName        string `json:"companyName"`
	CompanyAddress     string `json:"companyAddress"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Website            string `json:"website"`
	TaxID              string `json:"taxId"`
	BankDetails        string `json:"bankDetails"`
	LogoBase64         string `json:"logoBase64,omitempty"`
	SignatureBase64    string `json:"signatureBase64,omitempty"`
	BrandColor         string `json:"brandColor"`
	CurrencySymbol     string `json:"currencySymbol"`
	TermsAndConditions string `json:"termsAndConditions"`
	SelectedTemplate   string `json:"selectedTemplate"`
}

// DefaultClosingMessage is used for fresh drafts
const DefaultClosingMessage = "Thank you for your business."

// DefaultProfile returns the profile used before the user saves their own
func DefaultProfile() *Profile {
	return &Profile{
		CompanyName:      "amm empress car hire service",
		CompanyAddress:   "Adeleke Adedoyin Victoria Island, Eti Osa, Lagos",
		Email:            "ammempresscarhire@gmail.com",
		Phone:            "08032127110",
		BankDetails:      "Bank Name: Kuda\nAccount Number: 3002574195\nAccount Name: Amm Empress Car Hire Services",
		BrandColor:       "#0F172A",
		CurrencySymbol:   "₦",
		SelectedTemplate: "executive",
	}
}
