package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// invoiceSchema constrains the model to the invoice record shape. Status
// defaults are still enforced locally in normalizeResult; the schema just
// keeps the model honest.
var invoiceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"clientName":    {Type: genai.TypeString, Description: "Name of the client or company receiving the invoice."},
		"clientAddress": {Type: genai.TypeString, Description: "Address of the client if mentioned in the notes."},
		"invoiceDate":   {Type: genai.TypeString, Description: "Date of the invoice generation or the main date of the trip, YYYY-MM-DD."},
		"invoiceNumber": {Type: genai.TypeString, Description: "A generated invoice number (e.g., INV-001)."},
		"status": {
			Type:        genai.TypeString,
			Enum:        []string{"PAID", "PENDING", "OVERDUE"},
			Description: "Status of the invoice. Default to PENDING.",
		},
		"items": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":        {Type: genai.TypeString, Description: "Date of the specific trip."},
					"description": {Type: genai.TypeString, Description: "Route, trip details, pickup/dropoff points."},
					"timeIn":      {Type: genai.TypeString, Description: "Pickup time or start time, if available."},
					"timeOut":     {Type: genai.TypeString, Description: "Dropoff time or end time, if available."},
					"amount":      {Type: genai.TypeNumber, Description: "Cost of the trip."},
				},
				Required: []string{"date", "description", "amount"},
			},
		},
		"subtotal":       {Type: genai.TypeNumber, Description: "Sum of all items."},
		"totalAmount":    {Type: genai.TypeNumber, Description: "Final total amount."},
		"closingMessage": {Type: genai.TypeString, Description: "A short, polite closing message including payment terms if applicable."},
	},
	Required: []string{"clientName", "items", "totalAmount", "closingMessage"},
}

// Gemini implements the Extractor interface using Google Gemini
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a new Gemini Extractor instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = invoiceSchema

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// systemInstruction builds the extraction instruction, folding in whatever
// the user has already entered by hand
func systemInstruction(hint Hint) string {
	clientName := hint.ClientName
	if clientName == "" {
		clientName = "Unknown"
	}
	invoiceNumber := hint.InvoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = "Auto-generate"
	}
	invoiceDate := hint.InvoiceDate
	if invoiceDate == "" {
		invoiceDate = "Today"
	}

	return fmt.Sprintf(`You transform rough trip notes, scattered times, handwritten logs, or SPOKEN voice notes into clean, professional car-hire invoice data.

CONTEXT FROM USER - the user may have already manually entered:
  Client Name: %q
  Invoice Number: %q
  Date: %q
Use these values in the final JSON if they are provided and not contradicted by the notes.

LANGUAGE AND CURRENCY:
1. The user is likely in Nigeria. If no currency is explicitly stated, assume Naira. Treat "k" as thousands (e.g. "5k" = 5000).
2. The input may be English, or a mix of English and Yoruba. Translate any Yoruba instructions, locations, or notes into professional English for the final invoice. For example "Drop e si Lagos Island, owo wa ni 5k" becomes "Drop-off at Lagos Island" with amount 5000.
3. Default status to PENDING unless the notes specifically say the invoice is already paid or overdue.

Rules:
1. Understand dates, places, times, pickup/drop-off points, and amounts.
2. If the total is missing, calculate it by summing the amounts.
3. Rewrite informal text into professional descriptions.
4. Create a polite closing message.
5. If an address for the client is present, extract it.
6. If the input is completely unintelligible or unrelated to trips, return an empty structure with a polite error in the clientName (but keep the context client name if one exists).`,
		clientName, invoiceNumber, invoiceDate)
}

// Extract analyzes the trip notes and returns a structured invoice
func (g *Gemini) Extract(ctx context.Context, in Input) (*Result, error) {
	if in.Empty() {
		return nil, ErrNoInput
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	var parts []genai.Part
	if in.Image != nil {
		pngData, err := preparePhoto(in.Image.Data, in.Image.MIME)
		if err != nil {
			return nil, err
		}
		parts = append(parts, genai.ImageData("png", pngData))
	}
	if in.Audio != nil {
		mime := in.Audio.MIME
		if mime == "" {
			mime = "audio/mp3"
		}
		parts = append(parts, genai.Blob{MIMEType: mime, Data: in.Audio.Data})
	}
	if in.Text != "" {
		parts = append(parts, genai.Text(in.Text))
	} else if in.Audio != nil {
		parts = append(parts, genai.Text("Listen to this voice note (possibly Yoruba/English mix) and extract the invoice details into professional English."))
	} else if in.Image != nil {
		parts = append(parts, genai.Text("Extract the trip details from this image into the invoice format."))
	}

	g.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction(in.Hint))},
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	result, err := parseResultJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing invoice data: %w", err)
	}
	return result, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}
