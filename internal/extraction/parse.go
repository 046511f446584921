package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseResultJSON parses a model response into a Result. Responses may be
// wrapped in markdown code fences or surrounded by commentary; only the
// outermost JSON object is considered.
func parseResultJSON(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	normalizeResult(&result)
	return &result, nil
}

// normalizeResult fills the defaults the model is allowed to omit and
// re-derives the totals from the items so the sums never disagree
func normalizeResult(result *Result) {
	result.ClientName = strings.TrimSpace(result.ClientName)

	if result.InvoiceDate == "" {
		result.InvoiceDate = time.Now().Format("2006-01-02")
	} else if parsed, err := time.Parse("2006-01-02", result.InvoiceDate); err == nil {
		result.InvoiceDate = parsed.Format("2006-01-02")
	} else {
		// Try the other common formats before giving up on the value
		for _, format := range []string{"2006/01/02", "01/02/2006", "02-01-2006"} {
			if d, e := time.Parse(format, result.InvoiceDate); e == nil {
				result.InvoiceDate = d.Format("2006-01-02")
				break
			}
		}
	}

	switch strings.ToUpper(strings.TrimSpace(result.Status)) {
	case "PAID":
		result.Status = "PAID"
	case "OVERDUE":
		result.Status = "OVERDUE"
	default:
		result.Status = "PENDING"
	}

	if result.Items == nil {
		result.Items = []ResultItem{}
	}

	if result.ClosingMessage == "" {
		result.ClosingMessage = "Thank you for your business."
	}

	var sum float64
	for _, item := range result.Items {
		sum += item.Amount
	}
	result.Subtotal = sum
	result.TotalAmount = sum
}
