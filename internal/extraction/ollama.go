package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Ollama implements the Extractor interface against a local Ollama server.
// It handles text and photographed notes; voice notes need Gemini.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates a new Ollama Extractor instance. Vision-capable models
// (llava, qwen2-vl) are required when photo notes are submitted.
func NewOllama(baseURL string, modelName string) (*Ollama, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if modelName == "" {
		modelName = "llava"
	}

	return &Ollama{
		baseURL: baseURL,
		model:   modelName,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// Extract analyzes the trip notes and returns a structured invoice
func (o *Ollama) Extract(ctx context.Context, in Input) (*Result, error) {
	if in.Empty() {
		return nil, ErrNoInput
	}
	if in.Audio != nil {
		return nil, fmt.Errorf("ollama extractor does not support voice notes")
	}

	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	userContent := "Extract the trip details into the invoice JSON format described above."
	if in.Text != "" {
		userContent = in.Text
	}
	userMsg := ollamaMessage{Role: "user", Content: userContent}

	if in.Image != nil {
		pngData, err := preparePhoto(in.Image.Data, in.Image.MIME)
		if err != nil {
			return nil, err
		}
		userMsg.Images = []string{base64.StdEncoding.EncodeToString(pngData)}
	}

	reqBody := ollamaChatRequest{
		Model:  o.model,
		Stream: false,
		Messages: []ollamaMessage{
			{
				Role: "system",
				Content: systemInstruction(in.Hint) + `

Return ONLY a valid JSON object with the keys clientName, clientAddress, invoiceDate, invoiceNumber, status, items (array of {date, description, timeIn, timeOut, amount}), subtotal, totalAmount and closingMessage. Do not use markdown code blocks.`,
			},
			userMsg,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/chat", o.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	result, err := parseResultJSON(chatResp.Message.Content)
	if err != nil {
		return nil, fmt.Errorf("parsing invoice data: %w", err)
	}
	return result, nil
}

// Close closes the Ollama client (no-op for HTTP client)
func (o *Ollama) Close() error {
	return nil
}
