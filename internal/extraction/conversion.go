package extraction

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// preparePhoto normalizes a photographed trip note to PNG. Notes arrive as
// phone photos (often HEIC on iPhones), screenshots, or scanned PDFs; the
// models get a single PNG regardless.
func preparePhoto(data []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	if mimeType == "application/pdf" {
		return pdfPageToPNG(data)
	}
	if mimeType == "image/png" && !isHEIC(data, mimeType) {
		return data, nil
	}
	return imageToPNG(data, mimeType)
}

// pdfPageToPNG renders the first page of a scanned note
func pdfPageToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageToPNG decodes any supported photo format and re-encodes it as PNG
func imageToPNG(data []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEIC(data, mimeType) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image (supported: JPEG, PNG, GIF, HEIC, HEIF, PDF): %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// isHEIC detects HEIC/HEIF content from the ftyp box brand or MIME type
func isHEIC(data []byte, mimeType string) bool {
	if strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif") {
		return true
	}
	if len(data) >= 12 && string(data[4:8]) == "ftyp" {
		switch string(data[8:12]) {
		case "heic", "heif", "mif1", "msf1":
			return true
		}
	}
	return false
}
