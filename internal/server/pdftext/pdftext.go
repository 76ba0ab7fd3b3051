// Package pdftext extracts plain text from PDF documents.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for documents without extractable text, such as
// scanned images.
var ErrNoText = errors.New("could not extract text from PDF")

// ErrInvalidPDF is returned when data is not a readable PDF.
var ErrInvalidPDF = errors.New("invalid PDF")

// Magic is the signature every PDF starts with.
var Magic = []byte("%PDF-")

// Extract returns the text content of the PDF in data, trimmed.
func Extract(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, Magic) {
		return "", ErrInvalidPDF
	}

	// The parser panics on some malformed inputs.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrInvalidPDF, p)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPDF, err)
	}

	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}

	text = strings.TrimSpace(buf.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
