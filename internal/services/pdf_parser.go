package services

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var errNoPDFText = errors.New("no text content found in PDF")

type pdfExtractor struct{}

func NewPDFExtractor() Extractor {
	return &pdfExtractor{}
}

func (p *pdfExtractor) Name() string {
	return "pdf"
}

// Extract implements Extractor. The pdf reader panics on some malformed
// inputs, so panics are turned into errors.
func (p *pdfExtractor) Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// skip unreadable pages, keep the rest
			continue
		}

		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n\n")
		}
		textBuilder.WriteString(pageText)
	}

	text = textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", errNoPDFText
	}

	return text, nil
}
