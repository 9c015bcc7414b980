package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

var errNoDocxBody = errors.New("word document body not found")

type docxExtractor struct{}

func NewDocxExtractor() Extractor {
	return &docxExtractor{}
}

func (d *docxExtractor) Name() string {
	return "docx"
}

// Extract implements Extractor. Paragraphs become lines; tabs and explicit
// breaks are kept so that layout-based scoring still sees them.
func (d *docxExtractor) Extract(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open word document: %w", err)
	}

	for _, file := range archive.File {
		if file.Name != docxBodyPart {
			continue
		}

		body, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", docxBodyPart, err)
		}
		defer body.Close()

		return readDocxBody(body)
	}

	return "", errNoDocxBody
}

func readDocxBody(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var builder strings.Builder
	inText := false
	paragraphs := 0
	// tab stops and break settings inside property blocks are not content
	propsDepth := 0

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", docxBodyPart, err)
		}

		switch el := token.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr", "rPr", "sectPr":
				propsDepth++
			case "t":
				inText = true
			case "tab":
				if propsDepth == 0 {
					builder.WriteString("\t")
				}
			case "br", "cr":
				if propsDepth == 0 {
					builder.WriteString("\n")
				}
			case "p":
				if paragraphs > 0 {
					builder.WriteString("\n")
				}
				paragraphs++
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "pPr", "rPr", "sectPr":
				propsDepth--
			}
		case xml.CharData:
			if inText {
				builder.Write(el)
			}
		}
	}

	return builder.String(), nil
}
