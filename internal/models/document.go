package models

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
)

const (
	MediaTypePlainText = "text/plain"
	MediaTypePDF       = "application/pdf"
	MediaTypeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeMSWord    = "application/msword"
)

var extensionMediaTypes = map[string]string{
	".txt":  MediaTypePlainText,
	".md":   MediaTypePlainText,
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
	".doc":  MediaTypeMSWord,
}

// Document is a submitted resume. Content is read once per analysis and is
// never retained afterwards.
type Document struct {
	Name      string
	MediaType string
	Size      int64
	Content   io.Reader
}

// DetectMediaType normalizes the declared media type and falls back to the
// file extension when nothing usable was declared.
func DetectMediaType(filename, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
			return strings.ToLower(mediaType)
		}
	}

	if mediaType, ok := extensionMediaTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mediaType
	}

	return MediaTypePlainText
}
