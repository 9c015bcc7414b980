package services

import (
	"fmt"
	"mime/multipart"

	"alfredoptarigan/resume-scorer/internal/models"
)

// OpenUpload opens an uploaded file as a Document. The caller must close the
// returned file once the analysis is done.
func OpenUpload(file *multipart.FileHeader) (models.Document, multipart.File, error) {
	src, err := file.Open()
	if err != nil {
		return models.Document{}, nil, &ReadError{Document: file.Filename, Err: fmt.Errorf("failed to open uploaded file: %w", err)}
	}

	doc := models.Document{
		Name:      file.Filename,
		MediaType: models.DetectMediaType(file.Filename, file.Header.Get("Content-Type")),
		Size:      file.Size,
		Content:   src,
	}

	return doc, src, nil
}
