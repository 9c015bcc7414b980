package services

import (
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
)

var errNilContent = errors.New("document has no content")

// Extractor turns raw document bytes of one format into text.
type Extractor interface {
	Name() string
	Extract(data []byte) (string, error)
}

type TextExtractorService interface {
	ExtractText(doc models.Document) (string, error)
}

type textExtractorService struct {
	extractors map[string]Extractor
	plain      Extractor
	logger     *zap.Logger
}

func NewTextExtractorService(log *zap.Logger) TextExtractorService {
	return &textExtractorService{
		extractors: map[string]Extractor{
			models.MediaTypePDF:  NewPDFExtractor(),
			models.MediaTypeDOCX: NewDocxExtractor(),
		},
		plain:  NewPlainTextExtractor(),
		logger: logger.OrNop(log),
	}
}

// ExtractText implements TextExtractorService. Only a failure to read the
// byte stream is an error; formats without a structured extractor, and
// structured extraction failures, are decoded as plain text.
func (s *textExtractorService) ExtractText(doc models.Document) (string, error) {
	if doc.Content == nil {
		return "", &ReadError{Document: doc.Name, Err: errNilContent}
	}

	data, err := io.ReadAll(doc.Content)
	if err != nil {
		return "", &ReadError{Document: doc.Name, Err: err}
	}

	mediaType := models.DetectMediaType(doc.Name, doc.MediaType)
	extractor, ok := s.extractors[mediaType]
	if !ok {
		return s.plain.Extract(data)
	}

	text, err := extractor.Extract(data)
	if err != nil {
		s.logger.Warn("structured extraction failed, decoding as plain text",
			zap.String("document", doc.Name),
			zap.String(logger.FieldMediaType, mediaType),
			zap.String("extractor", extractor.Name()),
			zap.Error(err),
		)
		return s.plain.Extract(data)
	}

	return text, nil
}

type plainTextExtractor struct{}

func NewPlainTextExtractor() Extractor {
	return &plainTextExtractor{}
}

func (p *plainTextExtractor) Name() string {
	return "plain"
}

// Extract implements Extractor. Bytes are decoded as UTF-8 unless a BOM says
// otherwise; invalid sequences become U+FFFD. It never returns an error.
func (p *plainTextExtractor) Extract(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�"), nil
	}
	return string(decoded), nil
}
