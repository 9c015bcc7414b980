package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/resume-scorer/internal/models"
)

const pastedDocumentName = "pasted-text"

// HandleAnalyzeText handles POST /analyze/text
func (h *AnalyzeHandler) HandleAnalyzeText(c *fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Request body is required")
	}

	var req models.AnalyzeTextRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	doc := models.Document{
		Name:      pastedDocumentName,
		MediaType: models.MediaTypePlainText,
		Size:      int64(len(req.Text)),
		Content:   strings.NewReader(req.Text),
	}

	return h.submit(c, doc, req.TargetRole)
}
