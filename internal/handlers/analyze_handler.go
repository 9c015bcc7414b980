package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
	"alfredoptarigan/resume-scorer/internal/services"
)

const analysisIDHeader = "X-Analysis-ID"

type AnalyzeHandler struct {
	pool        services.AnalysisPool
	maxFileSize int64
	logger      *zap.Logger
}

func NewAnalyzeHandler(pool services.AnalysisPool, maxFileSize int64, log *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		pool:        pool,
		maxFileSize: maxFileSize,
		logger:      logger.OrNop(log),
	}
}

// HandleAnalyze handles POST /analyze
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "resume file is required")
	}

	if file.Size > h.maxFileSize {
		return errorResponse(c, fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}

	doc, src, err := services.OpenUpload(file)
	if err != nil {
		return h.failure(c, err)
	}
	defer src.Close()

	return h.submit(c, doc, c.FormValue("target_role"))
}

func (h *AnalyzeHandler) submit(c *fiber.Ctx, doc models.Document, targetRole string) error {
	job := services.AnalysisJob{
		ID:         uuid.New(),
		Document:   doc,
		TargetRole: strings.TrimSpace(targetRole),
	}

	result, err := h.pool.Submit(c.UserContext(), job)
	if err != nil {
		h.logger.Warn("analysis request failed",
			zap.String(logger.FieldAnalysisID, job.ID.String()),
			zap.String("document", doc.Name),
			zap.Error(err),
		)
		return h.failure(c, err)
	}

	c.Set(analysisIDHeader, job.ID.String())
	return c.JSON(result)
}

func (h *AnalyzeHandler) failure(c *fiber.Ctx, err error) error {
	var readErr *services.ReadError
	switch {
	case errors.As(err, &readErr):
		return errorResponse(c, fiber.StatusUnprocessableEntity, readErr.Error())
	case errors.Is(err, services.ErrPoolStopped):
		return errorResponse(c, fiber.StatusServiceUnavailable, "service is shutting down")
	default:
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to analyze resume")
	}
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Error: message,
		Code:  status,
	})
}
