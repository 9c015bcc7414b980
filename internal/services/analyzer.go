package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
)

var errNilRemoteResult = errors.New("remote evaluator returned no result")

// AnalyzerService runs the scoring pipeline for one document.
type AnalyzerService interface {
	Analyze(ctx context.Context, doc models.Document, targetRole string) (*models.AnalysisResult, error)
}

type analyzerService struct {
	extractor TextExtractorService
	remote    RemoteEvaluator
	heuristic HeuristicEvaluator
	logger    *zap.Logger
}

func NewAnalyzerService(
	extractor TextExtractorService,
	remote RemoteEvaluator,
	heuristic HeuristicEvaluator,
	log *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		extractor: extractor,
		remote:    remote,
		heuristic: heuristic,
		logger:    logger.OrNop(log),
	}
}

// Analyze implements AnalyzerService. The only error it returns is
// *ReadError; remote failures are absorbed by the heuristic fallback.
func (a *analyzerService) Analyze(ctx context.Context, doc models.Document, targetRole string) (*models.AnalysisResult, error) {
	outcome, err := a.evaluate(ctx, doc, targetRole)
	if err != nil {
		return nil, err
	}
	return outcome.Result, nil
}

func (a *analyzerService) evaluate(ctx context.Context, doc models.Document, targetRole string) (*models.EvaluationOutcome, error) {
	log := a.logger.With(
		zap.String(logger.FieldAnalysisID, uuid.NewString()),
		zap.String(logger.FieldMediaType, doc.MediaType),
	)
	started := time.Now()

	log.Debug("extracting text", zap.String("document", doc.Name), zap.Int64("size", doc.Size))
	text, err := a.extractor.ExtractText(doc)
	if err != nil {
		log.Error("document could not be read", zap.Error(err))
		return nil, err
	}

	result, err := a.remote.Evaluate(ctx, text, targetRole)
	if err == nil && result == nil {
		err = remoteError(StageResponse, errNilRemoteResult)
	}
	if err == nil {
		log.Info("analysis completed",
			zap.String(logger.FieldEvaluator, string(models.SourceRemote)),
			zap.Int("overall_score", result.OverallScore),
			zap.Duration("elapsed", time.Since(started)),
		)
		return &models.EvaluationOutcome{Source: models.SourceRemote, Result: result}, nil
	}

	fields := []zap.Field{zap.Error(err)}
	var remoteErr *RemoteEvaluationError
	if errors.As(err, &remoteErr) {
		fields = append(fields, zap.String(logger.FieldStage, remoteErr.Stage))
	}
	log.Warn("remote evaluation failed, falling back to heuristic", fields...)

	result = a.heuristic.Evaluate(text, targetRole)
	log.Info("analysis completed",
		zap.String(logger.FieldEvaluator, string(models.SourceHeuristic)),
		zap.Int("overall_score", result.OverallScore),
		zap.Duration("elapsed", time.Since(started)),
	)

	return &models.EvaluationOutcome{Source: models.SourceHeuristic, Result: result}, nil
}

// NewAnalyzerFromConfig wires the default text extractor, the configured
// remote backend and the heuristic evaluator.
func NewAnalyzerFromConfig(ctx context.Context, cfg config.RemoteConfig, log *zap.Logger) (AnalyzerService, error) {
	generator, err := NewTextGenerator(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote evaluator: %w", err)
	}

	return NewAnalyzerService(
		NewTextExtractorService(log),
		NewRemoteEvaluator(generator, log),
		NewHeuristicEvaluator(),
		log,
	), nil
}
