package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
)

const maxLogPreview = 200

var errRemoteDisabled = errors.New("remote evaluation is disabled")

// TextGenerator sends one prompt to a generative model and returns its raw
// textual answer.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	Provider() string
	Model() string
}

// NewTextGenerator builds the backend selected by provider.
func NewTextGenerator(ctx context.Context, cfg config.RemoteConfig, log *zap.Logger) (TextGenerator, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiService(ctx, cfg.GeminiAPIKey, log)
	case config.ProviderDisabled:
		return disabledGenerator{}, nil
	default:
		return NewMessagesClient(cfg.AnthropicAPIKey, log), nil
	}
}

type disabledGenerator struct{}

func (disabledGenerator) GenerateText(context.Context, string) (string, error) {
	return "", remoteError(StageDisabled, errRemoteDisabled)
}

func (disabledGenerator) Provider() string { return config.ProviderDisabled }

func (disabledGenerator) Model() string { return "" }

type RemoteEvaluator interface {
	Evaluate(ctx context.Context, text, targetRole string) (*models.AnalysisResult, error)
}

type remoteEvaluator struct {
	generator     TextGenerator
	promptBuilder *PromptBuilder
	validator     *PayloadValidator
	logger        *zap.Logger
}

func NewRemoteEvaluator(generator TextGenerator, log *zap.Logger) RemoteEvaluator {
	return &remoteEvaluator{
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
		validator:     NewPayloadValidator(),
		logger:        logger.WithRemote(log, generator.Provider(), generator.Model()),
	}
}

// Evaluate implements RemoteEvaluator. It makes exactly one remote call; every
// failure is reported as *RemoteEvaluationError.
func (r *remoteEvaluator) Evaluate(ctx context.Context, text, targetRole string) (*models.AnalysisResult, error) {
	prompt := r.promptBuilder.BuildResumeAnalysisPrompt(text, targetRole)

	r.logger.Debug("remote evaluation request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, maxLogPreview)),
	)

	raw, err := r.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, remoteError(StageRequest, err)
	}

	r.logger.Debug("remote evaluation response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, maxLogPreview)),
	)

	return r.validator.Parse(strings.TrimSpace(raw))
}
