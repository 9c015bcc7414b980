package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
)

const geminiModel = "gemini-2.5-flash"

// contentModel is the part of genai.Models the gemini backend uses.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models    contentModel
	modelName string
	logger    *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, log *zap.Logger) (TextGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, log), nil
}

func newGeminiService(models contentModel, log *zap.Logger) *geminiService {
	return &geminiService{
		models:    models,
		modelName: geminiModel,
		logger:    logger.WithRemote(log, config.ProviderGemini, geminiModel),
	}
}

func (g *geminiService) Provider() string {
	return config.ProviderGemini
}

func (g *geminiService) Model() string {
	return g.modelName
}

// GenerateText implements TextGenerator.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens:  messagesMaxTokens,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", remoteError(StageRequest, fmt.Errorf("failed to generate content: %w", err))
	}

	if resp == nil {
		return "", remoteError(StageResponse, errors.New("no response generated (nil response)"))
	}

	text := candidateText(resp)
	g.logger.Debug("gemini response received", zap.Int("response_length", len(text)))

	return text, nil
}

// candidateText concatenates the text parts of every candidate in order.
func candidateText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			builder.WriteString(part.Text)
		}
	}
	return builder.String()
}
