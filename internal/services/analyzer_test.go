package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"alfredoptarigan/resume-scorer/internal/config"
	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
)

type stubRemote struct {
	result *models.AnalysisResult
	err    error
	calls  int
}

func (s *stubRemote) Evaluate(context.Context, string, string) (*models.AnalysisResult, error) {
	s.calls++
	return s.result, s.err
}

func textDocument(text string) models.Document {
	return models.Document{Name: "resume.txt", MediaType: models.MediaTypePlainText, Content: strings.NewReader(text)}
}

func TestAnalyzerPrefersRemoteResult(t *testing.T) {
	remoteResult := &models.AnalysisResult{
		OverallScore: 82,
		Scores:       models.ScoreSet{ATS: 85, Skills: 80, Formatting: 78, Content: 84},
		Suggestions:  []models.Suggestion{},
	}
	remote := &stubRemote{result: remoteResult}
	analyzer := NewAnalyzerService(NewTextExtractorService(nil), remote, NewHeuristicEvaluator(), nil)

	result, err := analyzer.Analyze(context.Background(), textDocument("anything"), "")

	require.NoError(t, err)
	assert.Same(t, remoteResult, result)
	assert.Equal(t, 1, remote.calls)
}

func TestAnalyzerFallsBackToHeuristic(t *testing.T) {
	tests := []struct {
		name   string
		remote *stubRemote
		stage  string
	}{
		{name: "remote error", remote: &stubRemote{err: remoteError(StageParse, errors.New("bad json"))}, stage: StageParse},
		{name: "plain error", remote: &stubRemote{err: errors.New("network down")}},
		{name: "nil result", remote: &stubRemote{}, stage: StageResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			heuristic := NewHeuristicEvaluator()
			analyzer := NewAnalyzerService(NewTextExtractorService(nil), tt.remote, heuristic, zap.New(core))

			result, err := analyzer.Analyze(context.Background(), textDocument(""), "")

			require.NoError(t, err)
			assert.Equal(t, heuristic.Evaluate("", ""), result)
			assert.Equal(t, 48, result.OverallScore)

			warnings := logs.FilterMessage("remote evaluation failed, falling back to heuristic").All()
			require.Len(t, warnings, 1)
			if tt.stage != "" {
				assert.Equal(t, tt.stage, warnings[0].ContextMap()[logger.FieldStage])
			}

			completed := logs.FilterMessage("analysis completed").All()
			require.Len(t, completed, 1)
			assert.Equal(t, string(models.SourceHeuristic), completed[0].ContextMap()[logger.FieldEvaluator])
			assert.NotEmpty(t, completed[0].ContextMap()[logger.FieldAnalysisID])
		})
	}
}

func TestAnalyzerReadErrorSkipsEvaluation(t *testing.T) {
	remote := &stubRemote{}
	analyzer := NewAnalyzerService(NewTextExtractorService(nil), remote, NewHeuristicEvaluator(), nil)
	doc := models.Document{Name: "broken.pdf", Content: iotest.ErrReader(errors.New("unexpected EOF"))}

	result, err := analyzer.Analyze(context.Background(), doc, "")

	assert.Nil(t, result)
	var readErr *ReadError
	assert.ErrorAs(t, err, &readErr)
	assert.Zero(t, remote.calls)
}

func TestAnalyzerEvaluateReportsSource(t *testing.T) {
	remote := &stubRemote{result: &models.AnalysisResult{OverallScore: 1}}
	analyzer := NewAnalyzerService(NewTextExtractorService(nil), remote, NewHeuristicEvaluator(), nil).(*analyzerService)

	outcome, err := analyzer.evaluate(context.Background(), textDocument("x"), "")
	require.NoError(t, err)
	assert.Equal(t, models.SourceRemote, outcome.Source)

	remote.result, remote.err = nil, errors.New("down")
	outcome, err = analyzer.evaluate(context.Background(), textDocument("x"), "")
	require.NoError(t, err)
	assert.Equal(t, models.SourceHeuristic, outcome.Source)
}

func TestNewAnalyzerFromConfigDisabled(t *testing.T) {
	analyzer, err := NewAnalyzerFromConfig(context.Background(), config.RemoteConfig{Provider: config.ProviderDisabled}, nil)
	require.NoError(t, err)

	text := "Contact: a@b.com, 555-123-4567. Skills: React, Python, SQL. " +
		strings.Repeat("lorem ", 640) + "experience and education details"

	result, err := analyzer.Analyze(context.Background(), textDocument(text), "")

	require.NoError(t, err)
	assert.Equal(t, 92, result.OverallScore)
	assert.Equal(t, models.ScoreSet{ATS: 100, Skills: 79, Formatting: 90, Content: 100}, result.Scores)
}

func TestNewAnalyzerFromConfigGeminiWithoutKey(t *testing.T) {
	_, err := NewAnalyzerFromConfig(context.Background(), config.RemoteConfig{Provider: config.ProviderGemini}, nil)
	assert.Error(t, err)
}
