package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-scorer/internal/models"
)

type blockingAnalyzer struct {
	release chan struct{}
	started chan struct{}
	calls   atomic.Int32
}

func newBlockingAnalyzer() *blockingAnalyzer {
	return &blockingAnalyzer{release: make(chan struct{}), started: make(chan struct{}, 16)}
}

func (b *blockingAnalyzer) Analyze(ctx context.Context, doc models.Document, targetRole string) (*models.AnalysisResult, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &models.AnalysisResult{OverallScore: len(targetRole)}, nil
}

type funcAnalyzer func(ctx context.Context, doc models.Document, targetRole string) (*models.AnalysisResult, error)

func (f funcAnalyzer) Analyze(ctx context.Context, doc models.Document, targetRole string) (*models.AnalysisResult, error) {
	return f(ctx, doc, targetRole)
}

func TestAnalysisPoolRunsJobs(t *testing.T) {
	analyzer := NewAnalyzerService(NewTextExtractorService(nil), &stubRemote{err: errors.New("offline")}, NewHeuristicEvaluator(), nil)
	pool := NewAnalysisPool(analyzer, 3, 4, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	var wg sync.WaitGroup
	results := make([]*models.AnalysisResult, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := pool.Submit(context.Background(), AnalysisJob{Document: textDocument(""), TargetRole: ""})
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	for _, result := range results {
		require.NotNil(t, result)
		assert.Equal(t, 48, result.OverallScore)
	}
}

func TestAnalysisPoolPropagatesReadError(t *testing.T) {
	readErr := &ReadError{Document: "cv.pdf", Err: errors.New("truncated")}
	pool := NewAnalysisPool(funcAnalyzer(func(context.Context, models.Document, string) (*models.AnalysisResult, error) {
		return nil, readErr
	}), 1, 0, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	_, err := pool.Submit(context.Background(), AnalysisJob{})

	assert.ErrorIs(t, err, readErr)
}

func TestAnalysisPoolRunsJobsConcurrently(t *testing.T) {
	analyzer := newBlockingAnalyzer()
	pool := NewAnalysisPool(analyzer, 2, 0, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	var wg sync.WaitGroup
	for _, role := range []string{"a", "bb"} {
		wg.Add(1)
		go func(role string) {
			defer wg.Done()
			result, err := pool.Submit(context.Background(), AnalysisJob{TargetRole: role})
			assert.NoError(t, err)
			assert.Equal(t, len(role), result.OverallScore)
		}(role)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-analyzer.started:
		case <-time.After(2 * time.Second):
			t.Fatal("jobs did not run in parallel")
		}
	}
	close(analyzer.release)
	wg.Wait()
}

func TestAnalysisPoolSubmitAfterStop(t *testing.T) {
	pool := NewAnalysisPool(newBlockingAnalyzer(), 1, 1, nil)
	pool.Start(context.Background())
	pool.Stop()
	pool.Stop()

	_, err := pool.Submit(context.Background(), AnalysisJob{})

	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestAnalysisPoolStopAnswersQueuedJobs(t *testing.T) {
	analyzer := newBlockingAnalyzer()
	pool := NewAnalysisPool(analyzer, 1, 1, nil)
	pool.Start(context.Background())

	running := make(chan error, 1)
	go func() {
		_, err := pool.Submit(context.Background(), AnalysisJob{TargetRole: "first"})
		running <- err
	}()
	<-analyzer.started

	queued := make(chan error, 1)
	go func() {
		_, err := pool.Submit(context.Background(), AnalysisJob{TargetRole: "second"})
		queued <- err
	}()

	require.Eventually(t, func() bool {
		return len(pool.(*analysisPool).jobQueue) == 1
	}, 2*time.Second, 10*time.Millisecond)

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()
	close(analyzer.release)

	assert.NoError(t, <-running)
	<-stopped
	assert.ErrorIs(t, <-queued, ErrPoolStopped)
	assert.Equal(t, int32(1), analyzer.calls.Load())
}

func TestAnalysisPoolSubmitHonorsContext(t *testing.T) {
	analyzer := newBlockingAnalyzer()
	pool := NewAnalysisPool(analyzer, 1, 0, nil)
	pool.Start(context.Background())
	defer pool.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := pool.Submit(ctx, AnalysisJob{})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
