package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-scorer/internal/logger"
	"alfredoptarigan/resume-scorer/internal/models"
)

// AnalysisJob is one analysis request handed to the pool.
type AnalysisJob struct {
	ID         uuid.UUID
	Document   models.Document
	TargetRole string
}

type analysisReply struct {
	result *models.AnalysisResult
	err    error
}

type queuedJob struct {
	ctx   context.Context
	job   AnalysisJob
	reply chan analysisReply
}

// AnalysisPool runs analyses on a fixed number of stateless workers.
type AnalysisPool interface {
	Start(ctx context.Context)
	Stop()
	Submit(ctx context.Context, job AnalysisJob) (*models.AnalysisResult, error)
}

type analysisPool struct {
	analyzer    AnalyzerService
	jobQueue    chan queuedJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	mu          sync.RWMutex
	stopped     bool
	logger      *zap.Logger
}

func NewAnalysisPool(analyzer AnalyzerService, concurrency, queueSize int, log *zap.Logger) AnalysisPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	return &analysisPool{
		analyzer:    analyzer,
		jobQueue:    make(chan queuedJob, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger.OrNop(log),
	}
}

// Start implements AnalysisPool.
func (p *analysisPool) Start(ctx context.Context) {
	p.logger.Info("starting analysis pool", zap.Int("workers", p.concurrency))

	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		go p.processJobs(ctx, i+1)
	}
}

// Stop implements AnalysisPool. Jobs already picked up by a worker finish;
// queued jobs are answered with ErrPoolStopped.
func (p *analysisPool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("stopping analysis pool")
		close(p.stopChan)
		p.mu.Lock()
		p.stopped = true
		p.mu.Unlock()
		p.wg.Wait()
		p.drain()
		p.logger.Info("analysis pool stopped")
	})
}

// Submit implements AnalysisPool. It blocks until the job has been analyzed,
// the pool stops, or ctx is done.
func (p *analysisPool) Submit(ctx context.Context, job AnalysisJob) (*models.AnalysisResult, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}

	queued := queuedJob{ctx: ctx, job: job, reply: make(chan analysisReply, 1)}

	p.mu.RLock()
	if p.stopped {
		p.mu.RUnlock()
		return nil, ErrPoolStopped
	}
	select {
	case p.jobQueue <- queued:
		p.mu.RUnlock()
		p.logger.Debug("job enqueued", zap.String(logger.FieldAnalysisID, job.ID.String()))
	case <-p.stopChan:
		p.mu.RUnlock()
		return nil, ErrPoolStopped
	case <-ctx.Done():
		p.mu.RUnlock()
		return nil, ctx.Err()
	}

	select {
	case reply := <-queued.reply:
		return reply.result, reply.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *analysisPool) processJobs(ctx context.Context, workerID int) {
	defer p.wg.Done()

	for {
		// stop wins over queued work
		select {
		case <-p.stopChan:
			p.logger.Debug("worker stopped", zap.Int("worker", workerID))
			return
		default:
		}

		select {
		case <-p.stopChan:
			p.logger.Debug("worker stopped", zap.Int("worker", workerID))
			return
		case <-ctx.Done():
			p.logger.Debug("worker context done", zap.Int("worker", workerID))
			return
		case queued := <-p.jobQueue:
			p.logger.Debug("worker processing job",
				zap.Int("worker", workerID),
				zap.String(logger.FieldAnalysisID, queued.job.ID.String()),
			)
			result, err := p.analyzer.Analyze(queued.ctx, queued.job.Document, queued.job.TargetRole)
			queued.reply <- analysisReply{result: result, err: err}
		}
	}
}

func (p *analysisPool) drain() {
	for {
		select {
		case queued := <-p.jobQueue:
			queued.reply <- analysisReply{err: ErrPoolStopped}
		default:
			return
		}
	}
}
