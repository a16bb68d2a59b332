package pipeline

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/predico/oracle-pipeline/internal/submitter"
	"github.com/predico/oracle-pipeline/pkg/cache"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

// Processor handles one discovered market end to end.
type Processor interface {
	Process(ctx context.Context, ref types.MarketRef) (submitter.Result, error)
}

// Pool fans discovered markets out to a fixed set of workers. Recently
// handled market ids are suppressed via a TTL cache; the on-chain status
// gate in the processor remains the authoritative duplicate guard.
type Pool struct {
	processor   Processor
	dedup       cache.Cache
	dedupTTL    time.Duration
	workers     int
	taskTimeout time.Duration
	logger      *zap.Logger

	processed atomic.Uint64
	submitted atomic.Uint64
	abstained atomic.Uint64
	failed    atomic.Uint64
	deduped   atomic.Uint64
}

// Config holds worker pool configuration.
type Config struct {
	Processor   Processor
	Dedup       cache.Cache
	DedupTTL    time.Duration
	Workers     int
	TaskTimeout time.Duration // per-market processing budget, 0 for none
	Logger      *zap.Logger
}

// New creates a new pipeline worker pool.
func New(cfg *Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	return &Pool{
		processor:   cfg.Processor,
		dedup:       cfg.Dedup,
		dedupTTL:    cfg.DedupTTL,
		workers:     workers,
		taskTimeout: cfg.TaskTimeout,
		logger:      cfg.Logger,
	}
}

// Run consumes market refs from events until the channel closes or the
// context is cancelled. Cancellation stops intake only: tasks already picked
// up run to completion on a detached context so an in-flight proposal
// transaction is never abandoned halfway.
func (p *Pool) Run(ctx context.Context, events <-chan types.MarketRef) {
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.work(ctx, worker, events)
		}(i)
	}

	wg.Wait()
	p.logger.Info("pipeline-workers-stopped",
		zap.Uint64("processed", p.processed.Load()))
}

func (p *Pool) work(ctx context.Context, worker int, events <-chan types.MarketRef) {
	for {
		select {
		case <-ctx.Done():
			return
		case ref, ok := <-events:
			if !ok {
				return
			}
			p.handle(ctx, worker, ref)
		}
	}
}

func (p *Pool) handle(ctx context.Context, worker int, ref types.MarketRef) {
	key := strconv.FormatUint(ref.ID, 10)
	if _, seen := p.dedup.Get(key); seen {
		p.deduped.Add(1)
		DedupedTotal.Inc()
		p.logger.Debug("market-recently-handled",
			zap.Uint64("market-id", ref.ID))
		return
	}

	// Detach from the run context so shutdown lets this market finish.
	taskCtx := context.WithoutCancel(ctx)
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, p.taskTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := p.processor.Process(taskCtx, ref)
	TaskDurationSeconds.Observe(time.Since(start).Seconds())

	p.processed.Add(1)

	if err != nil {
		p.failed.Add(1)
		TasksTotal.WithLabelValues("error").Inc()
		p.logger.Error("market-processing-failed",
			zap.Int("worker", worker),
			zap.Uint64("market-id", ref.ID),
			zap.Error(err))
		return
	}

	switch result {
	case submitter.ResultSubmitted:
		p.submitted.Add(1)
	case submitter.ResultAbstained:
		p.abstained.Add(1)
	}

	TasksTotal.WithLabelValues(result.String()).Inc()
	p.dedup.Set(key, struct{}{}, p.dedupTTL)

	p.logger.Info("market-processed",
		zap.Int("worker", worker),
		zap.Uint64("market-id", ref.ID),
		zap.String("result", result.String()),
		zap.Duration("duration", time.Since(start)))
}

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	Processed uint64 `json:"processed"`
	Submitted uint64 `json:"submitted"`
	Abstained uint64 `json:"abstained"`
	Failed    uint64 `json:"failed"`
	Deduped   uint64 `json:"deduped"`
}

// Snapshot returns the current pipeline counters.
func (p *Pool) Snapshot() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Submitted: p.submitted.Load(),
		Abstained: p.abstained.Load(),
		Failed:    p.failed.Load(),
		Deduped:   p.deduped.Load(),
	}
}
