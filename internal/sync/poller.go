package sync

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// PageLister queries the source database for pages ready to sync.
type PageLister interface {
	QueryReadyPages(ctx context.Context) ([]string, error)
}

// Processor handles one page end to end.
type Processor interface {
	ProcessPage(ctx context.Context, pageID string) error
}

// Poller drives the sync on a fixed-delay schedule: each cycle queries for
// ready pages, dispatches them sequentially, then sleeps the full interval
// after the cycle ends. Page and cycle failures are isolated from the
// loop; a panic stops the loop (logged with its stack) while the process
// keeps serving health checks, so an external supervisor is expected to
// restart the service if syncing must resume.
type Poller struct {
	lister    PageLister
	processor Processor
	interval  time.Duration
	logger    *zap.Logger

	cycleFailures atomic.Uint64
}

// NewPoller creates a new poller.
func NewPoller(lister PageLister, processor Processor, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		lister:    lister,
		processor: processor,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("polling loop crashed",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()

	p.logger.Info("polling for pages to sync", zap.Duration("interval", p.interval))

	for {
		p.cycle(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("stopping poller")
			return
		case <-time.After(p.interval):
		}
	}
}

// CycleFailures reports how many poll cycles have failed outright, for the
// health surface.
func (p *Poller) CycleFailures() uint64 {
	return p.cycleFailures.Load()
}

// cycle runs one poll pass. Per-page failures are logged and do not stop
// the remaining pages in the same cycle.
func (p *Poller) cycle(ctx context.Context) {
	ids, err := p.lister.QueryReadyPages(ctx)
	if err != nil {
		p.cycleFailures.Add(1)
		p.logger.Error("polling cycle failed", zap.Error(err))
		return
	}

	if len(ids) > 0 {
		p.logger.Info("found pages to sync", zap.Int("count", len(ids)))
	}

	for _, id := range ids {
		if err := p.processor.ProcessPage(ctx, id); err != nil {
			p.logger.Error("failed to sync page",
				zap.String("page_id", id),
				zap.Error(err),
			)
			continue
		}
		p.logger.Info("synced page", zap.String("page_id", id))
	}
}
