package client

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultPollInterval is used when no positive interval is configured.
const DefaultPollInterval = 8 * time.Second

type TimeFetcher interface {
	FetchTime(ctx context.Context) (time.Time, error)
}

type TimeResult struct {
	Time time.Time
	Err  error
}

// Poller fetches the time on start and then on every tick. A fetch that
// outlives the interval is not cancelled, so results may overlap.
type Poller struct {
	fetcher  TimeFetcher
	interval time.Duration
	logger   *zap.Logger
	results  chan TimeResult
	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
	cancel   context.CancelFunc
}

func NewPoller(fetcher TimeFetcher, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		results:  make(chan TimeResult),
		stop:     make(chan struct{}),
	}
}

func (p *Poller) Results() <-chan TimeResult {
	return p.results
}

func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting time poller", zap.Duration("interval", p.interval))

	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go p.loop(ctx)
}

func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("Stopping time poller...")
		close(p.stop)
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()
		p.logger.Info("Time poller stopped")
	})
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.fetch(ctx)
	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		t, err := p.fetcher.FetchTime(ctx)
		if err != nil {
			p.logger.Warn("time fetch failed", zap.Error(err))
		}

		select {
		case p.results <- TimeResult{Time: t, Err: err}:
		case <-p.stop:
		case <-ctx.Done():
		}
	}()
}
