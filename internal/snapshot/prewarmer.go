package snapshot

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/bongdaha/livescore/internal/platform/logging"
	"github.com/bongdaha/livescore/internal/view"
)

// Prewarmer keeps the snapshot caches hot ahead of user traffic. It warms
// the fixture lists for the five days visible on the date strip, plus the
// live board and the headline list. Warm failures are already absorbed by
// the service, so a warming pass can never surface an error.
type Prewarmer struct {
	service  *Service
	pool     *ants.Pool
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time
}

type PrewarmerConfig struct {
	Workers  int
	Interval time.Duration
	Logger   *logging.Logger
}

func NewPrewarmer(service *Service, cfg PrewarmerConfig) (*Prewarmer, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 45 * time.Second
	}

	return &Prewarmer{
		service:  service,
		pool:     pool,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run warms once immediately and then on every interval until ctx ends.
func (p *Prewarmer) Run(ctx context.Context) {
	defer p.pool.Release()

	p.warm(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.warm(ctx)
		}
	}
}

func (p *Prewarmer) warm(ctx context.Context) {
	today := p.now()
	for offset := -2; offset <= 2; offset++ {
		ymd := view.DayKey(today.AddDate(0, 0, offset))
		p.submit(func() { p.service.FixturesForDay(ctx, ymd) })
	}
	p.submit(func() { p.service.Live(ctx) })
	p.submit(func() { p.service.News(ctx) })
}

func (p *Prewarmer) submit(task func()) {
	if err := p.pool.Submit(task); err != nil {
		p.logger.Debug("prewarm task skipped", "error", err)
	}
}
