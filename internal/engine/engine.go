package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/bongdaha/livescore/internal/domain/fixture"
	"github.com/bongdaha/livescore/internal/domain/news"
	"github.com/bongdaha/livescore/internal/favorites"
	"github.com/bongdaha/livescore/internal/feed"
	"github.com/bongdaha/livescore/internal/platform/logging"
	"github.com/bongdaha/livescore/internal/view"
)

// Regions is one rendered snapshot of every dashboard region. The engine
// hands out copies, so callers can serve them without locking.
type Regions struct {
	Clock         string `json:"clock"`
	DateStrip     string `json:"dateStrip"`
	TabBar        string `json:"tabBar"`
	Fixtures      string `json:"fixtures"`
	LiveBadge     string `json:"liveBadge"`
	Carousel      string `json:"carousel"`
	News          string `json:"news"`
	PinnedLeagues string `json:"pinnedLeagues"`
	Countries     string `json:"countries"`
	DetailOpen    bool   `json:"detailOpen"`
	DetailTabs    string `json:"detailTabs"`
	Detail        string `json:"detail"`
}

type Config struct {
	RefreshInterval time.Duration
	DetailInterval  time.Duration
	ClockInterval   time.Duration
}

func (c Config) normalized() Config {
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 60 * time.Second
	}
	if c.DetailInterval <= 0 {
		c.DetailInterval = 15 * time.Second
	}
	if c.ClockInterval <= 0 {
		c.ClockInterval = time.Second
	}
	return c
}

type commandEnvelope struct {
	cmd   Command
	reply chan Regions
}

type refreshResult struct {
	dayKey string
	day    []fixture.Fixture
	live   []fixture.Fixture
	items  []news.Item
}

type detailResult struct {
	generation uint64
	fx         fixture.Fixture
	found      bool
	failed     bool
}

// Engine owns the dashboard state behind a single event loop goroutine.
// Three cadences drive it: a full refresh that wholesale-replaces the data
// snapshots, a per-fixture detail poll while a detail pane is open, and a
// clock tick. User commands arrive over a channel and are answered with
// freshly rendered regions.
type Engine struct {
	feed      *feed.Client
	favorites *favorites.Store
	logger    *logging.Logger
	cfg       Config
	pinned    []view.PinnedLeague
	now       func() time.Time

	started        atomic.Bool
	commands       chan commandEnvelope
	snapshots      chan chan Regions
	refreshResults chan refreshResult
	detailResults  chan detailResult

	// Loop-owned. The single detail handle invariant lives here: at most
	// one poll goroutine is live, and detailGen fences its stale results.
	detailCancel    context.CancelFunc
	detailGen       uint64
	refreshInFlight int
}

func New(feedClient *feed.Client, favs *favorites.Store, cfg Config, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		feed:           feedClient,
		favorites:      favs,
		logger:         logger,
		cfg:            cfg.normalized(),
		pinned:         view.DefaultPinnedLeagues(),
		now:            time.Now,
		commands:       make(chan commandEnvelope),
		snapshots:      make(chan chan Regions),
		refreshResults: make(chan refreshResult, 4),
		detailResults:  make(chan detailResult, 4),
	}
}

// Start launches the event loop. Calling it again is a no-op; the loop
// binds exactly once and runs until ctx ends.
func (e *Engine) Start(ctx context.Context) {
	if !e.started.CompareAndSwap(false, true) {
		return
	}
	go e.run(ctx)
}

// Dispatch applies one command and returns the regions rendered from the
// resulting state.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) (Regions, error) {
	if !e.started.Load() {
		return Regions{}, fmt.Errorf("engine is not started")
	}

	envelope := commandEnvelope{cmd: cmd, reply: make(chan Regions, 1)}
	select {
	case e.commands <- envelope:
	case <-ctx.Done():
		return Regions{}, ctx.Err()
	}
	select {
	case regions := <-envelope.reply:
		return regions, nil
	case <-ctx.Done():
		return Regions{}, ctx.Err()
	}
}

// Snapshot returns the latest rendered regions without changing state.
func (e *Engine) Snapshot(ctx context.Context) (Regions, error) {
	if !e.started.Load() {
		return Regions{}, fmt.Errorf("engine is not started")
	}

	reply := make(chan Regions, 1)
	select {
	case e.snapshots <- reply:
	case <-ctx.Done():
		return Regions{}, ctx.Err()
	}
	select {
	case regions := <-reply:
		return regions, nil
	case <-ctx.Done():
		return Regions{}, ctx.Err()
	}
}

func (e *Engine) run(ctx context.Context) {
	state := NewState(e.now())
	e.startRefresh(ctx, state.SelectedDay)

	refreshTicker := time.NewTicker(e.cfg.RefreshInterval)
	defer refreshTicker.Stop()
	clockTicker := time.NewTicker(e.cfg.ClockInterval)
	defer clockTicker.Stop()

	regions := e.render(state)

	for {
		select {
		case <-ctx.Done():
			e.stopDetailPoll()
			return

		case envelope := <-e.commands:
			state = e.apply(ctx, state, envelope.cmd)
			regions = e.render(state)
			envelope.reply <- regions

		case reply := <-e.snapshots:
			regions.Clock = view.Clock(e.now())
			reply <- regions

		case result := <-e.refreshResults:
			e.refreshInFlight--
			if result.dayKey == view.DayKey(state.SelectedDay) {
				state.DayFixtures = result.day
			}
			state.LiveFixtures = result.live
			state.NewsItems = result.items
			regions = e.render(state)

		case result := <-e.detailResults:
			if result.generation != e.detailGen || !state.DetailOpen() {
				break
			}
			switch {
			case result.failed:
				// The poll stays alive and retries on its next tick.
				state.DetailFailed = true
			case !result.found:
				// Nothing to poll for; drop the handle so no goroutine
				// keeps hitting the feed for a dead id.
				e.stopDetailPoll()
				state.DetailFixture = nil
				state.DetailMissing = true
				state.DetailFailed = false
			default:
				fx := result.fx
				state.DetailFixture = &fx
				state.DetailMissing = false
				state.DetailFailed = false
			}
			regions = e.render(state)

		case <-refreshTicker.C:
			if e.refreshInFlight == 0 {
				e.startRefresh(ctx, state.SelectedDay)
			}

		case <-clockTicker.C:
			regions.Clock = view.Clock(e.now())
		}
	}
}

func (e *Engine) apply(ctx context.Context, state State, cmd Command) State {
	next, effect := Reduce(state, cmd)
	switch effect {
	case EffectToggleFavorite:
		toggle := cmd.(ToggleFavorite)
		starred := e.favorites.Toggle(toggle.FixtureID)
		e.logger.Debug("favorite toggled", "fixtureId", toggle.FixtureID, "starred", starred)
	case EffectRefetchDay:
		e.startRefresh(ctx, next.SelectedDay)
	case EffectStartDetail:
		e.startDetailPoll(ctx, next.OpenDetailFixtureID)
	case EffectStopDetail:
		e.stopDetailPoll()
	}
	return next
}

// startRefresh fetches the three data snapshots concurrently and delivers
// them back to the loop in one message, tagged with the day they belong
// to. Failed fetches come back as empty values from the feed client.
func (e *Engine) startRefresh(ctx context.Context, day time.Time) {
	e.refreshInFlight++
	go func() {
		var (
			dayFixtures  []fixture.Fixture
			liveFixtures []fixture.Fixture
			items        []news.Item
		)

		var wg conc.WaitGroup
		wg.Go(func() { dayFixtures = e.feed.FixturesForDay(ctx, day) })
		wg.Go(func() { liveFixtures = e.feed.Live(ctx) })
		wg.Go(func() { items = e.feed.News(ctx) })
		wg.Wait()

		result := refreshResult{
			dayKey: view.DayKey(day),
			day:    dayFixtures,
			live:   liveFixtures,
			items:  items,
		}
		select {
		case e.refreshResults <- result:
		case <-ctx.Done():
		}
	}()
}

// startDetailPoll replaces any running poll with a fresh one for id.
func (e *Engine) startDetailPoll(ctx context.Context, id int64) {
	e.stopDetailPoll()
	e.detailGen++

	pollCtx, cancel := context.WithCancel(ctx)
	e.detailCancel = cancel
	go e.pollDetail(pollCtx, id, e.detailGen)
}

func (e *Engine) stopDetailPoll() {
	if e.detailCancel != nil {
		e.detailCancel()
		e.detailCancel = nil
	}
}

func (e *Engine) pollDetail(ctx context.Context, id int64, generation uint64) {
	fetch := func() bool {
		fx, found, err := e.feed.FixtureDetail(ctx, id)
		result := detailResult{generation: generation, fx: fx, found: found, failed: err != nil}
		select {
		case e.detailResults <- result:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if !fetch() {
		return
	}

	ticker := time.NewTicker(e.cfg.DetailInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !fetch() {
				return
			}
		}
	}
}

func (e *Engine) render(state State) Regions {
	groups := view.SelectView(state.ActiveTab, state.SelectedCompetitionID,
		state.DayFixtures, state.LiveFixtures, e.favorites)

	regions := Regions{
		Clock:         view.Clock(e.now()),
		DateStrip:     view.DateStrip(state.SelectedDay),
		TabBar:        view.TabBar(state.ActiveTab),
		Fixtures:      view.Fixtures(groups, e.favorites),
		LiveBadge:     view.LiveBadge(len(state.LiveFixtures)),
		Carousel:      view.Carousel(state.LiveFixtures, state.CarouselCursor),
		News:          view.News(state.NewsItems),
		PinnedLeagues: view.PinnedLeagues(e.pinned, state.SelectedCompetitionID),
		Countries:     view.Countries(state.DayFixtures),
	}

	if state.DetailOpen() {
		regions.DetailOpen = true
		regions.DetailTabs = view.DetailTabBar(state.DetailTab)
		switch {
		case state.DetailMissing:
			regions.Detail = view.DetailNotFound()
		case state.DetailFixture != nil:
			regions.Detail = view.DetailPane(*state.DetailFixture, state.DetailTab)
		case state.DetailFailed:
			regions.Detail = view.DetailLoadFailed()
		default:
			regions.Detail = view.DetailLoading()
		}
	}
	return regions
}
