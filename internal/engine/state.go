package engine

import (
	"time"

	"github.com/bongdaha/livescore/internal/domain/fixture"
	"github.com/bongdaha/livescore/internal/domain/news"
	"github.com/bongdaha/livescore/internal/view"
)

// State is the full dashboard state. It is owned by the engine's event
// loop goroutine; everything outside the loop sees only rendered regions.
type State struct {
	ActiveTab             view.Tab
	SelectedDay           time.Time
	SelectedCompetitionID int64
	CarouselCursor        int

	DayFixtures  []fixture.Fixture
	LiveFixtures []fixture.Fixture
	NewsItems    []news.Item

	// OpenDetailFixtureID is zero while the detail pane is closed.
	OpenDetailFixtureID int64
	DetailTab           view.DetailTab
	DetailFixture       *fixture.Fixture
	DetailMissing       bool
	DetailFailed        bool
}

// NewState returns the boot state: the all tab on today's board with
// nothing fetched yet.
func NewState(now time.Time) State {
	return State{
		ActiveTab:    view.TabAll,
		SelectedDay:  now,
		DayFixtures:  []fixture.Fixture{},
		LiveFixtures: []fixture.Fixture{},
		NewsItems:    []news.Item{},
		DetailTab:    view.DetailTabSummary,
	}
}

// DetailOpen reports whether a match detail pane is active.
func (s State) DetailOpen() bool {
	return s.OpenDetailFixtureID != 0
}
