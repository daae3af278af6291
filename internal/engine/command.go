package engine

import (
	"time"

	"github.com/bongdaha/livescore/internal/view"
)

// Command is a typed user interaction. Commands mutate state only through
// Reduce; side effects come back to the engine as an Effect.
type Command interface {
	isCommand()
}

type SelectTab struct {
	Tab view.Tab
}

type SelectDay struct {
	Day time.Time
}

type ShiftDay struct {
	Days int
}

// SelectCompetition toggles the competition filter: selecting the current
// competition again clears it.
type SelectCompetition struct {
	ID int64
}

type ToggleFavorite struct {
	FixtureID int64
}

// CarouselStep moves the live carousel cursor. Backward steps stop at
// zero; forward steps run unbounded and the renderer wraps them.
type CarouselStep struct {
	Delta int
}

type OpenDetail struct {
	FixtureID int64
}

type CloseDetail struct{}

type SelectDetailTab struct {
	Tab view.DetailTab
}

func (SelectTab) isCommand()         {}
func (SelectDay) isCommand()         {}
func (ShiftDay) isCommand()          {}
func (SelectCompetition) isCommand() {}
func (ToggleFavorite) isCommand()    {}
func (CarouselStep) isCommand()      {}
func (OpenDetail) isCommand()        {}
func (CloseDetail) isCommand()       {}
func (SelectDetailTab) isCommand()   {}

// Effect tells the engine which side effect a command requires once the
// new state is in place.
type Effect int

const (
	EffectNone Effect = iota
	// EffectRefetchDay means the selection changed and the three data
	// snapshots must be refetched.
	EffectRefetchDay
	// EffectStartDetail means a detail pane opened on a new fixture and
	// needs its polling goroutine.
	EffectStartDetail
	// EffectStopDetail means the detail pane closed and its poll must be
	// cancelled.
	EffectStopDetail
	// EffectToggleFavorite means the favorites store must flip the
	// command's fixture id.
	EffectToggleFavorite
)

// Reduce applies one command to the state. It is pure: the same state and
// command always produce the same result, and side effects are only
// described, never performed.
func Reduce(s State, cmd Command) (State, Effect) {
	switch c := cmd.(type) {
	case SelectTab:
		s.ActiveTab = c.Tab
		s.SelectedCompetitionID = 0
		return s, EffectRefetchDay

	case SelectDay:
		if view.DayKey(c.Day) == view.DayKey(s.SelectedDay) {
			return s, EffectNone
		}
		s.SelectedDay = c.Day
		s.SelectedCompetitionID = 0
		return s, EffectRefetchDay

	case ShiftDay:
		if c.Days == 0 {
			return s, EffectNone
		}
		s.SelectedDay = s.SelectedDay.AddDate(0, 0, c.Days)
		s.SelectedCompetitionID = 0
		return s, EffectRefetchDay

	case SelectCompetition:
		if c.ID == s.SelectedCompetitionID {
			s.SelectedCompetitionID = 0
		} else {
			s.SelectedCompetitionID = c.ID
		}
		return s, EffectNone

	case ToggleFavorite:
		if c.FixtureID <= 0 {
			return s, EffectNone
		}
		return s, EffectToggleFavorite

	case CarouselStep:
		next := s.CarouselCursor + c.Delta
		if next < 0 {
			next = 0
		}
		s.CarouselCursor = next
		return s, EffectNone

	case OpenDetail:
		if c.FixtureID <= 0 {
			return s, EffectNone
		}
		if c.FixtureID == s.OpenDetailFixtureID {
			return s, EffectNone
		}
		s.OpenDetailFixtureID = c.FixtureID
		s.DetailTab = view.DetailTabSummary
		s.DetailFixture = nil
		s.DetailMissing = false
		s.DetailFailed = false
		return s, EffectStartDetail

	case CloseDetail:
		if !s.DetailOpen() {
			return s, EffectNone
		}
		s.OpenDetailFixtureID = 0
		s.DetailFixture = nil
		s.DetailMissing = false
		s.DetailFailed = false
		s.DetailTab = view.DetailTabSummary
		return s, EffectStopDetail

	case SelectDetailTab:
		if !s.DetailOpen() {
			return s, EffectNone
		}
		s.DetailTab = c.Tab
		return s, EffectNone

	default:
		return s, EffectNone
	}
}
