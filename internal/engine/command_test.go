package engine

import (
	"testing"
	"time"

	"github.com/bongdaha/livescore/internal/view"
)

func TestReduce_SelectTab(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	s.SelectedCompetitionID = 39
	next, effect := Reduce(s, SelectTab{Tab: view.TabLive})
	if next.ActiveTab != view.TabLive || effect != EffectRefetchDay {
		t.Fatalf("got tab=%v effect=%v", next.ActiveTab, effect)
	}
	if next.SelectedCompetitionID != 0 {
		t.Fatalf("tab change should clear the competition filter, got %d", next.SelectedCompetitionID)
	}
}

func TestReduce_SelectDay(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())

	// Re-selecting the current day is a no-op, no refetch.
	next, effect := Reduce(s, SelectDay{Day: s.SelectedDay})
	if effect != EffectNone {
		t.Fatalf("same-day select produced effect %v", effect)
	}

	tomorrow := s.SelectedDay.AddDate(0, 0, 1)
	s.SelectedCompetitionID = 140
	next, effect = Reduce(s, SelectDay{Day: tomorrow})
	if effect != EffectRefetchDay {
		t.Fatalf("new day select produced effect %v", effect)
	}
	if view.DayKey(next.SelectedDay) != view.DayKey(tomorrow) {
		t.Fatalf("selected day = %v", next.SelectedDay)
	}
	if next.SelectedCompetitionID != 0 {
		t.Fatalf("day change should clear the competition filter, got %d", next.SelectedCompetitionID)
	}
}

func TestReduce_ShiftDay(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	next, effect := Reduce(s, ShiftDay{Days: -1})
	if effect != EffectRefetchDay {
		t.Fatalf("shift produced effect %v", effect)
	}
	want := view.DayKey(s.SelectedDay.AddDate(0, 0, -1))
	if view.DayKey(next.SelectedDay) != want {
		t.Fatalf("shifted day = %v, want %s", next.SelectedDay, want)
	}

	if _, effect := Reduce(s, ShiftDay{Days: 0}); effect != EffectNone {
		t.Fatalf("zero shift produced effect %v", effect)
	}
}

func TestReduce_SelectCompetitionToggles(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	next, _ := Reduce(s, SelectCompetition{ID: 39})
	if next.SelectedCompetitionID != 39 {
		t.Fatalf("competition = %d, want 39", next.SelectedCompetitionID)
	}

	// Selecting the active competition again clears the filter.
	next, _ = Reduce(next, SelectCompetition{ID: 39})
	if next.SelectedCompetitionID != 0 {
		t.Fatalf("competition = %d, want 0", next.SelectedCompetitionID)
	}
}

func TestReduce_CarouselStepClampsBackward(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	next, _ := Reduce(s, CarouselStep{Delta: -1})
	if next.CarouselCursor != 0 {
		t.Fatalf("cursor = %d, want 0", next.CarouselCursor)
	}

	// Forward steps run unbounded; the renderer wraps them.
	for i := 0; i < 5; i++ {
		next, _ = Reduce(next, CarouselStep{Delta: 1})
	}
	if next.CarouselCursor != 5 {
		t.Fatalf("cursor = %d, want 5", next.CarouselCursor)
	}
}

func TestReduce_OpenDetail(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	next, effect := Reduce(s, OpenDetail{FixtureID: 100})
	if effect != EffectStartDetail || next.OpenDetailFixtureID != 100 {
		t.Fatalf("got effect=%v id=%d", effect, next.OpenDetailFixtureID)
	}
	if next.DetailTab != view.DetailTabSummary {
		t.Fatalf("detail tab = %v, want summary", next.DetailTab)
	}

	// Reopening the same fixture keeps the existing poll.
	if _, effect := Reduce(next, OpenDetail{FixtureID: 100}); effect != EffectNone {
		t.Fatalf("same-id open produced effect %v", effect)
	}

	// Opening another fixture swaps the poll target.
	swapped, effect := Reduce(next, OpenDetail{FixtureID: 200})
	if effect != EffectStartDetail || swapped.OpenDetailFixtureID != 200 {
		t.Fatalf("got effect=%v id=%d", effect, swapped.OpenDetailFixtureID)
	}
	if swapped.DetailFixture != nil {
		t.Fatalf("swap should clear the stale detail payload")
	}
}

func TestReduce_CloseDetail(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	opened, _ := Reduce(s, OpenDetail{FixtureID: 100})
	closed, effect := Reduce(opened, CloseDetail{})
	if effect != EffectStopDetail || closed.DetailOpen() {
		t.Fatalf("got effect=%v open=%v", effect, closed.DetailOpen())
	}

	// Closing an already-closed pane does nothing.
	if _, effect := Reduce(closed, CloseDetail{}); effect != EffectNone {
		t.Fatalf("double close produced effect %v", effect)
	}
}

func TestReduce_SelectDetailTabNeedsOpenPane(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	if next, _ := Reduce(s, SelectDetailTab{Tab: view.DetailTabStats}); next.DetailTab != view.DetailTabSummary {
		t.Fatalf("closed pane accepted a detail tab switch")
	}

	opened, _ := Reduce(s, OpenDetail{FixtureID: 1})
	next, _ := Reduce(opened, SelectDetailTab{Tab: view.DetailTabStats})
	if next.DetailTab != view.DetailTabStats {
		t.Fatalf("detail tab = %v, want stats", next.DetailTab)
	}
}

func TestReduce_ToggleFavorite(t *testing.T) {
	t.Parallel()

	s := NewState(time.Now())
	if _, effect := Reduce(s, ToggleFavorite{FixtureID: 42}); effect != EffectToggleFavorite {
		t.Fatalf("toggle produced effect %v", effect)
	}
	if _, effect := Reduce(s, ToggleFavorite{FixtureID: 0}); effect != EffectNone {
		t.Fatalf("zero id toggle produced effect %v", effect)
	}
}
