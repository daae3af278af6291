package view

import "github.com/bongdaha/livescore/internal/domain/fixture"

// Tab is the coarse filter over the day's fixtures plus live and favorite
// overlays.
type Tab string

const (
	TabAll       Tab = "all"
	TabLive      Tab = "live"
	TabFinished  Tab = "finished"
	TabScheduled Tab = "scheduled"
	TabFavorite  Tab = "favorite"
)

// ParseTab normalizes a raw tab name, falling back to TabAll.
func ParseTab(raw string) Tab {
	switch Tab(raw) {
	case TabLive, TabFinished, TabScheduled, TabFavorite:
		return Tab(raw)
	default:
		return TabAll
	}
}

// FavoriteSet answers membership for favorited fixture ids.
type FavoriteSet interface {
	Contains(id int64) bool
}

// CompetitionGroup is one league header plus its matches, in first-seen
// order.
type CompetitionGroup struct {
	League   fixture.League
	Fixtures []fixture.Fixture
}

// SelectView computes the grouped view model for the centre fixture list.
// Tab picks the base list; the favorite tab is the union of live-then-day
// fixtures filtered to favorites, and a fixture present in both snapshots is
// deliberately kept twice. An optional competition filter narrows further,
// then a single stable pass groups by competition id. An empty result is the
// valid "no matches" state.
func SelectView(tab Tab, competitionID int64, dayFixtures, liveFixtures []fixture.Fixture, favorites FavoriteSet) []CompetitionGroup {
	var base []fixture.Fixture

	switch tab {
	case TabLive:
		base = liveFixtures
	case TabFavorite:
		merged := make([]fixture.Fixture, 0, len(liveFixtures)+len(dayFixtures))
		merged = append(merged, liveFixtures...)
		merged = append(merged, dayFixtures...)
		for _, fx := range merged {
			if favorites != nil && favorites.Contains(fx.ID()) {
				base = append(base, fx)
			}
		}
	case TabFinished:
		for _, fx := range dayFixtures {
			if fx.Class() == fixture.ClassFinished {
				base = append(base, fx)
			}
		}
	case TabScheduled:
		for _, fx := range dayFixtures {
			if fx.Class() == fixture.ClassScheduled {
				base = append(base, fx)
			}
		}
	default:
		base = dayFixtures
	}

	if competitionID != 0 {
		filtered := make([]fixture.Fixture, 0, len(base))
		for _, fx := range base {
			if fx.League.ID == competitionID {
				filtered = append(filtered, fx)
			}
		}
		base = filtered
	}

	groups := make([]CompetitionGroup, 0, 8)
	indexByLeague := make(map[int64]int, 8)
	for _, fx := range base {
		idx, seen := indexByLeague[fx.League.ID]
		if !seen {
			idx = len(groups)
			indexByLeague[fx.League.ID] = idx
			groups = append(groups, CompetitionGroup{League: fx.League})
		}
		groups[idx].Fixtures = append(groups[idx].Fixtures, fx)
	}

	return groups
}

// NormalizeCursor maps an unbounded carousel cursor onto a valid index,
// handling negative cursors. Returns -1 for an empty list.
func NormalizeCursor(cursor, length int) int {
	if length <= 0 {
		return -1
	}
	return ((cursor % length) + length) % length
}
