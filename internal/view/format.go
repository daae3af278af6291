package view

import (
	"fmt"
	"time"

	"github.com/bongdaha/livescore/internal/domain/fixture"
)

// DayKey maps an instant to its device-local calendar day as a
// lexicographically sortable "YYYY-MM-DD" key. Two instants on the same local
// day always yield the same key; this is the equality test used for "same
// day" everywhere.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatClock renders an instant as zero-padded local 24-hour "HH:MM".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}

// FormatWallClock renders the ticking header clock.
func FormatWallClock(t time.Time) string {
	return t.Format("02/01/2006 15:04:05")
}

// StatusCell renders the left-hand status column of a match row: elapsed
// minutes while live, kickoff time while scheduled, FT when finished, and
// the raw code otherwise.
func StatusCell(fx fixture.Fixture) string {
	status := fx.Fixture.Status
	switch fx.Class() {
	case fixture.ClassLive:
		if status.Elapsed != nil {
			return fmt.Sprintf(`<span class="live-dot"></span><span>%d'</span>`, *status.Elapsed)
		}
		return `<span class="live-dot"></span><span>LIVE</span>`
	case fixture.ClassScheduled:
		return "<span>" + FormatClock(fx.Fixture.Date.Local()) + "</span>"
	case fixture.ClassFinished:
		return "<span>FT</span>"
	default:
		if status.Elapsed != nil {
			return fmt.Sprintf("<span>%d'</span>", *status.Elapsed)
		}
		if status.Short == "" {
			return "<span>-</span>"
		}
		return "<span>" + escape(status.Short) + "</span>"
	}
}

// ScoreCell renders the centre score column: dashes before kickoff, the
// current score otherwise, highlighted while live.
func ScoreCell(fx fixture.Fixture) string {
	if fx.Class() == fixture.ClassScheduled {
		return `<span class="score">- : -</span>`
	}
	class := "score"
	if fx.IsLive() {
		class = "score live"
	}
	return fmt.Sprintf(`<span class="%s">%s : %s</span>`, class, goalText(fx.Goals.Home), goalText(fx.Goals.Away))
}

func goalText(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
