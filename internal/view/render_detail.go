package view

import (
	"fmt"
	"sort"

	"github.com/valyala/bytebufferpool"

	"github.com/bongdaha/livescore/internal/domain/fixture"
)

// DetailTab selects which pane of the match-detail panel is visible.
type DetailTab string

const (
	DetailTabSummary DetailTab = "summary"
	DetailTabStats   DetailTab = "stats"
	DetailTabLineups DetailTab = "lineups"
)

// ParseDetailTab normalizes a raw pane name, falling back to the summary.
func ParseDetailTab(raw string) DetailTab {
	switch DetailTab(raw) {
	case DetailTabStats, DetailTabLineups:
		return DetailTab(raw)
	default:
		return DetailTabSummary
	}
}

// trackedStats is the fixed set of metrics compared in the statistics pane,
// in display order.
var trackedStats = []string{
	"Ball Possession",
	"Total Shots",
	"Shots on Goal",
	"Corner Kicks",
	"Fouls",
	"Offsides",
	"Yellow Cards",
	"Goalkeeper Saves",
	"Total passes",
}

const (
	pitchLeftMarginPct  = 6.0
	pitchRightMarginPct = 94.0
)

// DetailNotFound is the placeholder when the detail endpoint had no match.
func DetailNotFound() string {
	return `<div class="loading-placeholder">No match data</div>`
}

// DetailLoadFailed is the placeholder when the detail fetch failed outright;
// it is confined to the panel and the next poll tick retries.
func DetailLoadFailed() string {
	return `<div class="loading-placeholder">Load failed</div>`
}

// DetailLoading is the placeholder shown between opening a detail pane and
// the first poll result.
func DetailLoading() string {
	return `<div class="loading-placeholder">Loading...</div>`
}

// DetailTabBar renders the three pane switches with the active one marked.
func DetailTabBar(active DetailTab) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	tabs := []struct {
		tab   DetailTab
		label string
	}{
		{DetailTabSummary, "Summary"},
		{DetailTabStats, "Statistics"},
		{DetailTabLineups, "Lineups"},
	}
	for _, item := range tabs {
		class := "detail-tab-btn"
		if item.tab == active {
			class = "detail-tab-btn active"
		}
		fmt.Fprintf(buf, `<button class="%s" data-detail-tab="%s">%s</button>`, class, item.tab, item.label)
	}

	return buf.String()
}

// DetailPane renders the active pane's content only; the rest of the panel
// is untouched by the detail poll.
func DetailPane(fx fixture.Fixture, tab DetailTab) string {
	switch tab {
	case DetailTabStats:
		return DetailStats(fx)
	case DetailTabLineups:
		return DetailLineups(fx)
	default:
		return DetailSummary(fx)
	}
}

// DetailHeader renders the panel's fixed score header.
func DetailHeader(fx fixture.Fixture) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	fmt.Fprintf(buf, `<div class="detail-header" data-fixture-id="%d">`, fx.ID())
	fmt.Fprintf(buf, `<div class="side">%s<span>%s</span></div>`, teamLogo(fx.Teams.Home), escape(fx.Teams.Home.Name))
	fmt.Fprintf(buf, `<div class="centre">%s<div class="status">%s</div></div>`, ScoreCell(fx), StatusCell(fx))
	fmt.Fprintf(buf, `<div class="side">%s<span>%s</span></div>`, teamLogo(fx.Teams.Away), escape(fx.Teams.Away.Name))
	buf.WriteString(`<button class="detail-close" data-action="close-detail">×</button></div>`)

	return buf.String()
}

// DetailSummary renders the event timeline, newest last; no events is an
// explicit empty state, not an error.
func DetailSummary(fx fixture.Fixture) string {
	if len(fx.Events) == 0 {
		return `<div class="loading-placeholder">No events yet</div>`
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(`<div class="event-timeline">`)
	for _, ev := range fx.Events {
		side := "home"
		if ev.Team.ID == fx.Teams.Away.ID {
			side = "away"
		}
		minute := fmt.Sprintf("%d'", ev.Time.Elapsed)
		if ev.Time.Extra != nil && *ev.Time.Extra > 0 {
			minute = fmt.Sprintf("%d'+%d", ev.Time.Elapsed, *ev.Time.Extra)
		}

		fmt.Fprintf(buf, `<div class="event-row %s"><span class="minute">%s</span>`, side, escape(minute))
		fmt.Fprintf(buf, `<span class="event-type">%s</span>`, escape(eventLabel(ev)))
		fmt.Fprintf(buf, `<span class="player">%s</span>`, escape(ev.Player.Name))
		if ev.Assist.Name != "" {
			fmt.Fprintf(buf, `<span class="assist">(%s)</span>`, escape(ev.Assist.Name))
		}
		buf.WriteString(`</div>`)
	}
	buf.WriteString(`</div>`)

	return buf.String()
}

func eventLabel(ev fixture.Event) string {
	if ev.Type == "Card" && ev.Detail != "" {
		return ev.Detail
	}
	if ev.Detail != "" && ev.Detail != ev.Type {
		return ev.Type + " · " + ev.Detail
	}
	return ev.Type
}

// DetailStats renders the side-by-side comparison bars for the tracked
// metrics. Missing values default to zero; bar widths split the row
// proportionally with the zero-zero case guarded; the larger raw value is
// marked leading.
func DetailStats(fx fixture.Fixture) string {
	if len(fx.Statistics) < 2 {
		return `<div class="loading-placeholder">No statistics</div>`
	}

	home := statLookup(fx.Statistics[0])
	away := statLookup(fx.Statistics[1])

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(`<div class="stats-compare">`)
	for _, name := range trackedStats {
		homeVal := home[name]
		awayVal := away[name]

		total := homeVal + awayVal
		if total == 0 {
			total = 1
		}
		homeWidth := homeVal / total * 100
		awayWidth := awayVal / total * 100

		homeClass, awayClass := "bar home", "bar away"
		if homeVal > awayVal {
			homeClass = "bar home leading"
		} else if awayVal > homeVal {
			awayClass = "bar away leading"
		}

		buf.WriteString(`<div class="stat-row">`)
		fmt.Fprintf(buf, `<span class="value">%s</span>`, statText(homeVal, name))
		fmt.Fprintf(buf, `<span class="label">%s</span>`, escape(name))
		fmt.Fprintf(buf, `<span class="value">%s</span>`, statText(awayVal, name))
		fmt.Fprintf(buf, `<div class="bars"><div class="%s" style="width:%.1f%%"></div><div class="%s" style="width:%.1f%%"></div></div>`,
			homeClass, homeWidth, awayClass, awayWidth)
		buf.WriteString(`</div>`)
	}
	buf.WriteString(`</div>`)

	return buf.String()
}

func statLookup(side fixture.TeamStatistics) map[string]float64 {
	out := make(map[string]float64, len(side.Statistics))
	for _, row := range side.Statistics {
		out[row.Type] = row.Numeric()
	}
	return out
}

func statText(v float64, name string) string {
	if name == "Ball Possession" {
		return fmt.Sprintf("%.0f%%", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// DetailLineups renders both starting elevens on one pitch diagram: rows
// come from the first grid coordinate, columns sort left to right, players
// spread evenly between fixed margins, and the away side mirrors vertically
// onto the opposite half.
func DetailLineups(fx fixture.Fixture) string {
	if len(fx.Lineups) < 2 {
		return `<div class="loading-placeholder">No lineups</div>`
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(`<div class="pitch">`)
	writeFormationLabel(buf, fx.Lineups[0], "home")
	writeFormationLabel(buf, fx.Lineups[1], "away")
	writeLineupHalf(buf, fx.Lineups[0], false)
	writeLineupHalf(buf, fx.Lineups[1], true)
	buf.WriteString(`</div>`)

	return buf.String()
}

func writeFormationLabel(buf *bytebufferpool.ByteBuffer, lineup fixture.Lineup, side string) {
	if lineup.Formation == "" {
		return
	}
	fmt.Fprintf(buf, `<div class="formation %s">%s · %s</div>`, side, escape(lineup.Team.Name), escape(lineup.Formation))
}

func writeLineupHalf(buf *bytebufferpool.ByteBuffer, lineup fixture.Lineup, mirrored bool) {
	byRow := make(map[int][]fixture.LineupPlayer)
	for _, slot := range lineup.StartXI {
		row, _, ok := slot.Player.GridPosition()
		if !ok {
			continue
		}
		byRow[row] = append(byRow[row], slot.Player)
	}
	if len(byRow) == 0 {
		return
	}

	rows := make([]int, 0, len(byRow))
	for row := range byRow {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	for i, row := range rows {
		players := byRow[row]
		sort.Slice(players, func(a, b int) bool {
			_, colA, _ := players[a].GridPosition()
			_, colB, _ := players[b].GridPosition()
			return colA < colB
		})

		// Rows occupy one half of the pitch; the away side mirrors so the
		// two goalkeepers sit at opposite ends.
		y := (float64(i) + 0.5) / float64(len(rows)) * 50
		if mirrored {
			y = 100 - y
		}

		span := pitchRightMarginPct - pitchLeftMarginPct
		for j, player := range players {
			x := pitchLeftMarginPct + (float64(j)+0.5)*span/float64(len(players))
			fmt.Fprintf(buf, `<div class="pitch-player" style="left:%.1f%%;top:%.1f%%"><span class="number">%d</span><span class="name">%s</span></div>`,
				x, y, player.Number, escape(player.Name))
		}
	}
}
