package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/bongdaha/livescore/internal/domain/fixture"
	"github.com/bongdaha/livescore/internal/domain/news"
)

// Render functions are pure mappings from state to one region's markup; none
// keeps memory between calls. Fragments are built through pooled buffers.

const (
	newsLimit      = 12
	countriesLimit = 12
)

func escape(s string) string {
	return html.EscapeString(s)
}

// PinnedLeague is one fixed sidebar entry.
type PinnedLeague struct {
	ID   int64
	Name string
	Flag string
}

// DefaultPinnedLeagues mirrors the sidebar's fixed league shortcuts.
func DefaultPinnedLeagues() []PinnedLeague {
	return []PinnedLeague{
		{ID: 39, Name: "Premier League", Flag: "https://media.api-sports.io/flags/gb.svg"},
		{ID: 140, Name: "La Liga", Flag: "https://media.api-sports.io/flags/es.svg"},
		{ID: 135, Name: "Serie A", Flag: "https://media.api-sports.io/flags/it.svg"},
		{ID: 78, Name: "Bundesliga", Flag: "https://media.api-sports.io/flags/de.svg"},
		{ID: 61, Name: "Ligue 1", Flag: "https://media.api-sports.io/flags/fr.svg"},
		{ID: 283, Name: "V.League 1", Flag: "https://media.api-sports.io/flags/vn.svg"},
	}
}

// Clock renders the ticking header clock line.
func Clock(now time.Time) string {
	return escape(FormatWallClock(now))
}

// DateStrip renders five day chips centred on the selected day, plus keeps
// the date picker in sync via a data attribute.
func DateStrip(selectedDay time.Time) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	dayNames := [7]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"}
	base := time.Date(selectedDay.Year(), selectedDay.Month(), selectedDay.Day(), 0, 0, 0, 0, selectedDay.Location())

	for offset := -2; offset <= 2; offset++ {
		day := base.AddDate(0, 0, offset)
		active := ""
		if offset == 0 {
			active = " active"
		}
		label := dayNames[day.Weekday()]
		if offset == 0 {
			label = "TODAY"
		}
		fmt.Fprintf(buf, `<div class="date-chip%s" data-ymd="%s"><div class="d1">%02d/%02d</div><div class="d2">%s</div></div>`,
			active, DayKey(day), day.Day(), int(day.Month()), label)
	}

	return buf.String()
}

// TabBar renders the filter tabs with the active one marked.
func TabBar(active Tab) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	tabs := []struct {
		tab   Tab
		label string
	}{
		{TabAll, "All"},
		{TabLive, "Live"},
		{TabFinished, "Finished"},
		{TabScheduled, "Scheduled"},
		{TabFavorite, "Favorite"},
	}
	for _, item := range tabs {
		class := "tab-btn"
		if item.tab == active {
			class = "tab-btn active"
		}
		fmt.Fprintf(buf, `<button class="%s" data-tab="%s">%s</button>`, class, item.tab, item.label)
	}

	return buf.String()
}

// Fixtures renders the centre list from the grouped view model; the empty
// model renders the distinct no-matches state.
func Fixtures(groups []CompetitionGroup, favorites FavoriteSet) string {
	if len(groups) == 0 {
		return `<div class="loading-placeholder">No matches</div>`
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, group := range groups {
		buf.WriteString(`<div class="league-header" data-action="filter-league" data-league-id="`)
		fmt.Fprintf(buf, "%d", group.League.ID)
		buf.WriteString(`">`)
		if group.League.Flag != "" {
			fmt.Fprintf(buf, `<img class="league-flag" src="%s" alt="" />`, escape(group.League.Flag))
		}
		if group.League.Logo != "" {
			fmt.Fprintf(buf, `<img class="league-logo" src="%s" alt="" />`, escape(group.League.Logo))
		}
		fmt.Fprintf(buf, "<span>%s</span></div>", escape(leagueTitle(group.League)))

		for _, fx := range group.Fixtures {
			writeMatchRow(buf, fx, favorites != nil && favorites.Contains(fx.ID()))
		}
	}

	return buf.String()
}

func leagueTitle(l fixture.League) string {
	return l.Country + " - " + l.Name
}

func writeMatchRow(buf *bytebufferpool.ByteBuffer, fx fixture.Fixture, starred bool) {
	starClass := "star-btn"
	starIcon := "fa-regular"
	if starred {
		starClass = "star-btn on"
		starIcon = "fa-solid"
	}

	fmt.Fprintf(buf, `<div class="match-row" data-fixture-id="%d">`, fx.ID())
	fmt.Fprintf(buf, `<div class="status-cell">%s</div>`, StatusCell(fx))
	fmt.Fprintf(buf, `<div class="%s" data-action="toggle-fav" title="Favorite"><i class="%s fa-star"></i></div>`, starClass, starIcon)
	fmt.Fprintf(buf, `<div class="team home"><span class="team-name">%s</span>%s</div>`,
		escape(fx.Teams.Home.Name), teamLogo(fx.Teams.Home))
	fmt.Fprintf(buf, `<div class="score-cell">%s</div>`, ScoreCell(fx))
	fmt.Fprintf(buf, `<div class="team away">%s<span class="team-name">%s</span></div>`,
		teamLogo(fx.Teams.Away), escape(fx.Teams.Away.Name))
	fmt.Fprintf(buf, `<div class="chart-btn" data-action="open-detail" title="Stats"><i class="fa-solid fa-chart-line"></i></div>`)
	buf.WriteString(`</div>`)
}

func teamLogo(t fixture.Team) string {
	if t.Logo == "" {
		return ""
	}
	return fmt.Sprintf(`<img class="team-logo" src="%s" alt="" />`, escape(t.Logo))
}

// LiveBadge renders the live-match counter.
func LiveBadge(liveCount int) string {
	class := ""
	if liveCount > 0 {
		class = " live-on"
	}
	return fmt.Sprintf(`<span class="live-badge%s">%d</span>`, class, liveCount)
}

// Carousel renders the featured live match for the normalized cursor
// position; an empty live list renders the no-data state.
func Carousel(liveFixtures []fixture.Fixture, cursor int) string {
	idx := NormalizeCursor(cursor, len(liveFixtures))
	if idx < 0 {
		return `<div class="loading-placeholder">No data</div>`
	}
	fx := liveFixtures[idx]

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(`<div class="carousel-league">`)
	if fx.League.Flag != "" {
		fmt.Fprintf(buf, `<img class="league-flag" src="%s" alt="" />`, escape(fx.League.Flag))
	}
	fmt.Fprintf(buf, `<span>%s · %s</span></div>`, escape(fx.League.Country), escape(fx.League.Name))

	badge := `<div class="time-badge">LIVE</div>`
	if fx.Fixture.Status.Elapsed != nil {
		badge = fmt.Sprintf(`<div class="time-badge live">%d'</div>`, *fx.Fixture.Status.Elapsed)
	}

	fmt.Fprintf(buf, `<div class="carousel-match"><div class="side">%s<div class="team-name">%s</div></div>`,
		teamLogo(fx.Teams.Home), escape(fx.Teams.Home.Name))
	fmt.Fprintf(buf, `<div class="centre"><div class="big-score">%s-%s</div>%s</div>`,
		goalText(fx.Goals.Home), goalText(fx.Goals.Away), badge)
	fmt.Fprintf(buf, `<div class="side">%s<div class="team-name">%s</div></div></div>`,
		teamLogo(fx.Teams.Away), escape(fx.Teams.Away.Name))

	buf.WriteString(`<div class="carousel-nav">` +
		`<button class="nav-btn" data-action="carousel-prev">&lsaquo;</button>` +
		`<button class="nav-btn" data-action="carousel-next">&rsaquo;</button></div>`)

	return buf.String()
}

// News renders the headline list, capped to the freshest dozen.
func News(items []news.Item) string {
	if len(items) == 0 {
		return `<div class="loading-placeholder">No news</div>`
	}
	if len(items) > newsLimit {
		items = items[:newsLimit]
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, item := range items {
		published := ""
		if !item.PublishedAt.IsZero() {
			published = item.PublishedAt.Local().Format("02/01/2006 15:04")
		}
		fmt.Fprintf(buf, `<a class="news-item" href="%s" target="_blank" rel="noopener">`, escape(item.Link))
		fmt.Fprintf(buf, `<div class="news-title">%s</div>`, escape(item.Title))
		fmt.Fprintf(buf, `<div class="news-meta"><span class="tag">Trending</span><span>%s</span></div></a>`, escape(published))
	}

	return buf.String()
}

// PinnedLeagues renders the fixed sidebar league shortcuts, marking the
// active competition filter.
func PinnedLeagues(pinned []PinnedLeague, selectedCompetitionID int64) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString(`<ul class="pinned-leagues">`)
	for _, l := range pinned {
		class := "pinned-league"
		if l.ID == selectedCompetitionID {
			class = "pinned-league active"
		}
		fmt.Fprintf(buf, `<li class="%s" data-action="filter-league" data-league-id="%d">`, class, l.ID)
		if l.Flag != "" {
			fmt.Fprintf(buf, `<img class="league-flag" src="%s" alt="" />`, escape(l.Flag))
		}
		fmt.Fprintf(buf, `<span>%s</span></li>`, escape(l.Name))
	}
	buf.WriteString(`</ul>`)

	return buf.String()
}

// Countries renders the sidebar country list derived from the day's
// fixtures, first-seen order, capped. A day with no countries falls back
// to a fixed default list.
func Countries(dayFixtures []fixture.Fixture) string {
	type entry struct {
		name string
		flag string
	}
	seen := make(map[string]struct{}, countriesLimit)
	entries := make([]entry, 0, countriesLimit)
	for _, fx := range dayFixtures {
		country := strings.TrimSpace(fx.League.Country)
		if country == "" {
			continue
		}
		if _, dup := seen[country]; dup {
			continue
		}
		seen[country] = struct{}{}
		entries = append(entries, entry{name: country, flag: fx.League.Flag})
		if len(entries) == countriesLimit {
			break
		}
	}
	if len(entries) == 0 {
		entries = []entry{
			{name: "England", flag: "https://media.api-sports.io/flags/gb.svg"},
			{name: "Spain", flag: "https://media.api-sports.io/flags/es.svg"},
			{name: "Italy", flag: "https://media.api-sports.io/flags/it.svg"},
			{name: "Germany", flag: "https://media.api-sports.io/flags/de.svg"},
			{name: "France", flag: "https://media.api-sports.io/flags/fr.svg"},
			{name: "Vietnam", flag: "https://media.api-sports.io/flags/vn.svg"},
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, item := range entries {
		buf.WriteString(`<div class="country-row">`)
		if item.flag != "" {
			fmt.Fprintf(buf, `<img class="league-flag" src="%s" alt="" />`, escape(item.flag))
		}
		fmt.Fprintf(buf, `<span>%s</span></div>`, escape(item.name))
	}

	return buf.String()
}
