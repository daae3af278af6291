package httpapi

import (
	"html/template"
	"io"

	"github.com/bongdaha/livescore/internal/engine"
)

// The page shell carries every region as a pre-rendered fragment. Region
// markup is produced by the view package and escaped there, so the
// template injects it as trusted HTML.
var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!doctype html>
<html lang="vi">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Livescore</title>
<link rel="stylesheet" href="/static/style.css">
</head>
<body>
<header class="topbar">
  <div id="clock">{{.Clock}}</div>
  <div id="live-badge">{{.LiveBadge}}</div>
</header>
<section id="carousel">{{.Carousel}}</section>
<nav id="date-strip">{{.DateStrip}}</nav>
<main class="layout">
  <aside class="sidebar-left">
    <div id="pinned-leagues">{{.PinnedLeagues}}</div>
    <div id="countries">{{.Countries}}</div>
  </aside>
  <section class="center">
    <nav id="tab-bar">{{.TabBar}}</nav>
    <div id="fixtures">{{.Fixtures}}</div>
    <div id="detail-panel"{{if not .DetailOpen}} style="display:none"{{end}}>
      <nav id="detail-tabs">{{.DetailTabs}}</nav>
      <div id="detail">{{.Detail}}</div>
    </div>
  </section>
  <aside class="sidebar-right">
    <div id="news">{{.News}}</div>
  </aside>
</main>
<script src="/static/app.js" defer></script>
</body>
</html>
`))

type dashboardPageData struct {
	Clock         template.HTML
	DateStrip     template.HTML
	TabBar        template.HTML
	Fixtures      template.HTML
	LiveBadge     template.HTML
	Carousel      template.HTML
	News          template.HTML
	PinnedLeagues template.HTML
	Countries     template.HTML
	DetailOpen    bool
	DetailTabs    template.HTML
	Detail        template.HTML
}

func writeDashboardPage(w io.Writer, regions engine.Regions) error {
	return dashboardTemplate.Execute(w, dashboardPageData{
		Clock:         template.HTML(regions.Clock),
		DateStrip:     template.HTML(regions.DateStrip),
		TabBar:        template.HTML(regions.TabBar),
		Fixtures:      template.HTML(regions.Fixtures),
		LiveBadge:     template.HTML(regions.LiveBadge),
		Carousel:      template.HTML(regions.Carousel),
		News:          template.HTML(regions.News),
		PinnedLeagues: template.HTML(regions.PinnedLeagues),
		Countries:     template.HTML(regions.Countries),
		DetailOpen:    regions.DetailOpen,
		DetailTabs:    template.HTML(regions.DetailTabs),
		Detail:        template.HTML(regions.Detail),
	})
}
