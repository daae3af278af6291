package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// registerProxyRoutes wires the data proxy the refresh engine polls. The
// bodies are raw JSON, never wrapped, and list endpoints never answer null.
func registerProxyRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/fixtures", handler.FixturesByDate)
	mux.HandleFunc("GET /api/live", handler.LiveFixtures)
	mux.HandleFunc("GET /api/news", handler.News)
	mux.HandleFunc("GET /api/fixture-detail", handler.FixtureDetail)
}

func registerDashboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /", handler.DashboardPage)
	mux.HandleFunc("GET /ui/regions", handler.Regions)
	mux.HandleFunc("POST /ui/command", handler.Command)
}
