package httpapi

import (
	"embed"
	"net/http"
)

//go:embed static
var staticAssets embed.FS

func registerStaticRoutes(mux *http.ServeMux) {
	mux.Handle("GET /static/", http.FileServerFS(staticAssets))
}
