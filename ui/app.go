package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"fieldprof/domain/profile"
	"fieldprof/internal"
	"fieldprof/internal/report"
)

// App serves rendered profile reports as HTML. Stateless: callers POST the
// profiles they already computed and get the page back.
type App struct {
	router *chi.Mux
	log    *internal.Logger
}

// Config holds viewer settings.
type Config struct {
	Port string
}

// NewApp creates the report viewer.
func NewApp() *App {
	app := &App{
		router: chi.NewRouter(),
		log:    internal.DefaultLogger,
	}
	app.router.Use(middleware.RequestID)
	app.router.Use(middleware.Recoverer)
	app.setupRoutes()
	return app
}

func (a *App) setupRoutes() {
	a.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})
	a.router.Post("/render", a.handleRender)
}

// Run blocks serving HTTP on the configured port.
func (a *App) Run(cfg Config) error {
	a.log.Info("report viewer listening on :%s", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, a.router)
}

// Router exposes the handler for tests.
func (a *App) Router() http.Handler {
	return a.router
}

type renderRequest struct {
	Profiles       []profile.FieldProfile `json:"profiles"`
	SourceFileName string                 `json:"source_file_name"`
}

func (a *App) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid render request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Profiles) == 0 {
		http.Error(w, "no field profiles to render", http.StatusBadRequest)
		return
	}

	md := report.Render(req.Profiles, req.SourceFileName)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, page, toHTML(md))
}

// toHTML converts the markdown report body to HTML.
func toHTML(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

const page = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Field Profile Report</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; }
</style>
</head>
<body>
%s
</body>
</html>
`
