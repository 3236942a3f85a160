package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gi8lino/sprintreport/internal/handlers"
	"github.com/gi8lino/sprintreport/internal/middleware"
)

// NewRouter creates a new HTTP router serving sprint reports under routePrefix.
func NewRouter(
	rep handlers.Reporter,
	tmpl *template.Template,
	logger *slog.Logger,
	debug bool,
	version string,
	routePrefix string,
) http.Handler {
	root := http.NewServeMux()

	// Health checks (no logging)
	root.Handle("GET /healthz", handlers.Healthz())
	root.Handle("POST /healthz", handlers.Healthz())

	sprints := http.NewServeMux()
	sprints.Handle("GET /sprints/{name}/report", handlers.ReportHandler(rep, logger))
	sprints.Handle("GET /sprints/{name}/summary", handlers.SummaryHandler(rep, logger))
	sprints.Handle("GET /sprints/{name}", handlers.PageHandler(rep, tmpl, version, logger))

	var sprintHandler http.Handler = sprints
	if debug {
		sprintHandler = middleware.Chain(sprintHandler, middleware.LoggingMiddleware(logger))
	}
	root.Handle("/sprints/", sprintHandler)

	return mountUnderPrefix(root, routePrefix)
}
