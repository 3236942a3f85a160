package handlers

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gi8lino/sprintreport/internal/report"
)

// Reporter produces sprint reports by sprint name.
type Reporter interface {
	SprintSheet(ctx context.Context, sprintName string) (report.Sheet, error)
	SprintReport(ctx context.Context, sprintName string) (string, error)
	PointsSummary(ctx context.Context, sprintName string) (string, error)
	Summarize(sprintName string, t report.Totals) (string, error)
}

// ReportHandler serves the tab-separated report of the sprint in the path.
func ReportHandler(rep Reporter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		out, err := rep.SprintReport(r.Context(), name)
		if err != nil {
			logger.Error("sprint report failed", "sprint", name, "error", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeText(w, r, "text/tab-separated-values; charset=utf-8", out)
	}
}

// SummaryHandler serves the completion summary of the sprint in the path.
func SummaryHandler(rep Reporter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		out, err := rep.PointsSummary(r.Context(), name)
		if err != nil {
			logger.Error("points summary failed", "sprint", name, "error", err)
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeText(w, r, "text/plain; charset=utf-8", out)
	}
}

// PageHandler renders the sprint report as an HTML table.
func PageHandler(rep Reporter, tmpl *template.Template, version string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		sheet, err := rep.SprintSheet(r.Context(), name)
		if err != nil {
			logger.Error("sprint page failed", "sprint", name, "error", err)
			renderErrorPage(w, statusFor(err), tmpl, "Error", "Failed to load sprint "+name+".", err)
			return
		}
		summary, err := rep.Summarize(name, sheet.Totals)
		if err != nil {
			renderErrorPage(w, http.StatusInternalServerError, tmpl, "Error", "Failed to render summary.", err)
			return
		}

		issueRows := sheet.Rows
		if n := len(issueRows); n >= 4 {
			issueRows = issueRows[:n-4] // the page renders its own summary footer
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := tmpl.ExecuteTemplate(w, "report", map[string]any{
			"Sprint":  sheet.Sprint,
			"Summary": summary,
			"Rows":    issueRows,
			"Totals":  sheet.Totals,
			"Version": version,
		}); err != nil {
			logger.Error("render sprint page", "sprint", name, "error", err)
		}
	}
}
