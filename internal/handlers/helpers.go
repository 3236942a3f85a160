package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gi8lino/sprintreport/internal/hash"
	"github.com/gi8lino/sprintreport/internal/report"
	"github.com/gi8lino/sprintreport/internal/sprint"
)

// statusFor maps a report error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sprint.ErrSprintNotFound):
		return http.StatusNotFound
	case errors.Is(err, report.ErrMissingPoints):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// writeText writes body with the given content type and a trailing newline.
// A matching If-None-Match answers 304 without a body.
func writeText(w http.ResponseWriter, r *http.Request, contentType, body string) {
	etag := hash.ETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, body) // nolint:errcheck
}

// renderErrorPage renders a simple error page. Never panics; always writes something.
func renderErrorPage(
	w http.ResponseWriter,
	status int,
	pageErrTmpl *template.Template, // must contain "page_error"
	title, msg string,
	err error,
) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	data := struct {
		Title   string
		Message string
		Error   string
	}{
		Title:   title,
		Message: msg,
	}
	if err != nil {
		data.Error = err.Error()
	}

	if tplErr := pageErrTmpl.ExecuteTemplate(w, "page_error", data); tplErr != nil {
		fmt.Fprintf(w, `<div class="alert alert-danger">Failed to render error page: %s</div>`, tplErr) // nolint:errcheck
	}
}
