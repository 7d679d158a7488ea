package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/gosuda/taskboard/internal/domain"
)

var pageNames = []string{
	"tasks.html",
	"task_form.html",
	"projects.html",
	"project_form.html",
	"users.html",
	"error.html",
}

// funcMap builds the template helpers; timestamps render in loc.
func funcMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(time.DateOnly)
		},
		"datetime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.In(loc).Format("2006-01-02 15:04")
		},
		"isDone": func(s domain.Status) bool { return s == domain.StatusDone },
	}
}

func parsePages(loc *time.Location) (map[string]*template.Template, error) {
	fm := funcMap(loc)
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(fm).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}
	return pages, nil
}

// render executes a page into a buffer first so a template error never
// leaves a half-written 200 response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].Execute(&buf, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("render template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

// renderError maps err onto a status and renders the error page.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	msg := err.Error()
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		msg = verr.Message
	case status == http.StatusNotFound:
		msg = "The requested item does not exist."
	case status == http.StatusInternalServerError:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		msg = "Something went wrong. Please try again."
	}

	var inUse *domain.ProjectInUseError
	if errors.As(err, &inUse) {
		msg = inUse.Error()
	}

	h.render(w, r, status, "error.html", errorPage{
		Status:  status,
		Title:   http.StatusText(status),
		Message: strings.TrimSpace(msg),
	})
}

// statusFor maps domain errors onto HTTP status codes. A project delete
// blocked by tasks is reported as a client error carrying the count.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
