// Package web serves the server-rendered HTML pages for tasks, projects and
// users.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gosuda/taskboard/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Projects() domain.ProjectRepository
	Tasks() domain.TaskRepository
	Users() domain.UserRepository
}

type Handler struct {
	store DataStore
	pages map[string]*template.Template
	now   func() time.Time
}

// New parses the page templates. now supplies the current time in the
// configured zone; the task views derive "today" from it.
func New(store DataStore, now func() time.Time) (*Handler, error) {
	if now == nil {
		now = time.Now
	}
	pages, err := parsePages(now().Location())
	if err != nil {
		return nil, fmt.Errorf("web.New: %w", err)
	}
	return &Handler{store: store, pages: pages, now: now}, nil
}

// Routes mounts the HTML surface on r. Middleware in mutating wraps only the
// POST routes.
func (h *Handler) Routes(r chi.Router, mutating ...func(http.Handler) http.Handler) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tasks", http.StatusFound)
	})

	r.Get("/tasks", h.listTasks)
	r.Get("/tasks/new", h.newTaskForm)
	r.Get("/tasks/{id}/edit", h.editTaskForm)
	r.Get("/projects", h.listProjects)
	r.Get("/projects/new", h.newProjectForm)
	r.Get("/projects/{id}/edit", h.editProjectForm)
	r.Get("/users", h.listUsers)

	r.Group(func(r chi.Router) {
		r.Use(mutating...)

		r.Post("/tasks", h.createTask)
		r.Post("/tasks/{id}", h.updateTask)
		r.Post("/tasks/{id}/up", h.moveTask(domain.DirectionUp))
		r.Post("/tasks/{id}/down", h.moveTask(domain.DirectionDown))
		r.Post("/tasks/{id}/done", h.completeTask)
		r.Post("/tasks/{id}/undo", h.reopenTask)
		r.Post("/tasks/{id}/delete", h.deleteTask)

		r.Post("/projects", h.createProject)
		r.Post("/projects/{id}", h.updateProject)
		r.Post("/projects/{id}/delete", h.deleteProject)
	})
}

// pathID parses the {id} URL parameter. A malformed id is reported as
// not found, the same as an id with no row.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q: %w", chi.URLParam(r, "id"), domain.ErrNotFound)
	}
	return id, nil
}

// seeOther redirects after a successful POST.
func seeOther(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
