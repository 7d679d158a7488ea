package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/gosuda/taskboard/internal/domain"
)

// taskRow decorates a listed task with its due-date highlight.
type taskRow struct {
	*domain.TaskListItem
	DueClass string
}

type taskListPage struct {
	Filter   domain.TaskFilter
	Status   string
	Rows     []taskRow
	Projects []*domain.Project
	Tags     []string
	Views    []domain.View
	Sorts    []domain.SortMode
	Statuses []domain.Status
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f, err := domain.ParseTaskFilter(q.Get("view"), q.Get("q"), q.Get("tag"), q.Get("status"), q.Get("sort"), h.now())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	items, err := h.store.Tasks().List(r.Context(), f)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	projects, err := h.store.Projects().List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	rows := make([]taskRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, taskRow{TaskListItem: it, DueClass: dueClass(&it.Task, f.Today)})
	}

	page := taskListPage{
		Filter:   f,
		Rows:     rows,
		Projects: projects,
		Tags:     domain.CollectTags(items),
		Views:    []domain.View{domain.ViewAll, domain.ViewToday, domain.ViewWeek, domain.ViewOverdue, domain.ViewDone},
		Sorts:    []domain.SortMode{domain.SortOrder, domain.SortDue, domain.SortPriority, domain.SortCreated},
		Statuses: domain.Statuses,
	}
	if f.Status != nil {
		page.Status = string(*f.Status)
	}

	h.render(w, r, http.StatusOK, "tasks.html", page)
}

// dueClass flags open tasks that are overdue or due within DueSoonDays.
func dueClass(t *domain.Task, today time.Time) string {
	if t.DueDate == nil || t.Status == domain.StatusDone {
		return ""
	}
	due := domain.DateOf(*t.DueDate)
	switch {
	case due.Before(today):
		return "overdue"
	case !due.After(today.AddDate(0, 0, domain.DueSoonDays)):
		return "soon"
	default:
		return ""
	}
}

// taskForm carries raw form values back into the page on a validation error.
type taskForm struct {
	ProjectID   string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
	Tags        string
}

type taskFormPage struct {
	TaskID     int64
	Form       taskForm
	Error      string
	Projects   []*domain.Project
	Statuses   []domain.Status
	Priorities []domain.Priority
}

func readTaskForm(r *http.Request) taskForm {
	return taskForm{
		ProjectID:   strings.TrimSpace(r.PostFormValue("project_id")),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
		Priority:    r.PostFormValue("priority"),
		DueDate:     r.PostFormValue("due_date"),
		Tags:        r.PostFormValue("tags"),
	}
}

func formFromTask(t *domain.Task) taskForm {
	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format(time.DateOnly)
	}
	return taskForm{
		ProjectID:   strconv.FormatInt(t.ProjectID, 10),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     due,
		Tags:        t.Tags,
	}
}

// build validates the form into an unsaved task.
func (f taskForm) build() (*domain.Task, error) {
	var projectID int64
	if f.ProjectID != "" {
		id, err := strconv.ParseInt(f.ProjectID, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("project_id", "project must be a number")
		}
		projectID = id
	}
	return domain.NewTask(projectID, f.Title, f.Description, f.Status, f.Priority, f.DueDate, f.Tags)
}

func (h *Handler) renderTaskForm(w http.ResponseWriter, r *http.Request, status int, page taskFormPage) {
	projects, err := h.store.Projects().List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	page.Projects = projects
	page.Statuses = domain.Statuses
	page.Priorities = domain.Priorities

	h.render(w, r, status, "task_form.html", page)
}

func (h *Handler) newTaskForm(w http.ResponseWriter, r *http.Request) {
	h.renderTaskForm(w, r, http.StatusOK, taskFormPage{
		Form: taskForm{Status: string(domain.StatusTodo), Priority: string(domain.PriorityMid)},
	})
}

func (h *Handler) editTaskForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	t, err := h.store.Tasks().GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.renderTaskForm(w, r, http.StatusOK, taskFormPage{TaskID: id, Form: formFromTask(t)})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	form := readTaskForm(r)
	t, err := form.build()
	if err != nil {
		h.renderTaskForm(w, r, http.StatusBadRequest, taskFormPage{Form: form, Error: err.Error()})
		return
	}

	if err = h.store.Tasks().Create(r.Context(), t); err != nil {
		h.renderError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("task_id", t.ID).Msg("task created")
	seeOther(w, r, "/tasks")
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if _, err = h.store.Tasks().GetByID(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	form := readTaskForm(r)
	t, err := form.build()
	if err != nil {
		h.renderTaskForm(w, r, http.StatusBadRequest, taskFormPage{TaskID: id, Form: form, Error: err.Error()})
		return
	}
	t.ID = id

	if err = h.store.Tasks().Update(r.Context(), t); err != nil {
		h.renderError(w, r, err)
		return
	}

	seeOther(w, r, "/tasks")
}

func (h *Handler) moveTask(dir domain.Direction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		if err = h.store.Tasks().Move(r.Context(), id, dir); err != nil {
			h.renderError(w, r, err)
			return
		}

		seeOther(w, r, "/tasks?sort=order")
	}
}

func (h *Handler) completeTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err = h.store.Tasks().Complete(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	seeOther(w, r, "/tasks")
}

func (h *Handler) reopenTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err = h.store.Tasks().Reopen(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	seeOther(w, r, "/tasks?sort=order")
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err = h.store.Tasks().Delete(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("task_id", id).Msg("task deleted")
	seeOther(w, r, "/tasks")
}
