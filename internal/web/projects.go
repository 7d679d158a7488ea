package web

import (
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/gosuda/taskboard/internal/domain"
)

type projectListPage struct {
	Projects []*domain.Project
}

type projectFormPage struct {
	ProjectID   int64
	Name        string
	Description string
	Error       string
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.Projects().List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "projects.html", projectListPage{Projects: projects})
}

func (h *Handler) newProjectForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "project_form.html", projectFormPage{})
}

func (h *Handler) editProjectForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	p, err := h.store.Projects().GetByID(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "project_form.html", projectFormPage{
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
	})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	name, desc := r.PostFormValue("name"), r.PostFormValue("description")

	p, err := domain.NewProject(name, desc)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "project_form.html", projectFormPage{
			Name: name, Description: desc, Error: err.Error(),
		})
		return
	}
	if err = h.store.Projects().Create(r.Context(), p); err != nil {
		h.renderError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("project_id", p.ID).Msg("project created")
	seeOther(w, r, "/projects")
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if _, err = h.store.Projects().GetByID(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	name, desc := r.PostFormValue("name"), r.PostFormValue("description")
	p, err := domain.NewProject(name, desc)
	if err != nil {
		h.render(w, r, http.StatusBadRequest, "project_form.html", projectFormPage{
			ProjectID: id, Name: name, Description: desc, Error: err.Error(),
		})
		return
	}
	p.ID = id

	if err = h.store.Projects().Update(r.Context(), p); err != nil {
		h.renderError(w, r, err)
		return
	}

	seeOther(w, r, "/projects")
}

// deleteProject refuses while tasks reference the project; the error page
// states how many.
func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err = h.store.Projects().Delete(r.Context(), id); err != nil {
		h.renderError(w, r, err)
		return
	}

	hlog.FromRequest(r).Info().Int64("project_id", id).Msg("project deleted")
	seeOther(w, r, "/projects")
}
