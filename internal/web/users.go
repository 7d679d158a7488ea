package web

import (
	"net/http"

	"github.com/gosuda/taskboard/internal/domain"
)

type userListPage struct {
	Users []*domain.User
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.Users().List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, "users.html", userListPage{Users: users})
}
