package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/testutil"
)

func TestListProjects_Empty(t *testing.T) {
	t.Parallel()

	store := testutil.NewMockStore()
	store.ProjectRepo.ListFunc = func(context.Context) ([]*domain.Project, error) { return nil, nil }
	api := newAPI(t, store)

	resp := api.Get("/projects")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, "[]", resp.Body.String())
}

func TestCreateProject(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		store := testutil.NewMockStore()
		store.ProjectRepo.CreateFunc = func(_ context.Context, p *domain.Project) error {
			assert.Equal(t, "Thesis", p.Name)
			p.ID = 4
			return nil
		}
		api := newAPI(t, store)

		resp := api.Post("/projects", map[string]any{"name": " Thesis "})
		require.Equal(t, http.StatusCreated, resp.Code)

		var body domain.Project
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(4), body.ID)
	})

	t.Run("missing_name", func(t *testing.T) {
		t.Parallel()

		api := newAPI(t, testutil.NewMockStore())
		resp := api.Post("/projects", map[string]any{"description": "no name"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestUpdateProject(t *testing.T) {
	t.Parallel()

	store := testutil.NewMockStore()
	store.ProjectRepo.GetByIDFunc = func(_ context.Context, id int64) (*domain.Project, error) {
		if id != 1 {
			return nil, fmt.Errorf("projectRepo.GetByID: %w", domain.ErrNotFound)
		}
		return &domain.Project{ID: 1, Name: "old"}, nil
	}
	store.ProjectRepo.UpdateFunc = func(_ context.Context, p *domain.Project) error {
		assert.Equal(t, "new", p.Name)
		return nil
	}
	api := newAPI(t, store)

	resp := api.Put("/projects/1", map[string]any{"name": "new"})
	require.Equal(t, http.StatusOK, resp.Code)

	resp = api.Put("/projects/2", map[string]any{"name": "new"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	store := testutil.NewMockStore()
	store.ProjectRepo.DeleteFunc = func(_ context.Context, id int64) error {
		switch id {
		case 1:
			return nil
		case 2:
			return fmt.Errorf("projectRepo.Delete: %w", &domain.ProjectInUseError{ProjectID: 2, TaskCount: 3})
		default:
			return fmt.Errorf("projectRepo.Delete: %w", domain.ErrNotFound)
		}
	}
	api := newAPI(t, store)

	resp := api.Delete("/projects/1")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = api.Delete("/projects/2")
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "3 task(s)")

	resp = api.Delete("/projects/9")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListUsers(t *testing.T) {
	t.Parallel()

	store := testutil.NewMockStore()
	store.UserRepo.ListFunc = func(context.Context) ([]*domain.User, error) {
		return []*domain.User{{ID: 1, DisplayName: "Hana"}}, nil
	}
	api := newAPI(t, store)

	resp := api.Get("/users")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Hana")
}
