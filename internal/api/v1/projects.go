package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

type ProjectBody struct {
	Name        string `json:"name" minLength:"1" maxLength:"200" doc:"Project name"`
	Description string `json:"description,omitempty" doc:"Project description"`
}

type CreateProjectInput struct {
	Body ProjectBody
}

type ProjectOutput struct {
	Body *domain.Project
}

type ListProjectsOutput struct {
	Body []*domain.Project
}

type ProjectIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Project ID"`
}

type UpdateProjectInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Project ID"`
	Body ProjectBody
}

func RegisterProjectRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-projects",
		Method:      http.MethodGet,
		Path:        "/projects",
		Summary:     "List projects",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, _ *struct{}) (*ListProjectsOutput, error) {
		projects, err := store.Projects().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list projects", err)
		}
		if projects == nil {
			projects = []*domain.Project{}
		}

		return &ListProjectsOutput{Body: projects}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-project",
		Method:        http.MethodPost,
		Path:          "/projects",
		Summary:       "Create a project",
		Tags:          []string{"Projects"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateProjectInput) (*ProjectOutput, error) {
		p, err := domain.NewProject(input.Body.Name, input.Body.Description)
		if err != nil {
			return nil, toHumaError(err, "project")
		}

		if err = store.Projects().Create(ctx, p); err != nil {
			return nil, toHumaError(err, "project")
		}

		return &ProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-project",
		Method:      http.MethodGet,
		Path:        "/projects/{id}",
		Summary:     "Get a project by ID",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *ProjectIDInput) (*ProjectOutput, error) {
		p, err := store.Projects().GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err, "project")
		}

		return &ProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-project",
		Method:      http.MethodPut,
		Path:        "/projects/{id}",
		Summary:     "Update a project",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *UpdateProjectInput) (*ProjectOutput, error) {
		existing, err := store.Projects().GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err, "project")
		}

		p, err := domain.NewProject(input.Body.Name, input.Body.Description)
		if err != nil {
			return nil, toHumaError(err, "project")
		}
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt

		if err = store.Projects().Update(ctx, p); err != nil {
			return nil, toHumaError(err, "project")
		}

		return &ProjectOutput{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-project",
		Method:      http.MethodDelete,
		Path:        "/projects/{id}",
		Summary:     "Delete a project that has no tasks",
		Tags:        []string{"Projects"},
	}, func(ctx context.Context, input *ProjectIDInput) (*struct{}, error) {
		if err := store.Projects().Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err, "project")
		}

		return nil, nil
	})
}
