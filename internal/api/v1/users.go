package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

type ListUsersOutput struct {
	Body []*domain.User
}

func RegisterUserRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-users",
		Method:      http.MethodGet,
		Path:        "/users",
		Summary:     "List directory users",
		Tags:        []string{"Users"},
	}, func(ctx context.Context, _ *struct{}) (*ListUsersOutput, error) {
		users, err := store.Users().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list users", err)
		}
		if users == nil {
			users = []*domain.User{}
		}

		return &ListUsersOutput{Body: users}, nil
	})
}

// RegisterRoutes registers every JSON endpoint on api.
func RegisterRoutes(api huma.API, store DataStore, now Clock) {
	RegisterTaskRoutes(api, store, now)
	RegisterProjectRoutes(api, store)
	RegisterUserRoutes(api, store)
}
