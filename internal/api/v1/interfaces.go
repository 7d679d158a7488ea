package v1

import (
	"time"

	"github.com/gosuda/taskboard/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Projects() domain.ProjectRepository
	Tasks() domain.TaskRepository
	Users() domain.UserRepository
}

// Clock returns the current time in the configured zone. The task list
// derives "today" from it.
type Clock func() time.Time
