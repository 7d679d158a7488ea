package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/taskboard/internal/domain"
)

// TaskBody is the writable shape of a task, shared by create and update.
type TaskBody struct {
	ProjectID   int64  `json:"project_id" minimum:"1" doc:"Owning project ID"`
	Title       string `json:"title" minLength:"1" maxLength:"500" doc:"Task title"`
	Description string `json:"description,omitempty" doc:"Free-form description"`
	Status      string `json:"status,omitempty" enum:"TODO,DOING,DONE" doc:"Status (default TODO)"`
	Priority    string `json:"priority,omitempty" enum:"LOW,MID,HIGH" doc:"Priority (default MID)"`
	DueDate     string `json:"due_date,omitempty" doc:"Due date as YYYY-MM-DD"`
	Tags        string `json:"tags,omitempty" doc:"Comma separated tags"`
}

func (b TaskBody) toTask() (*domain.Task, error) {
	return domain.NewTask(b.ProjectID, b.Title, b.Description, b.Status, b.Priority, b.DueDate, b.Tags)
}

type ListTasksInput struct {
	View   string `query:"view" doc:"all, today, week, overdue or done (default all)"`
	Q      string `query:"q" doc:"Substring of title or description"`
	Tag    string `query:"tag" doc:"Substring of the tag list"`
	Status string `query:"status" doc:"TODO, DOING or DONE"`
	Sort   string `query:"sort" doc:"order, due, priority or created (default order)"`
}

type ListTasksOutput struct {
	Body *domain.TaskListing
}

type CreateTaskInput struct {
	Body TaskBody
}

type TaskOutput struct {
	Body *domain.Task
}

type TaskIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Task ID"`
}

type UpdateTaskInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Task ID"`
	Body TaskBody
}

type MoveTaskInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Task ID"`
	Body struct {
		Direction string `json:"direction" enum:"up,down" doc:"One slot up or down within the project/status group"`
	}
}

func RegisterTaskRoutes(api huma.API, store DataStore, now Clock) {
	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/tasks",
		Summary:     "List tasks with filters",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		f, err := domain.ParseTaskFilter(input.View, input.Q, input.Tag, input.Status, input.Sort, now())
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		items, err := store.Tasks().List(ctx, f)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}
		projects, err := store.Projects().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list projects", err)
		}

		if items == nil {
			items = []*domain.TaskListItem{}
		}
		if projects == nil {
			projects = []*domain.Project{}
		}
		return &ListTasksOutput{Body: &domain.TaskListing{
			Tasks:    items,
			Projects: projects,
			Tags:     domain.CollectTags(items),
		}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/tasks",
		Summary:       "Create a task at the end of its group",
		Tags:          []string{"Tasks"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *CreateTaskInput) (*TaskOutput, error) {
		t, err := input.Body.toTask()
		if err != nil {
			return nil, toHumaError(err, "task")
		}

		if err = store.Tasks().Create(ctx, t); err != nil {
			return nil, toHumaError(err, "project")
		}

		return &TaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
		t, err := store.Tasks().GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err, "task")
		}

		return &TaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/tasks/{id}",
		Summary:     "Replace a task's fields",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*TaskOutput, error) {
		if _, err := store.Tasks().GetByID(ctx, input.ID); err != nil {
			return nil, toHumaError(err, "task")
		}

		t, err := input.Body.toTask()
		if err != nil {
			return nil, toHumaError(err, "task")
		}
		t.ID = input.ID

		if err = store.Tasks().Update(ctx, t); err != nil {
			return nil, toHumaError(err, "task")
		}

		return &TaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/move",
		Summary:     "Move a task one slot within its group",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *MoveTaskInput) (*TaskOutput, error) {
		dir, err := domain.ParseDirection(input.Body.Direction)
		if err != nil {
			return nil, toHumaError(err, "task")
		}

		return mutateAndGet(ctx, store, input.ID, func() error {
			return store.Tasks().Move(ctx, input.ID, dir)
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/complete",
		Summary:     "Mark a task DONE",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
		return mutateAndGet(ctx, store, input.ID, func() error {
			return store.Tasks().Complete(ctx, input.ID)
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "reopen-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{id}/reopen",
		Summary:     "Return a task to TODO",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*TaskOutput, error) {
		return mutateAndGet(ctx, store, input.ID, func() error {
			return store.Tasks().Reopen(ctx, input.ID)
		})
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/tasks/{id}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *TaskIDInput) (*struct{}, error) {
		if err := store.Tasks().Delete(ctx, input.ID); err != nil {
			return nil, toHumaError(err, "task")
		}

		return nil, nil
	})
}

// mutateAndGet runs a task mutation and returns the task as stored afterwards.
func mutateAndGet(ctx context.Context, store DataStore, id int64, mutate func() error) (*TaskOutput, error) {
	if err := mutate(); err != nil {
		return nil, toHumaError(err, "task")
	}

	t, err := store.Tasks().GetByID(ctx, id)
	if err != nil {
		return nil, toHumaError(err, "task")
	}

	return &TaskOutput{Body: t}, nil
}
