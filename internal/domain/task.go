package domain

import (
	"context"
	"strconv"
	"strings"
	"time"
)

type Status string

const (
	StatusTodo  Status = "TODO"
	StatusDoing Status = "DOING"
	StatusDone  Status = "DONE"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusTodo, StatusDoing, StatusDone}

// ParseStatus maps form or query input onto a Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case StatusTodo, StatusDoing, StatusDone:
		return st, nil
	default:
		return "", NewValidationError("status", "unknown status "+strconv.Quote(s))
	}
}

// Rank is the grouping ordinal used by every list ordering: TODO=1, DOING=2, DONE=3.
func (s Status) Rank() int {
	switch s {
	case StatusTodo:
		return 1
	case StatusDoing:
		return 2
	default:
		return 3
	}
}

type Priority string

const (
	PriorityLow  Priority = "LOW"
	PriorityMid  Priority = "MID"
	PriorityHigh Priority = "HIGH"
)

// Priorities lists every priority from lowest to highest, as the forms show them.
var Priorities = []Priority{PriorityLow, PriorityMid, PriorityHigh}

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.TrimSpace(s)); p {
	case PriorityLow, PriorityMid, PriorityHigh:
		return p, nil
	default:
		return "", NewValidationError("priority", "unknown priority "+strconv.Quote(s))
	}
}

// Rank orders priorities most urgent first: HIGH=1, MID=2, LOW=3.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMid:
		return 2
	default:
		return 3
	}
}

type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty" format:"date"` // YYYY-MM-DD on the wire
	Tags        string     `json:"tags"`     // normalized, comma-joined
	Position    *int64     `json:"position"` // sort_order within (project, status)
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskListItem is a task row joined with its project's display name.
type TaskListItem struct {
	Task
	ProjectName string `json:"project_name"`
}

// TagList returns the task's tags as a slice.
func (t *Task) TagList() []string {
	return SplitTags(t.Tags)
}

// NewTask validates raw field values and builds an unsaved Task.
// Empty status defaults to TODO and empty priority to MID.
func NewTask(projectID int64, title, description, status, priority, dueDate, tags string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, NewValidationError("title", "title is required")
	}
	if projectID <= 0 {
		return nil, NewValidationError("project_id", "project is required")
	}

	st := StatusTodo
	if strings.TrimSpace(status) != "" {
		var err error
		if st, err = ParseStatus(status); err != nil {
			return nil, err
		}
	}

	pr := PriorityMid
	if strings.TrimSpace(priority) != "" {
		var err error
		if pr, err = ParsePriority(priority); err != nil {
			return nil, err
		}
	}

	due, err := ParseDueDate(dueDate)
	if err != nil {
		return nil, err
	}

	return &Task{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      st,
		Priority:    pr,
		DueDate:     due,
		Tags:        NormalizeTags(tags),
	}, nil
}

// ParseDueDate parses a YYYY-MM-DD date. Blank input means no due date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, NewValidationError("due_date", "due date must be YYYY-MM-DD")
	}
	return &d, nil
}

// CompletedAtFor returns the completion timestamp a task should carry after
// a plain update to status. An existing timestamp survives a DONE->DONE
// update; leaving DONE always clears it.
func CompletedAtFor(status Status, current *time.Time, now time.Time) *time.Time {
	if status != StatusDone {
		return nil
	}
	if current != nil {
		return current
	}
	return &now
}

// Direction is a one-slot manual reorder within a (project, status) group.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case DirectionUp, DirectionDown:
		return d, nil
	default:
		return "", NewValidationError("direction", "direction must be up or down")
	}
}

type TaskRepository interface {
	// Create appends t to the end of its (project, status) group and fills
	// ID, Position and timestamps.
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	// Update rewrites all editable fields. A change of project or status
	// re-appends the task to the end of its new group.
	Update(ctx context.Context, t *Task) error
	// Move swaps t with its neighbour in dir. Moving past either end is a no-op.
	Move(ctx context.Context, id int64, dir Direction) error
	// Complete marks the task DONE and stamps completed_at with the current time.
	Complete(ctx context.Context, id int64) error
	// Reopen returns the task to TODO at the end of its project's TODO group.
	Reopen(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f TaskFilter) ([]*TaskListItem, error)
}
