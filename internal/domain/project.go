package domain

import (
	"context"
	"strings"
	"time"
)

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject creates an unsaved Project with trimmed, validated fields.
func NewProject(name, description string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "project name is required")
	}
	return &Project{
		Name:        name,
		Description: strings.TrimSpace(description),
	}, nil
}

type ProjectRepository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	Update(ctx context.Context, p *Project) error
	List(ctx context.Context) ([]*Project, error)
	// Delete removes a project with no tasks. A project that still has
	// tasks yields *ProjectInUseError and nothing is deleted.
	Delete(ctx context.Context, id int64) error
}
