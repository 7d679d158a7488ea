// Package testutil holds function-field repository mocks shared by the
// handler test suites. A nil func field panics when called, which flags an
// unexpected repository call in the test that hit it.
package testutil

import (
	"context"

	"github.com/gosuda/taskboard/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type MockStore struct {
	ProjectRepo *MockProjectRepo
	TaskRepo    *MockTaskRepo
	UserRepo    *MockUserRepo
}

// NewMockStore returns a store whose repositories have no behaviour set.
func NewMockStore() *MockStore {
	return &MockStore{
		ProjectRepo: &MockProjectRepo{},
		TaskRepo:    &MockTaskRepo{},
		UserRepo:    &MockUserRepo{},
	}
}

func (m *MockStore) Projects() domain.ProjectRepository { return m.ProjectRepo }
func (m *MockStore) Tasks() domain.TaskRepository       { return m.TaskRepo }
func (m *MockStore) Users() domain.UserRepository       { return m.UserRepo }

// ---------------------------------------------------------------------------
// Mock ProjectRepository
// ---------------------------------------------------------------------------

type MockProjectRepo struct {
	CreateFunc  func(ctx context.Context, p *domain.Project) error
	GetByIDFunc func(ctx context.Context, id int64) (*domain.Project, error)
	UpdateFunc  func(ctx context.Context, p *domain.Project) error
	ListFunc    func(ctx context.Context) ([]*domain.Project, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *MockProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	return m.CreateFunc(ctx, p)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	return m.UpdateFunc(ctx, p)
}

func (m *MockProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	return m.ListFunc(ctx)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock TaskRepository
// ---------------------------------------------------------------------------

type MockTaskRepo struct {
	CreateFunc   func(ctx context.Context, t *domain.Task) error
	GetByIDFunc  func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateFunc   func(ctx context.Context, t *domain.Task) error
	MoveFunc     func(ctx context.Context, id int64, dir domain.Direction) error
	CompleteFunc func(ctx context.Context, id int64) error
	ReopenFunc   func(ctx context.Context, id int64) error
	DeleteFunc   func(ctx context.Context, id int64) error
	ListFunc     func(ctx context.Context, f domain.TaskFilter) ([]*domain.TaskListItem, error)
}

func (m *MockTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return m.CreateFunc(ctx, t)
}

func (m *MockTaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *MockTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	return m.UpdateFunc(ctx, t)
}

func (m *MockTaskRepo) Move(ctx context.Context, id int64, dir domain.Direction) error {
	return m.MoveFunc(ctx, id, dir)
}

func (m *MockTaskRepo) Complete(ctx context.Context, id int64) error {
	return m.CompleteFunc(ctx, id)
}

func (m *MockTaskRepo) Reopen(ctx context.Context, id int64) error {
	return m.ReopenFunc(ctx, id)
}

func (m *MockTaskRepo) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockTaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]*domain.TaskListItem, error) {
	return m.ListFunc(ctx, f)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type MockUserRepo struct {
	ListFunc func(ctx context.Context) ([]*domain.User, error)
}

func (m *MockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return m.ListFunc(ctx)
}
