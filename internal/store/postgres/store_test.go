package postgres_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/gosuda/taskboard/internal/domain"
	"github.com/gosuda/taskboard/internal/store/postgres"
)

// testStore is shared by every integration test; each test works inside its
// own freshly created project so groups never collide.
var testStore *postgres.Store

func TestMain(m *testing.M) {
	os.Exit(runWithDatabase(m))
}

func runWithDatabase(m *testing.M) int {
	// testcontainers panics without a Docker daemon, so probe first.
	if exec.Command("docker", "info").Run() != nil {
		return m.Run()
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("taskboard"),
		tcpostgres.WithUsername("taskboard"),
		tcpostgres.WithPassword("taskboard"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return m.Run()
	}
	defer func() { _ = testcontainers.TerminateContainer(container) }()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return m.Run()
	}

	store, err := postgres.New(ctx, dsn, 4)
	if err != nil {
		return m.Run()
	}
	defer store.Close()

	if err = store.Migrate(ctx); err != nil {
		return m.Run()
	}
	testStore = store

	return m.Run()
}

func requireStore(t *testing.T) *postgres.Store {
	t.Helper()
	if testStore == nil {
		t.Skip("Docker not available, skipping PostgreSQL integration tests")
	}
	return testStore
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newProject(t *testing.T, s *postgres.Store, name string) *domain.Project {
	t.Helper()

	p, err := domain.NewProject(name, "")
	require.NoError(t, err)
	require.NoError(t, s.Projects().Create(context.Background(), p))
	return p
}

func newTask(t *testing.T, s *postgres.Store, projectID int64, title, status string) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(projectID, title, "", status, "", "", "")
	require.NoError(t, err)
	require.NoError(t, s.Tasks().Create(context.Background(), task))
	return task
}

func position(t *testing.T, s *postgres.Store, id int64) int64 {
	t.Helper()

	task, err := s.Tasks().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, task.Position)
	return *task.Position
}

// groupPositions returns the sorted positions of the project's TODO tasks.
func groupPositions(t *testing.T, s *postgres.Store, projectID int64) []int64 {
	t.Helper()

	f, err := domain.ParseTaskFilter("", "", "", "TODO", "", time.Now())
	require.NoError(t, err)
	items, err := s.Tasks().List(context.Background(), f)
	require.NoError(t, err)

	var positions []int64
	for _, it := range items {
		if it.ProjectID == projectID {
			require.NotNil(t, it.Position)
			positions = append(positions, *it.Position)
		}
	}
	slices.Sort(positions)
	return positions
}

func sequence(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func titlesInProject(items []*domain.TaskListItem, projectID int64) []string {
	var titles []string
	for _, it := range items {
		if it.ProjectID == projectID {
			titles = append(titles, it.Title)
		}
	}
	return titles
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

func TestTaskRepo_CreateAppendsToGroup(t *testing.T) {
	t.Parallel()
	s := requireStore(t)

	p := newProject(t, s, "append")
	a := newTask(t, s, p.ID, "a", "")
	b := newTask(t, s, p.ID, "b", "")
	doing := newTask(t, s, p.ID, "c", "DOING")

	assert.Equal(t, int64(1), *a.Position)
	assert.Equal(t, int64(2), *b.Position)
	assert.Equal(t, int64(1), *doing.Position, "each status group numbers independently")
	assert.Nil(t, a.CompletedAt)
}

func TestTaskRepo_CreateUnknownProject(t *testing.T) {
	t.Parallel()
	s := requireStore(t)

	task, err := domain.NewTask(987654321, "orphan", "", "", "", "", "")
	require.NoError(t, err)

	err = s.Tasks().Create(context.Background(), task)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepo_Move(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	p := newProject(t, s, "move")
	a := newTask(t, s, p.ID, "a", "")
	b := newTask(t, s, p.ID, "b", "")
	c := newTask(t, s, p.ID, "c", "")

	// Ends are no-ops.
	require.NoError(t, s.Tasks().Move(ctx, a.ID, domain.DirectionUp))
	require.NoError(t, s.Tasks().Move(ctx, c.ID, domain.DirectionDown))
	assert.Equal(t, int64(1), position(t, s, a.ID))
	assert.Equal(t, int64(3), position(t, s, c.ID))

	require.NoError(t, s.Tasks().Move(ctx, c.ID, domain.DirectionUp))
	assert.Equal(t, int64(2), position(t, s, c.ID))
	assert.Equal(t, int64(3), position(t, s, b.ID))

	require.NoError(t, s.Tasks().Move(ctx, c.ID, domain.DirectionDown))
	assert.Equal(t, int64(2), position(t, s, b.ID))
	assert.Equal(t, int64(3), position(t, s, c.ID))

	err := s.Tasks().Move(ctx, 987654321, domain.DirectionUp)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskRepo_UpdateChangingGroupAppends(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	p := newProject(t, s, "regroup")
	newTask(t, s, p.ID, "doing-1", "DOING")
	newTask(t, s, p.ID, "doing-2", "DOING")
	task := newTask(t, s, p.ID, "todo", "")

	task.Status = domain.StatusDoing
	task.Title = "renamed"
	require.NoError(t, s.Tasks().Update(ctx, task))
	assert.Equal(t, int64(3), *task.Position)

	got, err := s.Tasks().GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, domain.StatusDoing, got.Status)

	// Same group keeps its slot.
	task.Title = "again"
	require.NoError(t, s.Tasks().Update(ctx, task))
	assert.Equal(t, int64(3), position(t, s, task.ID))
}

func TestTaskRepo_CompleteAndReopen(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	p := newProject(t, s, "complete")
	newTask(t, s, p.ID, "already", "DONE")
	a := newTask(t, s, p.ID, "a", "")
	b := newTask(t, s, p.ID, "b", "")

	require.NoError(t, s.Tasks().Complete(ctx, a.ID))
	done, err := s.Tasks().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.Equal(t, int64(1), *done.Position, "completing leaves the position alone")

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Tasks().Complete(ctx, a.ID))
	again, err := s.Tasks().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, again.CompletedAt.After(*done.CompletedAt), "completing again restamps")
	assert.Equal(t, int64(1), *again.Position)

	require.NoError(t, s.Tasks().Reopen(ctx, a.ID))
	reopened, err := s.Tasks().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, int64(3), *reopened.Position, "reopen appends after b")

	// Reopening a task that is already TODO still moves it to the end.
	require.NoError(t, s.Tasks().Reopen(ctx, b.ID))
	assert.Equal(t, int64(4), position(t, s, b.ID))

	assert.ErrorIs(t, s.Tasks().Complete(ctx, 987654321), domain.ErrNotFound)
	assert.ErrorIs(t, s.Tasks().Reopen(ctx, 987654321), domain.ErrNotFound)
}

func TestTaskRepo_ConcurrentCreatesGetDistinctPositions(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	const n = 16
	p := newProject(t, s, "concurrent-create")

	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			task, err := domain.NewTask(p.ID, fmt.Sprintf("t%d", i), "", "", "", "", "")
			if assert.NoError(t, err) {
				assert.NoError(t, s.Tasks().Create(ctx, task))
			}
		})
	}
	wg.Wait()

	assert.Equal(t, sequence(n), groupPositions(t, s, p.ID))
}

func TestTaskRepo_ConcurrentMovesKeepPositions(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	const n = 6
	p := newProject(t, s, "concurrent-move")
	ids := make([]int64, n)
	for i := range n {
		ids[i] = newTask(t, s, p.ID, fmt.Sprintf("t%d", i), "").ID
	}

	var wg sync.WaitGroup
	for round := range 8 {
		for i, id := range ids {
			dir := domain.DirectionUp
			if (i+round)%2 == 0 {
				dir = domain.DirectionDown
			}
			wg.Go(func() {
				assert.NoError(t, s.Tasks().Move(ctx, id, dir))
			})
		}
	}
	wg.Wait()

	// Swaps only permute slots, so every original position is still held once.
	assert.Equal(t, sequence(n), groupPositions(t, s, p.ID))
}

func TestTaskRepo_Delete(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	p := newProject(t, s, "delete")
	task := newTask(t, s, p.ID, "gone", "")

	require.NoError(t, s.Tasks().Delete(ctx, task.ID))
	_, err := s.Tasks().GetByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Tasks().Delete(ctx, task.ID), domain.ErrNotFound)
}

func TestTaskRepo_List(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()
	now := time.Now()
	today := domain.DateOf(now)

	p := newProject(t, s, "list")
	yesterday := today.AddDate(0, 0, -1)

	overdue := newTask(t, s, p.ID, "overdue-open", "")
	overdue.DueDate = &yesterday
	overdue.Tags = "レポート"
	require.NoError(t, s.Tasks().Update(ctx, overdue))

	overdueDone := newTask(t, s, p.ID, "overdue-done", "DONE")
	overdueDone.DueDate = &yesterday
	require.NoError(t, s.Tasks().Update(ctx, overdueDone))

	t.Run("overdue_excludes_done", func(t *testing.T) {
		f, err := domain.ParseTaskFilter("overdue", "", "", "", "", now)
		require.NoError(t, err)
		items, err := s.Tasks().List(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, []string{"overdue-open"}, titlesInProject(items, p.ID))
	})

	t.Run("tag_substring", func(t *testing.T) {
		f, err := domain.ParseTaskFilter("", "", "レポ", "", "", now)
		require.NoError(t, err)
		items, err := s.Tasks().List(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, []string{"overdue-open"}, titlesInProject(items, p.ID))
	})

	t.Run("created_newest_first", func(t *testing.T) {
		f, err := domain.ParseTaskFilter("", "", "", "", "created", now)
		require.NoError(t, err)
		items, err := s.Tasks().List(ctx, f)
		require.NoError(t, err)
		assert.Equal(t, []string{"overdue-done", "overdue-open"}, titlesInProject(items, p.ID))
	})

	t.Run("real_row_order", func(t *testing.T) {
		o := newProject(t, s, "ordering")
		mk := func(title, status, priority, due string) {
			task, err := domain.NewTask(o.ID, title, "", status, priority, due, "")
			require.NoError(t, err)
			require.NoError(t, s.Tasks().Create(ctx, task))
		}
		mk("low-later", "", "LOW", today.AddDate(0, 0, 3).Format(time.DateOnly))
		mk("high-nodue", "", "HIGH", "")
		mk("mid-soon", "", "MID", today.AddDate(0, 0, 1).Format(time.DateOnly))
		mk("done-high", "DONE", "HIGH", today.AddDate(0, 0, -5).Format(time.DateOnly))

		list := func(sort string) []string {
			f, err := domain.ParseTaskFilter("", "", "", "", sort, now)
			require.NoError(t, err)
			items, err := s.Tasks().List(ctx, f)
			require.NoError(t, err)
			return titlesInProject(items, o.ID)
		}

		assert.Equal(t, []string{"low-later", "high-nodue", "mid-soon", "done-high"}, list("order"))
		assert.Equal(t, []string{"mid-soon", "low-later", "high-nodue", "done-high"}, list("due"),
			"due ascending within status, missing due dates last")
		assert.Equal(t, []string{"high-nodue", "mid-soon", "low-later", "done-high"}, list("priority"))
	})

	t.Run("joins_project_name", func(t *testing.T) {
		f, err := domain.ParseTaskFilter("", "overdue-open", "", "", "", now)
		require.NoError(t, err)
		items, err := s.Tasks().List(ctx, f)
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, "list", items[0].ProjectName)
	})
}

// ---------------------------------------------------------------------------
// Projects
// ---------------------------------------------------------------------------

func TestProjectRepo_Delete(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	busy := newProject(t, s, "busy")
	x := newTask(t, s, busy.ID, "x", "")
	y := newTask(t, s, busy.ID, "y", "DONE")

	err := s.Projects().Delete(ctx, busy.ID)
	var inUse *domain.ProjectInUseError
	require.ErrorAs(t, err, &inUse)
	assert.Equal(t, 2, inUse.TaskCount)

	_, err = s.Projects().GetByID(ctx, busy.ID)
	require.NoError(t, err, "project survives a blocked delete")
	for _, want := range []*domain.Task{x, y} {
		got, err := s.Tasks().GetByID(ctx, want.ID)
		require.NoError(t, err, "tasks survive a blocked delete")
		assert.Equal(t, busy.ID, got.ProjectID)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, *want.Position, *got.Position)
	}

	empty := newProject(t, s, "empty")
	require.NoError(t, s.Projects().Delete(ctx, empty.ID))
	_, err = s.Projects().GetByID(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, s.Projects().Delete(ctx, empty.ID), domain.ErrNotFound)
}

func TestProjectRepo_Update(t *testing.T) {
	t.Parallel()
	s := requireStore(t)
	ctx := context.Background()

	p := newProject(t, s, "before")
	p.Name = "after"
	require.NoError(t, s.Projects().Update(ctx, p))

	got, err := s.Projects().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)

	assert.ErrorIs(t, s.Projects().Update(ctx, &domain.Project{ID: 987654321, Name: "x"}), domain.ErrNotFound)
}
