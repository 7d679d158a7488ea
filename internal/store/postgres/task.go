package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/taskboard/internal/domain"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		pos, err := appendPosition(ctx, tx, t.ProjectID, t.Status)
		if err != nil {
			return err
		}

		completedAt := domain.CompletedAtFor(t.Status, nil, time.Now())

		err = tx.QueryRow(ctx,
			`INSERT INTO tasks (project_id, title, description, status, priority, due_date, tags, sort_order, completed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id, created_at, updated_at`,
			t.ProjectID, t.Title, t.Description, string(t.Status), string(t.Priority),
			t.DueDate, t.Tags, pos, completedAt,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}

		t.Position = &pos
		t.CompletedAt = completedAt
		return nil
	})
	if isForeignKeyViolation(err) {
		return fmt.Errorf("taskRepo.Create: project %d: %w", t.ProjectID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks t WHERE t.id = $1`, id,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			oldProject  int64
			oldStatus   domain.Status
			position    *int64
			completedAt *time.Time
		)
		err := tx.QueryRow(ctx,
			`SELECT project_id, status, sort_order, completed_at FROM tasks WHERE id = $1 FOR UPDATE`,
			t.ID,
		).Scan(&oldProject, &oldStatus, &position, &completedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}

		if oldProject != t.ProjectID || oldStatus != t.Status {
			pos, err := appendPosition(ctx, tx, t.ProjectID, t.Status)
			if err != nil {
				return err
			}
			position = &pos
		}
		completedAt = domain.CompletedAtFor(t.Status, completedAt, time.Now())

		err = tx.QueryRow(ctx,
			`UPDATE tasks SET project_id = $1, title = $2, description = $3, status = $4, priority = $5,
			        due_date = $6, tags = $7, sort_order = $8, completed_at = $9, updated_at = now()
			 WHERE id = $10
			 RETURNING created_at, updated_at`,
			t.ProjectID, t.Title, t.Description, string(t.Status), string(t.Priority),
			t.DueDate, t.Tags, position, completedAt, t.ID,
		).Scan(&t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return err
		}

		t.Position = position
		t.CompletedAt = completedAt
		return nil
	})
	if isForeignKeyViolation(err) {
		return fmt.Errorf("taskRepo.Update: project %d: %w", t.ProjectID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}

	return nil
}

// Move takes the group lock before the row lock, the same order appends use,
// so concurrent moves and inserts in one group queue instead of interleaving.
func (r *TaskRepo) Move(ctx context.Context, id int64, dir domain.Direction) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		peek, err := loadSlot(ctx, tx, id, false)
		if err != nil {
			return err
		}
		if err = lockGroup(ctx, tx, peek.projectID, peek.status); err != nil {
			return err
		}

		cur, err := loadSlot(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if cur.projectID != peek.projectID || cur.status != peek.status {
			// Changed group while we waited; lock the new one too.
			if err = lockGroup(ctx, tx, cur.projectID, cur.status); err != nil {
				return err
			}
		}
		if cur.position == nil {
			return nil
		}

		next, ok, err := neighbour(ctx, tx, cur, dir)
		if err != nil || !ok {
			return err
		}

		return swapPositions(ctx, tx, cur, next)
	})
	if err != nil {
		return fmt.Errorf("taskRepo.Move: %w", err)
	}

	return nil
}

// Complete stamps completed_at with the current time on every call. The
// position is left as it was.
func (r *TaskRepo) Complete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET status = $1, completed_at = now(), updated_at = now() WHERE id = $2`,
		string(domain.StatusDone), id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Complete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Complete: %w", domain.ErrNotFound)
	}

	return nil
}

// Reopen moves a task back to TODO, appended to the end of the TODO group,
// and clears completed_at.
func (r *TaskRepo) Reopen(ctx context.Context, id int64) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cur, err := loadSlot(ctx, tx, id, true)
		if err != nil {
			return err
		}

		pos, err := appendPosition(ctx, tx, cur.projectID, domain.StatusTodo)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE tasks SET status = $1, sort_order = $2, completed_at = NULL, updated_at = now()
			 WHERE id = $3`,
			string(domain.StatusTodo), pos, id,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("taskRepo.Reopen: %w", err)
	}

	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]*domain.TaskListItem, error) {
	query, args, err := buildListQuery(f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("taskRepo.List: build: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.List: %w", err)
	}
	defer rows.Close()

	var items []*domain.TaskListItem
	for rows.Next() {
		var it domain.TaskListItem

		err = rows.Scan(append(taskDest(&it.Task), &it.ProjectName)...)
		if err != nil {
			return nil, fmt.Errorf("taskRepo.List: scan: %w", err)
		}
		items = append(items, &it)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("taskRepo.List: rows: %w", err)
	}

	return items, nil
}

// taskDest returns scan targets matching taskColumns.
func taskDest(t *domain.Task) []any {
	return []any{
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.Tags, &t.Position, &t.CompletedAt, &t.CreatedAt, &t.UpdatedAt,
	}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(taskDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}
