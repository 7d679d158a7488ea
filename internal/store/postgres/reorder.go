package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gosuda/taskboard/internal/domain"
)

// lockGroup serializes position changes inside one (project, status) group
// until the surrounding transaction ends.
func lockGroup(ctx context.Context, tx pgx.Tx, projectID int64, status domain.Status) error {
	_, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended(format('tasks:%s:%s', $1::bigint, $2::text), 0))`,
		projectID, string(status),
	)
	if err != nil {
		return fmt.Errorf("lock group: %w", err)
	}
	return nil
}

// appendPosition locks the group and returns the slot after its current last
// task. An empty group starts at 1.
func appendPosition(ctx context.Context, tx pgx.Tx, projectID int64, status domain.Status) (int64, error) {
	if err := lockGroup(ctx, tx, projectID, status); err != nil {
		return 0, err
	}

	var last int64
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) FROM tasks WHERE project_id = $1 AND status = $2`,
		projectID, string(status),
	).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("max position: %w", err)
	}

	return last + 1, nil
}

type groupSlot struct {
	id        int64
	projectID int64
	status    domain.Status
	position  *int64
}

func loadSlot(ctx context.Context, tx pgx.Tx, id int64, forUpdate bool) (groupSlot, error) {
	query := `SELECT id, project_id, status, sort_order FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var s groupSlot
	err := tx.QueryRow(ctx, query, id).Scan(&s.id, &s.projectID, &s.status, &s.position)
	if errors.Is(err, pgx.ErrNoRows) {
		return groupSlot{}, domain.ErrNotFound
	}
	if err != nil {
		return groupSlot{}, err
	}
	return s, nil
}

// neighbour finds the adjacent task in dir, or reports ok=false at either end.
func neighbour(ctx context.Context, tx pgx.Tx, s groupSlot, dir domain.Direction) (groupSlot, bool, error) {
	query := `SELECT id, project_id, status, sort_order FROM tasks
		 WHERE project_id = $1 AND status = $2 AND sort_order < $3
		 ORDER BY sort_order DESC, id DESC LIMIT 1 FOR UPDATE`
	if dir == domain.DirectionDown {
		query = `SELECT id, project_id, status, sort_order FROM tasks
		 WHERE project_id = $1 AND status = $2 AND sort_order > $3
		 ORDER BY sort_order ASC, id ASC LIMIT 1 FOR UPDATE`
	}

	var n groupSlot
	err := tx.QueryRow(ctx, query, s.projectID, string(s.status), *s.position).
		Scan(&n.id, &n.projectID, &n.status, &n.position)
	if errors.Is(err, pgx.ErrNoRows) {
		return groupSlot{}, false, nil
	}
	if err != nil {
		return groupSlot{}, false, err
	}
	return n, true, nil
}

// swapPositions exchanges the sort_order of two tasks in the same group.
func swapPositions(ctx context.Context, tx pgx.Tx, a, b groupSlot) error {
	batch := &pgx.Batch{}
	batch.Queue(`UPDATE tasks SET sort_order = $1, updated_at = now() WHERE id = $2`, *b.position, a.id)
	batch.Queue(`UPDATE tasks SET sort_order = $1, updated_at = now() WHERE id = $2`, *a.position, b.id)
	return tx.SendBatch(ctx, batch).Close()
}
