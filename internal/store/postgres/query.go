package postgres

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/gosuda/taskboard/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// taskColumns is the column list shared by every task SELECT; scanTask
// depends on its order.
const taskColumns = `t.id, t.project_id, t.title, t.description, t.status, t.priority,
	t.due_date, t.tags, t.sort_order, t.completed_at, t.created_at, t.updated_at`

var (
	statusRankExpr   = rankCase("t.status", domain.Statuses, func(s domain.Status) int { return s.Rank() })
	priorityRankExpr = rankCase("t.priority", domain.Priorities, func(p domain.Priority) int { return p.Rank() })
)

// rankCase renders a CASE expression mapping each enum value to its rank.
// Only enum constants are inlined; user input never reaches it.
func rankCase[T ~string](column string, values []T, rank func(T) int) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for _, v := range values {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", string(v), rank(v))
	}
	b.WriteString(" END")
	return b.String()
}

// buildListQuery composes the filtered, ordered task list query.
func buildListQuery(f domain.TaskFilter) sq.SelectBuilder {
	q := psql.Select(taskColumns, "p.name").
		From("tasks t").
		Join("projects p ON p.id = t.project_id")

	if f.Status != nil {
		q = q.Where(sq.Eq{"t.status": string(*f.Status)})
	}

	if pred := viewPredicate(f); pred != nil {
		q = q.Where(pred)
	}

	if f.Query != "" {
		pattern := containsPattern(f.Query)
		q = q.Where(sq.Or{
			sq.ILike{"t.title": pattern},
			sq.ILike{"COALESCE(t.description, '')": pattern},
		})
	}

	// Substring match over the joined tag string: "レポ" also matches "レポート".
	if f.Tag != "" {
		q = q.Where(sq.ILike{"COALESCE(t.tags, '')": containsPattern(f.Tag)})
	}

	return q.OrderBy(orderBy(f.Sort)...)
}

func viewPredicate(f domain.TaskFilter) sq.Sqlizer {
	notDone := sq.NotEq{"t.status": string(domain.StatusDone)}

	switch f.View {
	case domain.ViewToday:
		return sq.And{sq.Eq{"t.due_date": f.Today}, notDone}
	case domain.ViewWeek:
		return sq.And{
			sq.GtOrEq{"t.due_date": f.Today},
			sq.LtOrEq{"t.due_date": f.Today.AddDate(0, 0, domain.WeekSpan)},
			notDone,
		}
	case domain.ViewOverdue:
		return sq.And{sq.Lt{"t.due_date": f.Today}, notDone}
	case domain.ViewDone:
		return sq.Eq{"t.status": string(domain.StatusDone)}
	default:
		return nil
	}
}

func orderBy(mode domain.SortMode) []string {
	switch mode {
	case domain.SortCreated:
		return []string{"t.id DESC"}
	case domain.SortDue:
		return []string{
			statusRankExpr,
			"t.due_date ASC NULLS LAST",
			"t.sort_order ASC NULLS LAST",
			"t.id DESC",
		}
	case domain.SortPriority:
		return []string{
			statusRankExpr,
			priorityRankExpr,
			"t.sort_order ASC NULLS LAST",
			"t.due_date ASC NULLS LAST",
			"t.id DESC",
		}
	default:
		return []string{
			statusRankExpr,
			"t.sort_order ASC NULLS LAST",
			"t.id ASC",
		}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps s for an ILIKE substring match, escaping LIKE
// metacharacters so they match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
