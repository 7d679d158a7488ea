package domain

import (
	"strings"
	"time"
)

// View is a predefined date/status filter on the task list.
type View string

const (
	ViewAll     View = "all"
	ViewToday   View = "today"
	ViewWeek    View = "week"
	ViewOverdue View = "overdue"
	ViewDone    View = "done"
)

// ParseView falls back to ViewAll for blank or unknown input.
func ParseView(s string) View {
	switch v := View(strings.TrimSpace(s)); v {
	case ViewToday, ViewWeek, ViewOverdue, ViewDone:
		return v
	default:
		return ViewAll
	}
}

// SortMode selects one of the fixed task list orderings.
type SortMode string

const (
	SortOrder    SortMode = "order"
	SortDue      SortMode = "due"
	SortPriority SortMode = "priority"
	SortCreated  SortMode = "created"
)

// ParseSortMode falls back to SortOrder for blank or unknown input.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.TrimSpace(s)); m {
	case SortDue, SortPriority, SortCreated:
		return m
	default:
		return SortOrder
	}
}

// WeekSpan is the number of days after today still inside ViewWeek.
const WeekSpan = 6

// TaskFilter carries every list predicate and the ordering.
type TaskFilter struct {
	View   View
	Query  string
	Tag    string
	Status *Status
	Sort   SortMode
	// Today is the current calendar date (midnight UTC carrying the local
	// year/month/day). Views are evaluated against it.
	Today time.Time
}

// ParseTaskFilter builds a TaskFilter from raw query parameters.
// Only an unknown non-blank status is rejected.
func ParseTaskFilter(view, q, tag, status, sort string, today time.Time) (TaskFilter, error) {
	f := TaskFilter{
		View:  ParseView(view),
		Query: strings.TrimSpace(q),
		Tag:   strings.TrimSpace(tag),
		Sort:  ParseSortMode(sort),
		Today: DateOf(today),
	}
	if strings.TrimSpace(status) != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return TaskFilter{}, err
		}
		f.Status = &st
	}
	return f, nil
}

// DateOf truncates t to its calendar date in t's own location and returns
// it as midnight UTC, the form DATE columns scan into.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DueSoonDays marks non-DONE tasks due within this many days as "soon".
const DueSoonDays = 2

// TaskListing is the result of one task list query.
type TaskListing struct {
	Tasks    []*TaskListItem `json:"tasks"`
	Projects []*Project      `json:"projects"`
	Tags     []string        `json:"tags"`
}
