package domain

import (
	"encoding/json"
	"time"
)

// taskFields is Task without its JSON methods.
type taskFields Task

// taskWire carries due_date as YYYY-MM-DD, the form ParseDueDate accepts.
type taskWire struct {
	taskFields
	DueDate *string `json:"due_date,omitempty"`
}

type listItemWire struct {
	taskWire
	ProjectName string `json:"project_name"`
}

func (t Task) wire() taskWire {
	w := taskWire{taskFields: taskFields(t)}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.DateOnly)
		w.DueDate = &s
	}
	return w
}

func (w taskWire) task() (Task, error) {
	t := Task(w.taskFields)
	t.DueDate = nil
	if w.DueDate != nil {
		due, err := ParseDueDate(*w.DueDate)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = due
	}
	return t, nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wire())
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var w taskWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := w.task()
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (it TaskListItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(listItemWire{taskWire: it.Task.wire(), ProjectName: it.ProjectName})
}

func (it *TaskListItem) UnmarshalJSON(data []byte) error {
	var w listItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	v, err := w.task()
	if err != nil {
		return err
	}
	it.Task = v
	it.ProjectName = w.ProjectName
	return nil
}
