package tasklist

import (
	"strings"
	"time"
)

// Reducer applies actions to state. The zero value uses the wall clock for ids.
type Reducer struct {
	now func() time.Time
}

// NewReducer creates a reducer that stamps new ids from now.
func NewReducer(now func() time.Time) Reducer {
	return Reducer{now: now}
}

// Apply returns the state that results from applying a to s. The input state
// is never modified. Unknown actions return s unchanged.
func (r Reducer) Apply(s State, a Action) State {
	switch a := a.(type) {
	case ChangeDraftTitle:
		s.DraftTitle = a.Text
		return s

	case AddTask:
		if strings.TrimSpace(s.DraftTitle) == "" {
			return s
		}
		tasks := make([]Task, len(s.Tasks), len(s.Tasks)+1)
		copy(tasks, s.Tasks)
		s.Tasks = append(tasks, Task{ID: r.nextID(s.Tasks), Title: s.DraftTitle})
		s.DraftTitle = ""
		return s

	case DeleteTask:
		tasks := make([]Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				tasks = append(tasks, t)
			}
		}
		s.Tasks = tasks
		if s.Editing(a.ID) {
			s = endEdit(s)
		}
		return s

	case ToggleTask:
		s.Tasks = mapTask(s.Tasks, a.ID, func(t Task) Task {
			t.Completed = !t.Completed
			return t
		})
		return s

	case StartEdit:
		id := a.ID
		s.EditingTaskID = &id
		s.EditingTitle = ""
		if t, ok := s.Find(id); ok {
			s.EditingTitle = t.Title
		}
		return s

	case ChangeEditTitle:
		s.EditingTitle = a.Text
		return s

	case SaveEdit:
		title := s.EditingTitle
		s.Tasks = mapTask(s.Tasks, a.ID, func(t Task) Task {
			t.Title = title
			return t
		})
		return endEdit(s)

	case CancelEdit:
		return endEdit(s)

	case ClearAll:
		s.Tasks = []Task{}
		return endEdit(s)

	case LoadTasks:
		s.Tasks = append([]Task{}, a.Tasks...)
		if s.EditingTaskID != nil {
			if _, ok := s.Find(*s.EditingTaskID); !ok {
				s = endEdit(s)
			}
		}
		return s

	default:
		return s
	}
}

// nextID returns a millisecond timestamp, bumped past every existing id so
// that two adds inside the same millisecond, or a clock that went backwards,
// cannot collide. Ids never exceed MaxID; once the bump would, the lowest
// free positive id is used instead.
func (r Reducer) nextID(tasks []Task) int64 {
	now := time.Now
	if r.now != nil {
		now = r.now
	}
	id := now().UnixMilli()
	var maxID int64
	for _, t := range tasks {
		maxID = max(maxID, t.ID)
	}
	if maxID >= id {
		if maxID >= MaxID {
			return freeID(tasks)
		}
		id = maxID + 1
	}
	if id > MaxID {
		return freeID(tasks)
	}
	return id
}

func freeID(tasks []Task) int64 {
	used := make(map[int64]struct{}, len(tasks))
	for _, t := range tasks {
		used[t.ID] = struct{}{}
	}
	id := int64(1)
	for {
		if _, ok := used[id]; !ok {
			return id
		}
		id++
	}
}

func mapTask(tasks []Task, id int64, fn func(Task) Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		if t.ID == id {
			t = fn(t)
		}
		out[i] = t
	}
	return out
}

func endEdit(s State) State {
	s.EditingTaskID = nil
	s.EditingTitle = ""
	return s
}
