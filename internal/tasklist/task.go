// Package tasklist holds the task model and the reducer that drives every
// task mutation.
package tasklist

// MaxID is the largest task id, 2^53-1, so every id survives a round trip
// through a JSON number read as a double.
const MaxID int64 = 1<<53 - 1

// Task is a single to-do item.
type Task struct {
	ID        int64  `json:"id"        mapstructure:"id"        yaml:"id"`
	Title     string `json:"title"     mapstructure:"title"     yaml:"title"`
	Completed bool   `json:"completed" mapstructure:"completed" yaml:"completed"`
}

// State is the full editor state.
type State struct {
	Tasks         []Task
	DraftTitle    string
	EditingTaskID *int64
	EditingTitle  string
}

// Editing reports whether id is the task currently being edited.
func (s State) Editing(id int64) bool {
	return s.EditingTaskID != nil && *s.EditingTaskID == id
}

// Find returns the task with id.
func (s State) Find(id int64) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// Clone returns a copy that shares no memory with s.
func (s State) Clone() State {
	out := s
	if s.Tasks != nil {
		out.Tasks = make([]Task, len(s.Tasks))
		copy(out.Tasks, s.Tasks)
	}
	if s.EditingTaskID != nil {
		id := *s.EditingTaskID
		out.EditingTaskID = &id
	}
	return out
}

// Partition splits tasks into pending and completed, keeping order.
func Partition(tasks []Task) (pending, completed []Task) {
	pending = []Task{}
	completed = []Task{}
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
			continue
		}
		pending = append(pending, t)
	}
	return pending, completed
}
