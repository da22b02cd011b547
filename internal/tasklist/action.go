package tasklist

// Action is a state transition request handled by Reducer.Apply.
type Action interface {
	Kind() string
}

// Action kinds.
const (
	KindChangeDraftTitle = "changeDraftTitle"
	KindAddTask          = "addTask"
	KindDeleteTask       = "deleteTask"
	KindToggleTask       = "toggleTask"
	KindStartEdit        = "startEdit"
	KindChangeEditTitle  = "changeEditTitle"
	KindSaveEdit         = "saveEdit"
	KindCancelEdit       = "cancelEdit"
	KindClearAll         = "clearAll"
	KindLoadTasks        = "loadTasks"
)

// ChangeDraftTitle replaces the draft title verbatim.
type ChangeDraftTitle struct{ Text string }

// AddTask appends a task built from the draft title.
type AddTask struct{}

// DeleteTask removes a task.
type DeleteTask struct{ ID int64 }

// ToggleTask flips a task's completion flag.
type ToggleTask struct{ ID int64 }

// StartEdit opens an editing session for a task.
type StartEdit struct{ ID int64 }

// ChangeEditTitle replaces the scratch title of the editing session.
type ChangeEditTitle struct{ Text string }

// SaveEdit writes the scratch title into a task and closes the session.
type SaveEdit struct{ ID int64 }

// CancelEdit closes the editing session.
type CancelEdit struct{}

// ClearAll removes every task.
type ClearAll struct{}

// LoadTasks replaces the task list, used to hydrate from storage.
type LoadTasks struct{ Tasks []Task }

func (ChangeDraftTitle) Kind() string { return KindChangeDraftTitle }
func (AddTask) Kind() string          { return KindAddTask }
func (DeleteTask) Kind() string       { return KindDeleteTask }
func (ToggleTask) Kind() string       { return KindToggleTask }
func (StartEdit) Kind() string        { return KindStartEdit }
func (ChangeEditTitle) Kind() string  { return KindChangeEditTitle }
func (SaveEdit) Kind() string         { return KindSaveEdit }
func (CancelEdit) Kind() string       { return KindCancelEdit }
func (ClearAll) Kind() string         { return KindClearAll }
func (LoadTasks) Kind() string        { return KindLoadTasks }
