package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/metalagman/tasklist/internal/storage"
	"github.com/metalagman/tasklist/internal/tasklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore counts persistence calls on top of a real adapter.
type recordingStore struct {
	*storage.Adapter
	saves  int
	clears int
	err    error
}

func (r *recordingStore) Save(ctx context.Context, tasks []tasklist.Task) error {
	r.saves++
	if r.err != nil {
		return r.err
	}
	return r.Adapter.Save(ctx, tasks)
}

func (r *recordingStore) Clear(ctx context.Context) error {
	r.clears++
	if r.err != nil {
		return r.err
	}
	return r.Adapter.Clear(ctx)
}

func newStore() (*recordingStore, *storage.MemoryKV) {
	kv := storage.NewMemoryKV()
	return &recordingStore{Adapter: storage.NewAdapter(kv, "")}, kv
}

func clock() Option {
	return WithClock(func() time.Time { return time.UnixMilli(1700000000000) })
}

func TestNew_HydratesFromStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore()
	stored := []tasklist.Task{{ID: 1, Title: "a"}, {ID: 2, Title: "b", Completed: true}}
	require.NoError(t, store.Adapter.Save(ctx, stored))

	s := New(ctx, store)
	assert.Equal(t, stored, s.Snapshot().Tasks)
	assert.Equal(t, []tasklist.Task{{ID: 1, Title: "a"}}, s.Pending())
	assert.Equal(t, []tasklist.Task{{ID: 2, Title: "b", Completed: true}}, s.Completed())
	assert.Zero(t, store.saves, "hydration does not write back")
}

func TestNew_EmptyStore(t *testing.T) {
	t.Parallel()

	store, _ := newStore()
	s := New(context.Background(), store)
	assert.Empty(t, s.Snapshot().Tasks)
	assert.NotNil(t, s.Snapshot().Tasks)
}

func TestDispatch_PersistsOnlyTaskChanges(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore()
	s := New(ctx, store, clock())

	s.Dispatch(ctx, tasklist.ChangeDraftTitle{Text: "a"})
	assert.Zero(t, store.saves, "draft changes are not persisted")

	st := s.Dispatch(ctx, tasklist.AddTask{})
	assert.Equal(t, 1, store.saves)
	id := st.Tasks[0].ID

	s.Dispatch(ctx, tasklist.AddTask{})
	assert.Equal(t, 1, store.saves, "rejected add leaves the list alone")

	s.Dispatch(ctx, tasklist.StartEdit{ID: id})
	s.Dispatch(ctx, tasklist.ChangeEditTitle{Text: "b"})
	s.Dispatch(ctx, tasklist.CancelEdit{})
	assert.Equal(t, 1, store.saves, "edit session changes are not persisted")

	s.Dispatch(ctx, tasklist.ToggleTask{ID: id})
	assert.Equal(t, 2, store.saves)

	s.Dispatch(ctx, tasklist.ToggleTask{ID: 999})
	s.Dispatch(ctx, tasklist.DeleteTask{ID: 999})
	assert.Equal(t, 2, store.saves, "no-ops on unknown ids are not persisted")

	s.Dispatch(ctx, tasklist.DeleteTask{ID: id})
	assert.Equal(t, 3, store.saves)
	assert.Empty(t, store.Adapter.Load(ctx))
}

func TestDispatch_StorageErrorsAreSwallowed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore()
	store.err = errors.New("quota exceeded")
	s := New(ctx, store, clock())

	s.Dispatch(ctx, tasklist.ChangeDraftTitle{Text: "a"})
	st := s.Dispatch(ctx, tasklist.AddTask{})
	require.Len(t, st.Tasks, 1, "state advances even when saving fails")
	st = s.Dispatch(ctx, tasklist.ClearAll{})
	assert.Empty(t, st.Tasks)
}

func TestDispatch_ReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore()
	s := New(ctx, store, clock())
	s.Dispatch(ctx, tasklist.ChangeDraftTitle{Text: "a"})
	st := s.Dispatch(ctx, tasklist.AddTask{})

	st.Tasks[0].Title = "mutated"
	assert.Equal(t, "a", s.Snapshot().Tasks[0].Title)
}

func TestDispatch_Scenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, kv := newStore()
	s := New(ctx, store, clock())

	s.Dispatch(ctx, tasklist.ChangeDraftTitle{Text: "Buy milk"})
	st := s.Dispatch(ctx, tasklist.AddTask{})
	require.Len(t, st.Tasks, 1)
	assert.Equal(t, "Buy milk", st.Tasks[0].Title)
	assert.False(t, st.Tasks[0].Completed)
	id := st.Tasks[0].ID

	st = s.Dispatch(ctx, tasklist.ToggleTask{ID: id})
	assert.True(t, st.Tasks[0].Completed)

	s.Dispatch(ctx, tasklist.StartEdit{ID: id})
	s.Dispatch(ctx, tasklist.ChangeEditTitle{Text: "Buy oat milk"})
	st = s.Dispatch(ctx, tasklist.SaveEdit{ID: id})
	assert.Equal(t, "Buy oat milk", st.Tasks[0].Title)
	assert.Nil(t, st.EditingTaskID)
	assert.Equal(t, []tasklist.Task{{ID: id, Title: "Buy oat milk", Completed: true}}, store.Adapter.Load(ctx))

	st = s.Dispatch(ctx, tasklist.ClearAll{})
	assert.Empty(t, st.Tasks)
	assert.Equal(t, 1, store.clears)
	_, err := kv.Get(ctx, storage.DefaultKey)
	assert.ErrorIs(t, err, storage.ErrNotFound, "stored blob is removed")

	reloaded := New(ctx, store)
	assert.Empty(t, reloaded.Snapshot().Tasks)
}

func TestSession_SurvivesReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newStore()
	s := New(ctx, store, clock())
	for _, title := range []string{"a", "b", "c"} {
		s.Dispatch(ctx, tasklist.ChangeDraftTitle{Text: title})
		s.Dispatch(ctx, tasklist.AddTask{})
	}
	first := s.Snapshot().Tasks
	s.Dispatch(ctx, tasklist.DeleteTask{ID: first[2].ID})

	reloaded := New(ctx, store, clock())
	reloaded.Dispatch(ctx, tasklist.ChangeDraftTitle{Text: "d"})
	st := reloaded.Dispatch(ctx, tasklist.AddTask{})

	seen := map[int64]bool{}
	for _, task := range st.Tasks {
		assert.False(t, seen[task.ID], "duplicate id %d", task.ID)
		seen[task.ID] = true
	}
	assert.Len(t, st.Tasks, 3)
}
