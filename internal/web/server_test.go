package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/metalagman/tasklist/internal/session"
	"github.com/metalagman/tasklist/internal/storage"
	"github.com/metalagman/tasklist/internal/tasklist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, tasks ...tasklist.Task) (http.Handler, *session.Session, *storage.Adapter) {
	t.Helper()
	ctx := context.Background()
	adapter := storage.NewAdapter(storage.NewMemoryKV(), "")
	require.NoError(t, adapter.Save(ctx, tasks))
	s := session.New(ctx, adapter, session.WithClock(func() time.Time { return time.UnixMilli(1700000000000) }))
	srv, err := NewServer(s)
	require.NoError(t, err)
	return srv.Routes(), s, adapter
}

func postForm(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/actions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/actions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex_RendersPartitions(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestServer(t,
		tasklist.Task{ID: 1, Title: "pending <b>one</b>"},
		tasklist.Task{ID: 2, Title: "finished", Completed: true},
	)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Pending Tasks")
	assert.Contains(t, body, "Completed Tasks")
	assert.Contains(t, body, "pending &lt;b&gt;one&lt;/b&gt;", "titles are escaped")
	assert.Contains(t, body, "task-completed-title")
	assert.Contains(t, body, "Undo")
	assert.Contains(t, body, "window.confirm")
}

func TestFormAction_AddToggleEditDelete(t *testing.T) {
	t.Parallel()

	h, s, adapter := newTestServer(t)
	ctx := context.Background()

	rec := postForm(t, h, url.Values{"type": {"addTask"}, "text": {"Buy milk"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	st := s.Snapshot()
	require.Len(t, st.Tasks, 1)
	id := strconv.FormatInt(st.Tasks[0].ID, 10)

	postForm(t, h, url.Values{"type": {"toggleTask"}, "id": {id}})
	assert.True(t, s.Snapshot().Tasks[0].Completed)

	postForm(t, h, url.Values{"type": {"startEdit"}, "id": {id}})
	page := httptest.NewRecorder()
	h.ServeHTTP(page, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, page.Body.String(), `value="saveEdit"`)

	postForm(t, h, url.Values{"type": {"saveEdit"}, "id": {id}, "text": {"Buy oat milk"}})
	assert.Equal(t, "Buy oat milk", s.Snapshot().Tasks[0].Title)
	assert.Nil(t, s.Snapshot().EditingTaskID)
	assert.Equal(t, "Buy oat milk", adapter.Load(ctx)[0].Title)

	postForm(t, h, url.Values{"type": {"deleteTask"}, "id": {id}})
	assert.Empty(t, s.Snapshot().Tasks)
}

func TestFormAction_BlankDraftIsKept(t *testing.T) {
	t.Parallel()

	h, s, _ := newTestServer(t)
	postForm(t, h, url.Values{"type": {"addTask"}, "text": {"   "}})

	assert.Empty(t, s.Snapshot().Tasks)
	assert.Equal(t, "   ", s.Snapshot().DraftTitle)
}

func TestFormAction_BadRequest(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, postForm(t, h, url.Values{"type": {"nope"}}).Code)
	assert.Equal(t, http.StatusBadRequest, postForm(t, h, url.Values{"type": {"deleteTask"}, "id": {"x"}}).Code)
}

func TestAPI_StateAndActions(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestServer(t, tasklist.Task{ID: 1, Title: "a"})

	rec := postJSON(t, h, `{"type":"toggleTask","id":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var view StateView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, []tasklist.Task{{ID: 1, Title: "a", Completed: true}}, view.Completed)
	assert.Empty(t, view.Pending)

	rec = postJSON(t, h, `{"type":"clearAll"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":[],"draftTitle":"","editingTaskId":null,"editingTitle":"","pending":[],"completed":[]}`, rec.Body.String())
}

func TestAPI_BadRequest(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, h, `{`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, h, `{"type":"saveEdit"}`).Code)
}

func TestActions_RejectOversizedBody(t *testing.T) {
	t.Parallel()

	h, s, _ := newTestServer(t)
	huge := strings.Repeat("a", maxBodyBytes+1)

	rec := postJSON(t, h, `{"type":"changeDraftTitle","text":"`+huge+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(t, h, url.Values{"type": {"changeDraftTitle"}, "text": {huge}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.Snapshot().DraftTitle)
}
