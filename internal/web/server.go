// Package web provides a browser UI and a JSON API for the task list.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/metalagman/tasklist/internal/tasklist"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps action request bodies.
const maxBodyBytes = 1 << 20

// Dispatcher applies actions and exposes the resulting state.
type Dispatcher interface {
	Dispatch(ctx context.Context, a tasklist.Action) tasklist.State
	Snapshot() tasklist.State
}

// Server provides the web UI handlers and state.
type Server struct {
	d    Dispatcher
	tmpl *template.Template
}

//go:embed templates/*.html
var templatesFS embed.FS

// NewServer creates a new web server.
func NewServer(d Dispatcher) (*Server, error) {
	tmpl, err := template.New("index.html").
		Funcs(template.FuncMap{"taskRow": newTaskRow}).
		ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Server{d: d, tmpl: tmpl}, nil
}

// Routes returns the router for the web UI.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /actions", s.handleFormAction)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("POST /api/actions", s.handleJSONAction)
	return mux
}

// StateView is the JSON and template view of the editor state.
type StateView struct {
	Tasks         []tasklist.Task `json:"tasks"`
	DraftTitle    string          `json:"draftTitle"`
	EditingTaskID *int64          `json:"editingTaskId"`
	EditingTitle  string          `json:"editingTitle"`
	Pending       []tasklist.Task `json:"pending"`
	Completed     []tasklist.Task `json:"completed"`
}

// Editing reports whether id is being edited; used by the template.
func (v StateView) Editing(id int64) bool {
	return v.EditingTaskID != nil && *v.EditingTaskID == id
}

type taskRow struct {
	Task         tasklist.Task
	Editing      bool
	EditingTitle string
}

func newTaskRow(v StateView, t tasklist.Task) taskRow {
	return taskRow{Task: t, Editing: v.Editing(t.ID), EditingTitle: v.EditingTitle}
}

func newStateView(st tasklist.State) StateView {
	pending, completed := tasklist.Partition(st.Tasks)
	tasks := st.Tasks
	if tasks == nil {
		tasks = []tasklist.Task{}
	}
	return StateView{
		Tasks:         tasks,
		DraftTitle:    st.DraftTitle,
		EditingTaskID: st.EditingTaskID,
		EditingTitle:  st.EditingTitle,
		Pending:       pending,
		Completed:     completed,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, newStateView(s.d.Snapshot())); err != nil {
		log.Error().Err(err).Msg("render index")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleFormAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	raw := map[string]any{}
	for key, values := range r.PostForm {
		if len(values) > 0 {
			raw[key] = values[0]
		}
	}
	action, err := tasklist.DecodeAction(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// Browser forms carry the typed text with the add or save itself.
	if text, ok := raw["text"].(string); ok {
		switch action.(type) {
		case tasklist.AddTask:
			s.d.Dispatch(r.Context(), tasklist.ChangeDraftTitle{Text: text})
		case tasklist.SaveEdit:
			s.d.Dispatch(r.Context(), tasklist.ChangeEditTitle{Text: text})
		}
	}
	s.d.Dispatch(r.Context(), action)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStateView(s.d.Snapshot()))
}

func (s *Server) handleJSONAction(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	action, err := tasklist.DecodeAction(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, newStateView(s.d.Dispatch(r.Context(), action)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write json response")
	}
}
