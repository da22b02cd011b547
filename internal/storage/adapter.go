package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/metalagman/tasklist/internal/tasklist"
	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultKey is the key the task list is stored under.
const DefaultKey = "tasks"

// Persistence loads and stores the whole task list.
type Persistence interface {
	Load(ctx context.Context) []tasklist.Task
	Save(ctx context.Context, tasks []tasklist.Task) error
	Clear(ctx context.Context) error
}

//go:embed tasks.schema.json
var tasksSchemaJSON string

var tasksSchema = mustSchema(tasksSchemaJSON)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile tasks schema: %v", err))
	}
	return schema
}

// Adapter stores the task list as a JSON array under a single key.
type Adapter struct {
	kv  KV
	key string
}

// NewAdapter creates an adapter over kv. An empty key selects DefaultKey.
func NewAdapter(kv KV, key string) *Adapter {
	if key == "" {
		key = DefaultKey
	}
	return &Adapter{kv: kv, key: key}
}

// Load returns the stored tasks. Missing, unreadable or malformed data yields
// an empty list.
func (a *Adapter) Load(ctx context.Context) []tasklist.Task {
	blob, err := a.kv.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Str("key", a.key).Msg("storage: read failed, starting empty")
		}
		return []tasklist.Task{}
	}
	tasks, err := decodeTasks(blob)
	if err != nil {
		log.Warn().Err(err).Str("key", a.key).Msg("storage: malformed task list, starting empty")
		return []tasklist.Task{}
	}
	log.Debug().Str("key", a.key).Int("tasks", len(tasks)).Msg("storage: loaded")
	return tasks
}

// Save overwrites the stored list.
func (a *Adapter) Save(ctx context.Context, tasks []tasklist.Task) error {
	if tasks == nil {
		tasks = []tasklist.Task{}
	}
	blob, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	if err := a.kv.Set(ctx, a.key, string(blob)); err != nil {
		return fmt.Errorf("store tasks: %w", err)
	}
	return nil
}

// Clear removes the stored list.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.kv.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	return nil
}

func decodeTasks(blob string) ([]tasklist.Task, error) {
	result, err := tasksSchema.Validate(gojsonschema.NewStringLoader(blob))
	if err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			errs = append(errs, e.String())
		}
		return nil, fmt.Errorf("tasks schema validation failed: %s", strings.Join(errs, "; "))
	}
	var tasks []tasklist.Task
	if err := json.Unmarshal([]byte(blob), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if tasks == nil {
		tasks = []tasklist.Task{}
	}
	return tasks, nil
}
