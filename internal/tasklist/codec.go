package tasklist

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

type actionEnvelope struct {
	Type  string `mapstructure:"type"`
	ID    int64  `mapstructure:"id"`
	Text  string `mapstructure:"text"`
	Tasks []Task `mapstructure:"tasks"`
}

// DecodeAction builds an Action from a loosely typed payload such as a decoded
// JSON object or HTML form values. Numeric fields may arrive as strings.
func DecodeAction(raw map[string]any) (Action, error) {
	var env actionEnvelope
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &env,
	})
	if err != nil {
		return nil, fmt.Errorf("build action decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	requireID := func() error {
		if _, ok := raw["id"]; !ok {
			return fmt.Errorf("action %s requires id", env.Type)
		}
		return nil
	}

	switch env.Type {
	case KindChangeDraftTitle:
		return ChangeDraftTitle{Text: env.Text}, nil
	case KindAddTask:
		return AddTask{}, nil
	case KindDeleteTask:
		if err := requireID(); err != nil {
			return nil, err
		}
		return DeleteTask{ID: env.ID}, nil
	case KindToggleTask:
		if err := requireID(); err != nil {
			return nil, err
		}
		return ToggleTask{ID: env.ID}, nil
	case KindStartEdit:
		if err := requireID(); err != nil {
			return nil, err
		}
		return StartEdit{ID: env.ID}, nil
	case KindChangeEditTitle:
		return ChangeEditTitle{Text: env.Text}, nil
	case KindSaveEdit:
		if err := requireID(); err != nil {
			return nil, err
		}
		return SaveEdit{ID: env.ID}, nil
	case KindCancelEdit:
		return CancelEdit{}, nil
	case KindClearAll:
		return ClearAll{}, nil
	case KindLoadTasks:
		for _, t := range env.Tasks {
			if t.ID > MaxID {
				return nil, fmt.Errorf("task id %d exceeds %d", t.ID, MaxID)
			}
		}
		return LoadTasks{Tasks: env.Tasks}, nil
	case "":
		return nil, fmt.Errorf("action type is required")
	default:
		return nil, fmt.Errorf("unknown action type %q", env.Type)
	}
}
