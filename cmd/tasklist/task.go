package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/metalagman/tasklist/internal/session"
	"github.com/metalagman/tasklist/internal/tasklist"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("title is required")
			}
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sess.Dispatch(cmd.Context(), tasklist.ChangeDraftTitle{Text: title})
			st := sess.Dispatch(cmd.Context(), tasklist.AddTask{})
			task := st.Tasks[len(st.Tasks)-1]
			log.Info().Int64("task_id", task.ID).Msg("task added")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), task.ID)
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending and completed tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			pending, completed := sess.Pending(), sess.Completed()
			if pretty {
				r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
				if err != nil {
					return fmt.Errorf("create renderer: %w", err)
				}
				out, err := r.Render(markdownList(pending, completed))
				if err != nil {
					return fmt.Errorf("render list: %w", err)
				}
				_, err = io.WriteString(cmd.OutOrStdout(), out)
				return err
			}
			return writePlainList(cmd.OutOrStdout(), pending, completed)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "render the list as formatted markdown")
	return cmd
}

func writePlainList(w io.Writer, pending, completed []tasklist.Task) error {
	if len(pending)+len(completed) == 0 {
		log.Info().Msg("no tasks")
		return nil
	}
	for _, t := range pending {
		if _, err := fmt.Fprintf(w, "%d\ttodo\t%s\n", t.ID, t.Title); err != nil {
			return err
		}
	}
	for _, t := range completed {
		if _, err := fmt.Fprintf(w, "%d\tdone\t%s\n", t.ID, t.Title); err != nil {
			return err
		}
	}
	return nil
}

func markdownList(pending, completed []tasklist.Task) string {
	var b strings.Builder
	b.WriteString("# My Task List\n\n")
	section := func(heading, box string, items []tasklist.Task) {
		fmt.Fprintf(&b, "## %s\n\n", heading)
		if len(items) == 0 {
			b.WriteString("_none_\n\n")
			return
		}
		for _, t := range items {
			fmt.Fprintf(&b, "- [%s] %s `%d`\n", box, t.Title, t.ID)
		}
		b.WriteString("\n")
	}
	section("Pending Tasks", " ", pending)
	section("Completed Tasks", "x", completed)
	return b.String()
}

func parseTaskID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return id, nil
}

// existingTask resolves a CLI id argument. The reducer ignores unknown ids, so
// the CLI reports them instead of silently doing nothing.
func existingTask(sess *session.Session, arg string) (tasklist.Task, error) {
	id, err := parseTaskID(arg)
	if err != nil {
		return tasklist.Task{}, err
	}
	task, ok := sess.Snapshot().Find(id)
	if !ok {
		return tasklist.Task{}, fmt.Errorf("task %d not found", id)
	}
	return task, nil
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task completed, or pending again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			task, err := existingTask(sess, args[0])
			if err != nil {
				return err
			}
			st := sess.Dispatch(cmd.Context(), tasklist.ToggleTask{ID: task.ID})
			task, _ = st.Find(task.ID)
			log.Info().Int64("task_id", task.ID).Bool("completed", task.Completed).Msg("task toggled")
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title>",
		Short: "Rename a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			task, err := existingTask(sess, args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess.Dispatch(ctx, tasklist.StartEdit{ID: task.ID})
			sess.Dispatch(ctx, tasklist.ChangeEditTitle{Text: strings.Join(args[1:], " ")})
			sess.Dispatch(ctx, tasklist.SaveEdit{ID: task.ID})
			log.Info().Int64("task_id", task.ID).Msg("task renamed")
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			task, err := existingTask(sess, args[0])
			if err != nil {
				return err
			}
			sess.Dispatch(cmd.Context(), tasklist.DeleteTask{ID: task.ID})
			log.Info().Int64("task_id", task.ID).Msg("task deleted")
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete all tasks?") {
				log.Info().Msg("clear cancelled")
				return nil
			}
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			sess.Dispatch(cmd.Context(), tasklist.ClearAll{})
			log.Info().Msg("all tasks deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return exportTasks(cmd.OutOrStdout(), format, sess.Snapshot().Tasks)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|yaml)")
	return cmd
}

func exportTasks(w io.Writer, format string, tasks []tasklist.Task) error {
	if tasks == nil {
		tasks = []tasklist.Task{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tasks); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
