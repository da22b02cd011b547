package main

import (
	"os"
	"path/filepath"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/metalagman/tasklist/internal/logging"
	"github.com/metalagman/tasklist/internal/tui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Start the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			logFile, err := logging.InitFile(debug, filepath.Join(repoRoot, config.Dir))
			if err != nil {
				return err
			}
			defer func() { _ = logFile.Close() }()

			sess, _, closeFn, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			log.Info().Int("tasks", len(sess.Snapshot().Tasks)).Msg("terminal ui started")
			return tui.Run(cmd.Context(), sess)
		},
	}
}
