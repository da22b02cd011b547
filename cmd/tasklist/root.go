package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/metalagman/tasklist/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var debug bool

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	root, err := newRootCmd()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return root.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           "tasklist",
		Short:         "tasklist keeps a small to-do list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnv()
			logging.Init(debug)
		},
	}
	root.PersistentFlags().String("config", defaultConfigPath, "config file path")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", root.PersistentFlags().Lookup("config")); err != nil {
		return nil, fmt.Errorf("bind config flag: %w", err)
	}
	root.AddCommand(
		initCmd(),
		addCmd(),
		listCmd(),
		toggleCmd(),
		editCmd(),
		rmCmd(),
		clearCmd(),
		exportCmd(),
		uiCmd(),
		serveCmd(),
	)
	return root, nil
}

// loadDotEnv exports .env entries before viper reads TASKLIST_* variables.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("load .env")
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
