package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/tasklist/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a tasklist directory",
		Long:  "Initialize a tasklist directory by creating .tasklist and installing a default config.",
		RunE: func(cmd *cobra.Command, args []string) error {
			repoRoot, err := os.Getwd()
			if err != nil {
				return err
			}
			path, created, err := writeDefaultConfig(repoRoot)
			if err != nil {
				return err
			}
			if !created {
				log.Info().Str("path", path).Msg("config already exists, skipping")
				return nil
			}
			log.Info().Str("path", path).Msg("installed default config")
			return nil
		},
	}
}

func writeDefaultConfig(repoRoot string) (string, bool, error) {
	dir := filepath.Join(repoRoot, config.Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create %s: %w", config.Dir, err)
	}
	path := filepath.Join(repoRoot, defaultConfigPath)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	out, err := yaml.Marshal(config.Default())
	if err != nil {
		return "", false, fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}
	return path, true, nil
}
