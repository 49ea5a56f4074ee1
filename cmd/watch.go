/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tristendillon/capnp-stubgen/core/config"
	"github.com/tristendillon/capnp-stubgen/core/logger"
	"github.com/tristendillon/capnp-stubgen/core/runner"
	"github.com/tristendillon/capnp-stubgen/core/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate stubs whenever a schema file changes",
	Long:  `Watches the working directory for schema changes and reruns stub generation after each change.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		logger.Debug("watch called")

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		run, err := runner.New(cfg, wd)
		if err != nil {
			return err
		}

		schemaWatcher, err := watcher.NewSchemaWatcher(wd, cfg.Excludes, run.Run)
		if err != nil {
			return err
		}
		defer schemaWatcher.Close()

		logger.Info("Watching %s for schema changes...", wd)
		return schemaWatcher.Watch()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
