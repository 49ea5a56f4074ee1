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
)

var (
	generatePaths    []string
	generateExcludes []string
	generateClean    []string
	generateOutput   string
	generateRecurse  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate stubs for all matched schema files",
	Long:  `Generates the .pyi and .py stub surfaces for every schema file matched by the configured glob patterns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		logger.Debug("generate called")

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		logger.Info("Working from root directory: %s", wd)

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		applyGenerateFlags(cmd, cfg)

		run, err := runner.New(cfg, wd)
		if err != nil {
			return err
		}

		return run.Run()
	},
}

// applyGenerateFlags overrides config file values with any flags that were
// set explicitly on the command line.
func applyGenerateFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("paths") {
		cfg.Paths = generatePaths
	}
	if cmd.Flags().Changed("excludes") {
		cfg.Excludes = generateExcludes
	}
	if cmd.Flags().Changed("clean") {
		cfg.Clean = generateClean
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = generateOutput
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Recursive = generateRecurse
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringSliceVarP(&generatePaths, "paths", "p", []string{"**/*.capnp"}, "Glob expressions that match schema files")
	generateCmd.Flags().StringSliceVarP(&generateExcludes, "excludes", "e", nil, "Glob expressions to exclude from path matches")
	generateCmd.Flags().StringSliceVarP(&generateClean, "clean", "c", nil, "Glob expressions matching files to delete before generation")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output directory, defaults to the schema file's directory")
	generateCmd.Flags().BoolVarP(&generateRecurse, "recursive", "r", true, "Recursively search for schema files")
}
