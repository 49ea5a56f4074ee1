/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tristendillon/capnp-stubgen/core/logger"
)

var rootCmd = &cobra.Command{
	Use:   "capnp-stubgen",
	Short: "Generate Python type stubs for capnp schema files.",
	Long: `capnp-stubgen turns parsed Cap'n Proto schemas into Python stubs:
a .pyi declaration surface for static type checking, and a companion .py
loader that binds the same names to the runtime-loaded schema.`,
}

var logfile string
var verbose bool

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func setupLogging() error {
	logger.SetVerbose(verbose)
	logger.SetErrorWriter()

	if logfile != "" {
		file, err := os.OpenFile(logfile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logger.AddWriterForAll(file)
	}

	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}
