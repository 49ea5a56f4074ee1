/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tristendillon/capnp-stubgen/core/config"
	"github.com/tristendillon/capnp-stubgen/core/logger"
)

var force bool

const configScaffold = `# capnp-stubgen configuration
paths:
  - "**/*.capnp"
excludes: []
clean: []
# output: generated
recursive: true
parser:
  # Command that prints the serialized schema graph for a schema file.
  command: ["capnp-graph"]
format:
  # Optional best-effort cosmetic passes applied to written stub files.
  command: []
  import_sorter: []
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold a stubgen.yaml in the current directory",
	Long:  `Creates a stubgen.yaml config file with the default generation settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(); err != nil {
			return err
		}
		logger.Debug("init called")

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		path := filepath.Join(wd, config.FileName)
		if _, err := os.Stat(path); err == nil && !force {
			fmt.Printf("%s already exists. Use --force to overwrite.\n", config.FileName)
			return nil
		}

		if err := os.WriteFile(path, []byte(configScaffold), 0o644); err != nil {
			return err
		}

		fmt.Printf("Wrote %s\n", path)
		fmt.Printf("Next Steps:\n")
		fmt.Printf("  - configure parser.command\n")
		fmt.Printf("  - capnp-stubgen generate\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&force, "force", false, "Force overwrite existing files")
}
