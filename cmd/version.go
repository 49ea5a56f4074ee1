/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tristendillon/capnp-stubgen/core/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of capnp-stubgen",
	Long:  `Displays the version of capnp-stubgen.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("capnp-stubgen %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
