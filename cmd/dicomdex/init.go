package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var databasePath string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a dicomdex project configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(databasePath)
		},
	}
	cmd.Flags().StringVar(&databasePath, "database", "./dicomdex.db", "Database file path")
	return cmd
}

func runInit(databasePath string) error {
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("%s already exists", configFile)
	}

	contents := fmt.Sprintf("version: 1\n\ndatabase:\n  path: %s\n\ningest:\n  store_files: true\n  thumbnails: false\n\nexclude:\n  - DICOMDIR\n", databasePath)
	if err := os.WriteFile(configFile, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}

	return nil
}
