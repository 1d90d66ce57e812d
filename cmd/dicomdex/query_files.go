package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func queryFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files <series-uid>",
		Short: "List instance files of a series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryFiles(cmd, args[0])
		},
	}
}

func runQueryFiles(cmd *cobra.Command, seriesUID string) error {
	ctx := context.Background()

	cfg, err := config.LoadProjectConfig(configFile)
	if err != nil {
		return err
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	files, err := db.FilesForSeries(ctx, seriesUID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stdout, "No instances found for %q.\n", seriesUID)
		return nil
	}

	for _, file := range files {
		if file == "" {
			file = "(not stored)"
		}
		fmt.Fprintln(os.Stdout, file)
	}
	return nil
}
