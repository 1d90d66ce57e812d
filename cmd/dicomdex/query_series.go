package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func querySeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series <study-uid>",
		Short: "List series of a study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuerySeries(cmd, args[0])
		},
	}
}

func runQuerySeries(cmd *cobra.Command, studyUID string) error {
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

	series, err := db.SeriesForStudy(ctx, studyUID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		fmt.Fprintf(os.Stdout, "No series found for %q.\n", studyUID)
		return nil
	}

	for _, uid := range series {
		fmt.Fprintln(os.Stdout, uid)
	}
	return nil
}
