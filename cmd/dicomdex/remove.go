package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/catalog"
	"dicomdex/internal/config"
)

func removeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove entries and the files stored for them",
	}
	cmd.AddCommand(removePatientCmd())
	cmd.AddCommand(removeStudyCmd())
	cmd.AddCommand(removeSeriesCmd())
	return cmd
}

func removePatientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patient <uid>",
		Short: "Remove a patient with all studies, series and instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, "patient", args[0], func(ctx context.Context, db *catalog.Database, uid string) (bool, error) {
				return db.RemovePatient(ctx, uid)
			})
		},
	}
}

func removeStudyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "study <uid>",
		Short: "Remove a study with all series and instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, "study", args[0], func(ctx context.Context, db *catalog.Database, uid string) (bool, error) {
				return db.RemoveStudy(ctx, uid)
			})
		},
	}
}

func removeSeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series <uid>",
		Short: "Remove a series with all instances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, "series", args[0], func(ctx context.Context, db *catalog.Database, uid string) (bool, error) {
				return db.RemoveSeries(ctx, uid)
			})
		},
	}
}

func runRemove(cmd *cobra.Command, level, uid string, remove func(context.Context, *catalog.Database, string) (bool, error)) error {
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

	removed, err := remove(ctx, db, uid)
	if err != nil {
		return err
	}
	if !removed {
		if msg := db.LastError(); msg != "" {
			return fmt.Errorf("removing %s %s: %s", level, uid, msg)
		}
		fmt.Fprintf(os.Stdout, "No %s found for %q.\n", level, uid)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Removed %s %s.\n", level, uid)
	return nil
}
