package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func cleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Reconcile database rows with the files on disk",
		Args:  cobra.NoArgs,
		RunE:  runCleanup,
	}
	return cmd
}

func runCleanup(cmd *cobra.Command, args []string) error {
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

	result, err := db.Cleanup(ctx)
	if err != nil {
		return err
	}

	if result.InstancesRemoved == 0 && result.FilesRemoved == 0 {
		fmt.Fprintln(os.Stdout, "Nothing to reconcile.")
		return nil
	}

	fmt.Fprintln(os.Stdout, "Cleanup complete.")
	fmt.Fprintf(os.Stdout, "  Instances removed: %d\n", result.InstancesRemoved)
	fmt.Fprintf(os.Stdout, "  Files removed:     %d\n", result.FilesRemoved)
	return nil
}
