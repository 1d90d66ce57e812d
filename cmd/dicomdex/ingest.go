package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
	"dicomdex/internal/ingest"
)

func ingestCmd() *cobra.Command {
	var noStore bool
	var thumbnails bool
	var force bool
	cmd := &cobra.Command{
		Use:   "ingest <path>...",
		Short: "Index DICOM files from directories or single files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args, noStore, thumbnails, force)
		},
	}
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Index files in place instead of copying them into the archive")
	cmd.Flags().BoolVar(&thumbnails, "thumbnails", false, "Generate thumbnails for ingested instances")
	cmd.Flags().BoolVar(&force, "force", false, "Attempt every file, not only those with a DICM marker")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string, noStore, thumbnails, force bool) error {
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

	options := ingest.Options{
		StoreFiles: cfg.Ingest.StoreFiles && !noStore,
		Thumbnails: cfg.Ingest.Thumbnails || thumbnails,
		Force:      force,
	}
	result, err := ingest.Run(ctx, db, args, cfg.Exclude, options)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "Ingestion complete.")
	fmt.Fprintf(os.Stdout, "  Files ingested: %d\n", result.FilesIngested)
	fmt.Fprintf(os.Stdout, "  Files skipped:  %d\n", result.FilesSkipped)
	fmt.Fprintf(os.Stdout, "  Files failed:   %d\n", result.FilesFailed)

	if len(result.Errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(result.Errors))
		for _, item := range result.Errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("ingestion completed with errors")
	}

	return nil
}
