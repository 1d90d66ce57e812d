package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/catalog"
	"dicomdex/internal/config"
)

func queryHeaderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "header <sop-uid|file>",
		Short: "Dump the header of an instance or DICOM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryHeader(cmd, args[0])
		},
	}
}

func runQueryHeader(cmd *cobra.Command, target string) error {
	// A target naming a file on disk is read directly, no open store
	// needed. Anything else is resolved as a SOP instance UID.
	if info, err := os.Stat(target); err == nil && info.Mode().IsRegular() {
		db := catalog.New()
		if err := db.LoadFileHeader(target); err != nil {
			return err
		}
		return printHeader(db, target)
	}

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

	if err := db.LoadInstanceHeader(ctx, target); err != nil {
		return err
	}
	return printHeader(db, target)
}

func printHeader(db *catalog.Database, target string) error {
	keys := db.HeaderKeys()
	if len(keys) == 0 {
		fmt.Fprintf(os.Stdout, "No header loaded for %s.\n", target)
		return nil
	}

	for _, key := range keys {
		fmt.Fprintf(os.Stdout, "%s: %s\n", key, db.HeaderValue(key))
	}
	return nil
}
