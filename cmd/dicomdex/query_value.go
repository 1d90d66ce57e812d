package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func queryValueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "value <sop-uid> <tag>",
		Short: "Read a tag value from an instance file",
		Long:  "Read a tag value from the file indexed for an instance. The tag is a GGGG,EEEE hex pair or a DICOM keyword such as PatientName.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryValue(cmd, args[0], args[1])
		},
	}
}

func runQueryValue(cmd *cobra.Command, sopUID, tag string) error {
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

	value, err := db.InstanceValue(ctx, sopUID, tag)
	if err != nil {
		return err
	}
	if value == "" {
		fmt.Fprintf(os.Stdout, "No value found for %s on %q.\n", tag, sopUID)
		return nil
	}

	fmt.Fprintln(os.Stdout, value)
	return nil
}
