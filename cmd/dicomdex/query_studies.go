package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func queryStudiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "studies <patient-uid>",
		Short: "List studies of a patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryStudies(cmd, args[0])
		},
	}
}

func runQueryStudies(cmd *cobra.Command, patientUID string) error {
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

	studies, err := db.StudiesForPatient(ctx, patientUID)
	if err != nil {
		return err
	}
	if len(studies) == 0 {
		fmt.Fprintf(os.Stdout, "No studies found for %q.\n", patientUID)
		return nil
	}

	for _, study := range studies {
		fmt.Fprintln(os.Stdout, study)
	}
	return nil
}
