package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func queryPatientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patients",
		Short: "List patients in the catalog",
		Args:  cobra.NoArgs,
		RunE:  runQueryPatients,
	}
}

func runQueryPatients(cmd *cobra.Command, args []string) error {
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

	patients, err := db.Patients(ctx)
	if err != nil {
		return err
	}
	if len(patients) == 0 {
		fmt.Fprintln(os.Stdout, "No patients found.")
		return nil
	}

	for _, patient := range patients {
		fmt.Fprintln(os.Stdout, patient)
	}
	return nil
}
