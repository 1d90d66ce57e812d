package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"dicomdex/internal/config"
)

func querySQLCmd() *cobra.Command {
	var params []string
	cmd := &cobra.Command{
		Use:   "sql <query>",
		Short: "Execute a raw SQL query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSQL(cmd, query, params)
		},
	}
	cmd.Flags().StringArrayVar(&params, "param", nil, "Positional query parameter (repeatable)")
	return cmd
}

func runSQL(cmd *cobra.Command, query string, params []string) error {
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

	args := make([]any, 0, len(params))
	for _, param := range params {
		args = append(args, param)
	}

	rows, err := db.RunSQL(ctx, query, args...)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}
