package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query the catalog from the CLI",
	}
	cmd.AddCommand(queryPatientsCmd())
	cmd.AddCommand(queryStudiesCmd())
	cmd.AddCommand(querySeriesCmd())
	cmd.AddCommand(queryFilesCmd())
	cmd.AddCommand(queryValueCmd())
	cmd.AddCommand(queryHeaderCmd())
	cmd.AddCommand(querySQLCmd())
	return cmd
}
