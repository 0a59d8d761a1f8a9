package main

import (
	"github.com/spf13/cobra"

	"github.com/campusinsights/dwh-cli/internal/export"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export warehouse tables and the flat view to CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dir := exportDir
		if dir == "" {
			dir = cfg.Output.ExportDir
		}

		return export.New(st, dir, cfg.ExportSeparator()).ExportAll(ctx)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (overrides config)")
	rootCmd.AddCommand(exportCmd)
}
