package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campusinsights/dwh-cli/internal/export"
	"github.com/campusinsights/dwh-cli/internal/pipeline"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Normalize and aggregate the source into a cleaned snapshot",
	Long:  "Reads the source spreadsheet, merges rows per student-year, and writes the cleaned CSV (optionally XLSX) plus a JSON data-quality report.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := readSource()
		if err != nil {
			return err
		}

		res := pipeline.Run(records, pipeline.Options{
			Source:  sourcePath(),
			Variant: warehouse.Variant(cfg.Warehouse.SubjectVariant),
			ListSep: cfg.Output.ListSep,
		})

		csvPath := filepath.Join(cfg.Output.CleanDir, "etudiants_clean_annee.csv")
		if err := export.WriteCanonicalCSV(csvPath, res.Canonical, cfg.ExportSeparator()); err != nil {
			return err
		}
		if cfg.Output.WriteXLSX {
			xlsxPath := filepath.Join(cfg.Output.CleanDir, "etudiants_clean_annee.xlsx")
			if err := export.WriteCanonicalXLSX(xlsxPath, res.Canonical); err != nil {
				return err
			}
		}

		reportPath := filepath.Join(cfg.Output.CleanDir, "data_quality_report.json")
		if err := res.Report.WriteJSON(reportPath); err != nil {
			return err
		}

		zap.L().Info("clean complete",
			zap.Int("rows_in", res.Report.RowsIn),
			zap.Int("rows_canonical", res.Report.RowsCanonical),
			zap.String("csv", csvPath),
			zap.String("report", reportPath),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
