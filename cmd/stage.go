package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campusinsights/dwh-cli/internal/pipeline"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Load the cleaned snapshot into the staging table",
	Long:  "Runs normalization and aggregation, then rebuilds the staging relation (ods.etudiants_clean) from the canonical rows in fixed-size batches.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := readSource()
		if err != nil {
			return err
		}

		res := pipeline.Run(records, pipeline.Options{
			Source:  sourcePath(),
			Variant: warehouse.Variant(cfg.Warehouse.SubjectVariant),
			ListSep: cfg.Output.ListSep,
		})

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.LoadStaging(ctx, res.Canonical)
		if err != nil {
			return err
		}

		zap.L().Info("stage complete",
			zap.Int("rows_in", res.Report.RowsIn),
			zap.Int64("rows_staged", n),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)
}
