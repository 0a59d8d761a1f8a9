package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/campusinsights/dwh-cli/internal/pipeline"
	"github.com/campusinsights/dwh-cli/internal/store"
	"github.com/campusinsights/dwh-cli/internal/warehouse"
)

var buildWithStaging bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the dimensional warehouse from the source",
	Long:  "Runs the full pipeline and destructively republishes the warehouse schema in a single transaction; readers see the prior warehouse until the rebuild commits.",
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

		if buildWithStaging {
			if _, err := st.LoadStaging(ctx, res.Canonical); err != nil {
				return err
			}
		}

		run := &store.RunInfo{
			ID:            res.Report.RunID,
			Source:        res.Report.Source,
			Variant:       res.Report.Variant,
			StartedAt:     res.Report.StartedAt,
			FinishedAt:    res.Report.FinishedAt,
			RowsIn:        res.Report.RowsIn,
			RowsCanonical: res.Report.RowsCanonical,
			Facts:         res.Report.Facts,
		}
		if err := st.Rebuild(ctx, res.Snapshot, run); err != nil {
			return err
		}

		zap.L().Info("build complete",
			zap.String("run_id", run.ID),
			zap.Int("rows_in", run.RowsIn),
			zap.Int("rows_canonical", run.RowsCanonical),
			zap.Int("facts", run.Facts),
			zap.String("variant", run.Variant),
		)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildWithStaging, "with-staging", false, "also rebuild the staging table")
	rootCmd.AddCommand(buildCmd)
}
