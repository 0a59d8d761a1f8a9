package main

import (
	"github.com/rotisserie/eris"

	"github.com/campusinsights/dwh-cli/internal/fetcher"
	"github.com/campusinsights/dwh-cli/internal/model"
)

var flagSourcePath string

// sourcePath resolves the input resource from the flag or configuration.
func sourcePath() string {
	if flagSourcePath != "" {
		return flagSourcePath
	}
	return cfg.Source.Path
}

// readSource reads the configured source into raw records.
func readSource() ([]model.RawRecord, error) {
	path := sourcePath()
	if path == "" {
		return nil, eris.New("source path is required (--source or DWH_SOURCE_PATH)")
	}
	return fetcher.ReadSource(path, fetcher.Options{
		SheetName: cfg.Source.Sheet,
		Comma:     cfg.CSVSeparator(),
	})
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSourcePath, "source", "", "path to the source file (overrides config)")
}
