// Package export writes warehouse content to flat files for external
// reporting tools: one CSV per relation plus the flattened fact view. It is
// a pure read-side projection over the store.
package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/campusinsights/dwh-cli/internal/store"
)

// utf8BOM keeps exported files readable in spreadsheet tools that sniff
// encodings.
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Exporter dumps warehouse relations to a directory.
type Exporter struct {
	store store.Store
	dir   string
	sep   rune
}

// New creates an exporter writing into dir with the given field separator.
func New(s store.Store, dir string, sep rune) *Exporter {
	if sep == 0 {
		sep = ','
	}
	return &Exporter{store: s, dir: dir, sep: sep}
}

// ExportAll writes every warehouse table plus the flat view. Tables are
// independent read-only projections, so they export concurrently.
func (e *Exporter) ExportAll(ctx context.Context) error {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return eris.Wrapf(err, "export: create dir %s", e.dir)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, table := range e.store.TableNames() {
		g.Go(func() error {
			cols, rows, err := e.store.ReadTable(ctx, table)
			if err != nil {
				return err
			}
			return e.writeCSV(table+".csv", cols, rows)
		})
	}
	g.Go(func() error {
		cols, rows, err := e.store.ReadFlat(ctx)
		if err != nil {
			return err
		}
		return e.writeCSV("dwh_flat.csv", cols, rows)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	zap.L().Info("export: complete", zap.String("dir", e.dir))
	return nil
}

func (e *Exporter) writeCSV(name string, cols []string, rows [][]string) error {
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return eris.Wrapf(err, "export: write BOM to %s", path)
	}

	w := csv.NewWriter(f)
	w.Comma = e.sep
	if err := w.Write(cols); err != nil {
		return eris.Wrapf(err, "export: write header to %s", path)
	}
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrapf(err, "export: write rows to %s", path)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}

	zap.L().Info("export: file written",
		zap.String("file", path),
		zap.Int("rows", len(rows)),
	)
	return nil
}
