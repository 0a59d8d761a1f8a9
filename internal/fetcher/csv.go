package fetcher

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"

	"github.com/campusinsights/dwh-cli/internal/model"
)

// ReadCSVSource reads a CSV source file; the first row is the header.
// A UTF-8 byte-order mark is tolerated.
func ReadCSVSource(path string, opts Options) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open csv %s", path)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}

	r := csv.NewReader(br)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	if opts.Comma != 0 {
		r.Comma = opts.Comma
	}

	header, err := r.Read()
	if err == io.EOF {
		return nil, eris.Errorf("fetcher: source %s is empty", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read csv header from %s", path)
	}

	var rows [][]string
	for {
		cells, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: read csv row from %s", path)
		}
		rows = append(rows, cells)
	}

	return toRecords(header, rows, path)
}
