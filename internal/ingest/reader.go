package ingest

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrNoSheets is returned for a workbook without any worksheet.
	ErrNoSheets = eris.New("workbook has no sheets")
	// ErrNoRows is returned when the first sheet has no data rows.
	ErrNoRows = pricelist.ErrNoRows
)

// ReadRows parses an uploaded price list into raw rows, first sheet only,
// first row as header. CSV is chosen by the .csv extension, everything else
// is opened as a workbook. The whole file is parsed or the call fails;
// cancelling ctx abandons the parse.
func ReadRows(ctx context.Context, r io.Reader, filename string) ([]pricelist.RawRow, error) {
	type result struct {
		rows []pricelist.RawRow
		err  error
	}

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrapf(err, "reading %s", filename)
	}

	done := make(chan result, 1)
	go func() {
		rows, err := parse(r, filename)
		done <- result{rows: rows, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, eris.Wrapf(ctx.Err(), "reading %s", filename)
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		log.Debug().Str("file", filename).Int("rows", len(res.rows)).Msg("parsed price list")
		return res.rows, nil
	}
}

// ReadFile opens path and hands it to ReadRows.
func ReadFile(ctx context.Context, path string) ([]pricelist.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	return ReadRows(ctx, f, filepath.Base(path))
}

func parse(r io.Reader, filename string) ([]pricelist.RawRow, error) {
	var (
		grid [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		grid, err = readCSV(r)
	} else {
		grid, err = readWorkbook(r)
	}
	if err != nil {
		return nil, err
	}
	return gridToRows(grid)
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	// Raw values keep long barcodes and unformatted prices intact.
	grid, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, eris.Wrapf(err, "read sheet %q", sheets[0])
	}
	return grid, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	grid, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "read csv")
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		grid[0][0] = strings.TrimPrefix(grid[0][0], "\ufeff")
	}
	return grid, nil
}

// gridToRows keys each data row by the header row. Blank header cells are
// dropped, a repeated header keeps its first column, and fully blank rows
// are skipped.
func gridToRows(grid [][]string) ([]pricelist.RawRow, error) {
	if len(grid) == 0 {
		return nil, ErrNoRows
	}

	header := make([]string, len(grid[0]))
	seen := make(map[string]struct{}, len(grid[0]))
	for i, h := range grid[0] {
		h = strings.TrimSpace(h)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		header[i] = h
	}

	rows := make([]pricelist.RawRow, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(pricelist.RawRow, len(cells))
		blank := true
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
			row[header[i]] = cell
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}
