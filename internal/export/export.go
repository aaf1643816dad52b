// Package export projects canonical records into the commerce platform's
// product import layout.
package export

import (
	"encoding/csv"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Columns of the import sheet, in order.
var Columns = []string{
	"Handle",
	"Title",
	"Variant Price",
	"Variant Compare At Price",
	"Variant SKU",
	"Variant Barcode",
	"Vendor",
	"Tags",
	"Published",
	"Variant Inventory Qty",
}

const (
	tagPriceUpdated = "price_updated"
	tagNew          = "new"
	sheetName       = "Products"
)

// Row is one import line keyed by column name.
type Row map[string]string

var whitespace = regexp.MustCompile(`\s+`)

// Handle derives the product handle from a SKU.
func Handle(sku string) string {
	return whitespace.ReplaceAllString(strings.ToLower(sku), "-")
}

// FormatRows maps every record to an import row, in order. Nothing is
// validated or filtered.
func FormatRows(records []models.PriceRecord) []Row {
	rows := make([]Row, 0, len(records))
	for i := range records {
		rows = append(rows, formatRow(&records[i]))
	}
	return rows
}

func formatRow(rec *models.PriceRecord) Row {
	compareAt := ""
	if rec.OldPrice.GreaterThan(rec.NewPrice) {
		compareAt = rec.OldPrice.StringFixed(2)
	}

	tags := []string{tagPriceUpdated}
	if rec.Status == models.StatusNew {
		tags = append(tags, tagNew)
	}

	barcode := rec.NewIdentity.Barcode
	if barcode == "" {
		barcode = rec.OldIdentity.Barcode
	}

	qty := 0
	if rec.InventoryLevel != nil {
		qty = *rec.InventoryLevel
	}

	return Row{
		"Handle":                   Handle(rec.SKU),
		"Title":                    rec.Name,
		"Variant Price":            rec.NewPrice.StringFixed(2),
		"Variant Compare At Price": compareAt,
		"Variant SKU":              rec.SKU,
		"Variant Barcode":          barcode,
		"Vendor":                   rec.Vendor,
		"Tags":                     strings.Join(tags, ", "),
		"Published":                "TRUE",
		"Variant Inventory Qty":    strconv.Itoa(qty),
	}
}

func (r Row) values() []string {
	out := make([]string, len(Columns))
	for i, col := range Columns {
		out[i] = r[col]
	}
	return out
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return eris.Wrap(err, "write csv header")
	}
	for _, r := range rows {
		if err := cw.Write(r.values()); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "flush csv")
	}
	return nil
}

// WriteXLSX writes the rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return eris.Wrap(err, "name sheet")
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return eris.Wrap(err, "open stream writer")
	}

	if err := sw.SetRow("A1", toCells(Columns)); err != nil {
		return eris.Wrap(err, "write header")
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return eris.Wrapf(err, "row %d", i)
		}
		if err := sw.SetRow(cell, toCells(r.values())); err != nil {
			return eris.Wrapf(err, "write row %d", i)
		}
	}
	if err := sw.Flush(); err != nil {
		return eris.Wrap(err, "flush sheet")
	}

	if _, err := f.WriteTo(w); err != nil {
		return eris.Wrap(err, "write workbook")
	}
	return nil
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
