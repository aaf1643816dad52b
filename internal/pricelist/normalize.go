package pricelist

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
)

// Normalizer maps raw rows onto canonical records using an alias set.
type Normalizer struct {
	Aliases AliasSet
}

// NewNormalizer creates a normalizer for the given aliases.
func NewNormalizer(aliases AliasSet) *Normalizer {
	return &Normalizer{Aliases: aliases}
}

// Normalize converts one raw row. It never fails: missing or malformed
// cells become empty strings and zero prices.
func (n *Normalizer) Normalize(row RawRow, schema Schema) models.PriceRecord {
	a := n.Aliases
	oldCols, newCols := a.priceAliases(schema)

	rec := models.PriceRecord{
		SKU:      getString(row, a.SKU),
		OldPrice: getPrice(row, oldCols),
		NewPrice: getPrice(row, newCols),
		OldIdentity: models.Identity{
			SupplierCode: getString(row, a.OldSupplierCode),
			Barcode:      getString(row, a.OldBarcode),
			PackSize:     getString(row, a.OldPackSize),
			Title:        getString(row, a.OldTitle),
		},
		NewIdentity: models.Identity{
			SupplierCode: getString(row, a.NewSupplierCode),
			Barcode:      getString(row, a.NewBarcode),
			PackSize:     getString(row, a.NewPackSize),
			Title:        getString(row, a.NewTitle),
		},
		RetailPrice: getDecimal(row, a.RetailPrice),
	}

	rec.Name = rec.NewIdentity.Title
	if rec.Name == "" {
		rec.Name = rec.OldIdentity.Title
	}
	rec.IsMatched = rec.SKU != ""

	return rec
}

// lookup returns the first non-blank value among the candidate columns.
func lookup(row RawRow, cols []string) (any, bool) {
	for _, col := range cols {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// getString safely extracts a string from the row.
func getString(row RawRow, cols []string) string {
	v, ok := lookup(row, cols)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		// Barcodes read from numeric cells must not turn into 5.01e+12.
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

var priceCleaner = strings.NewReplacer("$", "", "€", "", "£", "", " ", "", "\u00a0", "")

// Accepted price notations: 1,234.50 and 1.234,56 and 12,50.
var (
	commaGrouped = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)
	dotGrouped   = regexp.MustCompile(`^[-+]?\d{1,3}(\.\d{3})+,\d+$`)
	commaDecimal = regexp.MustCompile(`^[-+]?\d+,\d{1,2}$`)
)

// parsePrice reads a price cell in either 1,234.50 or 1.234,56 notation.
// Commas that are neither grouping nor a one or two digit decimal part make
// the cell non-numeric.
func parsePrice(s string) (decimal.Decimal, error) {
	s = priceCleaner.Replace(strings.TrimSpace(s))
	switch {
	case commaGrouped.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case dotGrouped.MatchString(s):
		s = strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
	case commaDecimal.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// getDecimal safely extracts a decimal from the row. Returns nil when no
// candidate column holds a number.
func getDecimal(row RawRow, cols []string) *decimal.Decimal {
	v, ok := lookup(row, cols)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case decimal.Decimal:
		return &t
	case float64:
		d := decimal.NewFromFloat(t)
		return &d
	case int:
		d := decimal.NewFromInt(int64(t))
		return &d
	case int64:
		d := decimal.NewFromInt(t)
		return &d
	case string:
		d, err := parsePrice(t)
		if err != nil {
			return nil
		}
		return &d
	}
	return nil
}

// getPrice is getDecimal with a zero default.
func getPrice(row RawRow, cols []string) decimal.Decimal {
	if d := getDecimal(row, cols); d != nil {
		return *d
	}
	return decimal.Zero
}
