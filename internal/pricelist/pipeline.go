package pricelist

import (
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/rotisserie/eris"
)

// ErrNoRows is returned when a sheet yields no data rows.
var ErrNoRows = eris.New("price list has no rows")

// Build detects the schema from the first row, then normalizes and
// evaluates every row. One record is produced per row, in input order.
func (n *Normalizer) Build(rows []RawRow) (Schema, []models.PriceRecord, error) {
	if len(rows) == 0 {
		return "", nil, ErrNoRows
	}

	schema := DetectSchema(rows[0])
	records := make([]models.PriceRecord, 0, len(rows))
	for _, row := range rows {
		rec := n.Normalize(row, schema)
		Evaluate(&rec)
		records = append(records, rec)
	}
	return schema, records, nil
}

// Build runs the pipeline with DefaultAliases.
func Build(rows []RawRow) (Schema, []models.PriceRecord, error) {
	return NewNormalizer(DefaultAliases).Build(rows)
}
