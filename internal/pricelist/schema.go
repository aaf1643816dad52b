package pricelist

// RawRow is one spreadsheet row keyed by its header cell.
type RawRow map[string]any

// Schema identifies which supplier column-naming convention a sheet uses.
type Schema string

const (
	// SchemaOldNew sheets carry OldPrice and NewPrice columns.
	SchemaOldNew Schema = "old_new"
	// SchemaCurrentUpdated sheets carry Current_Price and Updated_Price columns.
	SchemaCurrentUpdated Schema = "current_updated"
	// SchemaSinglePrice sheets carry one price used as both old and new.
	SchemaSinglePrice Schema = "single_price"
)

// Marker columns checked against the first row.
const (
	markerOldPrice     = "OldPrice"
	markerNewPrice     = "NewPrice"
	markerCurrentPrice = "Current_Price"
	markerUpdatedPrice = "Updated_Price"
)

// DetectSchema picks the column convention from the first row of a sheet.
// Unknown layouts fall back to SchemaSinglePrice, never an error.
func DetectSchema(first RawRow) Schema {
	if hasKey(first, markerOldPrice) || hasKey(first, markerNewPrice) {
		return SchemaOldNew
	}
	if hasKey(first, markerCurrentPrice) || hasKey(first, markerUpdatedPrice) {
		return SchemaCurrentUpdated
	}
	return SchemaSinglePrice
}

func hasKey(row RawRow, key string) bool {
	_, ok := row[key]
	return ok
}
