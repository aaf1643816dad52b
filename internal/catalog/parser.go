package catalog

import (
	"strings"
	"time"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
)

// getDecimal safely parses an optional price string.
func getDecimal(s *string) *decimal.Decimal {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return nil
	}
	return &d
}

// getTime safely parses an optional timestamp.
func getTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, *s); err == nil {
			return &t
		}
	}
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseVariants converts a page of variants into catalog records. Variants
// with neither SKU nor barcode can never be matched and are skipped.
func ParseVariants(variants []Variant) []models.PriceRecord {
	records := make([]models.PriceRecord, 0, len(variants))
	for _, v := range variants {
		sku := strings.TrimSpace(v.SKU)
		barcode := strings.TrimSpace(v.Barcode)
		if sku == "" && barcode == "" {
			continue
		}

		price := decimal.Zero
		if p := getDecimal(v.Price); p != nil {
			price = *p
		}
		id := models.Identity{Barcode: barcode, Title: v.Title}

		rec := models.PriceRecord{
			SKU:         sku,
			Name:        v.Title,
			OldPrice:    price,
			NewPrice:    price,
			OldIdentity: id,
			NewIdentity: id,
			Status:      models.StatusUnchanged,
			IsMatched:   true,
			CatalogFields: models.CatalogFields{
				ProductID:       v.ProductID,
				VariantID:       v.ID,
				InventoryItemID: v.InventoryItemID,
				InventoryLevel:  v.InventoryQuantity,
				CompareAtPrice:  getDecimal(v.CompareAtPrice),
				Tags:            splitTags(v.Tags),
				HistoricalSales: v.HistoricalSales,
				LastOrderDate:   getTime(v.LastOrderDate),
				Vendor:          v.Vendor,
			},
		}
		if len(v.Metafields) > 0 {
			rec.Metafields = make(map[string]string, len(v.Metafields))
			for _, m := range v.Metafields {
				rec.Metafields[m.Namespace+"."+m.Key] = m.Value
			}
		}
		records = append(records, rec)
	}
	return records
}
