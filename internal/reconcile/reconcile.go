// Package reconcile left-merges a freshly parsed price list with records
// from the live catalog.
package reconcile

import (
	"maps"
	"slices"

	"github.com/mauv0809/pricelist/internal/models"
)

// Result summarizes one reconciliation pass.
type Result struct {
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	// DuplicateKeys lists catalog SKUs and barcodes carried by more than one
	// catalog record. The first record in catalog order is the one used.
	DuplicateKeys []string `json:"duplicateKeys,omitempty"`
}

// Reconcile enriches primary in place. Each record is matched to the first
// catalog record with the same SKU, or failing that the same old barcode;
// only catalog fields are copied and IsMatched is set to whether a match
// was found. catalog is read only and no primary record is dropped.
// Running it twice against the same catalog changes nothing.
func Reconcile(primary, catalog []models.PriceRecord) Result {
	idx := newIndex(catalog)

	res := Result{DuplicateKeys: idx.duplicates}
	for i := range primary {
		rec := &primary[i]
		match, ok := idx.find(rec)
		if !ok {
			rec.IsMatched = false
			res.Unmatched++
			continue
		}
		rec.CatalogFields = cloneCatalogFields(match.CatalogFields)
		rec.IsMatched = true
		res.Matched++
	}
	return res
}

type index struct {
	catalog    []models.PriceRecord
	bySKU      map[string]int
	byBarcode  map[string]int
	duplicates []string
}

func newIndex(catalog []models.PriceRecord) *index {
	idx := &index{
		catalog:   catalog,
		bySKU:     make(map[string]int, len(catalog)),
		byBarcode: make(map[string]int, len(catalog)),
	}
	seenDup := make(map[string]struct{})
	add := func(m map[string]int, kind, key string, i int) {
		if key == "" {
			return
		}
		if _, exists := m[key]; exists {
			label := kind + ":" + key
			if _, reported := seenDup[label]; !reported {
				seenDup[label] = struct{}{}
				idx.duplicates = append(idx.duplicates, label)
			}
			return
		}
		m[key] = i
	}
	for i := range catalog {
		add(idx.bySKU, "sku", catalog[i].SKU, i)
		add(idx.byBarcode, "barcode", catalog[i].OldIdentity.Barcode, i)
	}
	return idx
}

func (idx *index) find(rec *models.PriceRecord) (*models.PriceRecord, bool) {
	if rec.SKU != "" {
		if i, ok := idx.bySKU[rec.SKU]; ok {
			return &idx.catalog[i], true
		}
	}
	if rec.OldIdentity.Barcode != "" {
		if i, ok := idx.byBarcode[rec.OldIdentity.Barcode]; ok {
			return &idx.catalog[i], true
		}
	}
	return nil, false
}

// cloneCatalogFields copies c so the primary record never aliases catalog
// slices, maps or pointers.
func cloneCatalogFields(c models.CatalogFields) models.CatalogFields {
	out := c
	out.InventoryLevel = clonePtr(c.InventoryLevel)
	out.CompareAtPrice = clonePtr(c.CompareAtPrice)
	out.HistoricalSales = clonePtr(c.HistoricalSales)
	out.LastOrderDate = clonePtr(c.LastOrderDate)
	out.Tags = slices.Clone(c.Tags)
	out.Metafields = maps.Clone(c.Metafields)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
