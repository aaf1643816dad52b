package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the change classification of a price-list row.
type Status string

const (
	StatusUnchanged    Status = "unchanged"
	StatusIncreased    Status = "increased"
	StatusDecreased    Status = "decreased"
	StatusNew          Status = "new"
	StatusDiscontinued Status = "discontinued"
	StatusAnomaly      Status = "anomaly"
)

// AnomalyType names an identity field that drifted between the old and new row.
type AnomalyType string

const (
	AnomalyNameChange         AnomalyType = "name_change"
	AnomalySupplierCodeChange AnomalyType = "supplier_code_change"
	AnomalyBarcodeChange      AnomalyType = "barcode_change"
	AnomalyPackSizeChange     AnomalyType = "pack_size_change"
)

// Identity holds the descriptive fields used to tell whether a row still
// describes the same item.
type Identity struct {
	SupplierCode string `json:"supplierCode,omitempty"`
	Barcode      string `json:"barcode,omitempty"`
	PackSize     string `json:"packSize,omitempty"`
	Title        string `json:"title,omitempty"`
}

// PriceRecord is the canonical form of one supplier price-list row.
type PriceRecord struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	OldPrice    decimal.Decimal  `json:"oldPrice"`
	NewPrice    decimal.Decimal  `json:"newPrice"`
	OldIdentity Identity         `json:"oldIdentity"`
	NewIdentity Identity         `json:"newIdentity"`
	RetailPrice *decimal.Decimal `json:"retailPrice,omitempty"`

	Status          Status           `json:"status"`
	Difference      decimal.Decimal  `json:"difference"`      // percent
	PotentialImpact decimal.Decimal  `json:"potentialImpact"` // annualized, negative = cost increase
	OldMargin       *decimal.Decimal `json:"oldMargin,omitempty"`
	NewMargin       *decimal.Decimal `json:"newMargin,omitempty"`
	MarginChange    *decimal.Decimal `json:"marginChange,omitempty"`
	AnomalyTypes    []AnomalyType    `json:"anomalyType,omitempty"`
	IsMatched       bool             `json:"isMatched"`

	CatalogFields
}

// CatalogFields are only known once a record has been matched against the
// live catalog.
type CatalogFields struct {
	ProductID       string            `json:"productId,omitempty"`
	VariantID       string            `json:"variantId,omitempty"`
	InventoryItemID string            `json:"inventoryItemId,omitempty"`
	InventoryLevel  *int              `json:"inventoryLevel,omitempty"`
	CompareAtPrice  *decimal.Decimal  `json:"compareAtPrice,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	HistoricalSales *int              `json:"historicalSales,omitempty"`
	LastOrderDate   *time.Time        `json:"lastOrderDate,omitempty"`
	Vendor          string            `json:"vendor,omitempty"`
	Metafields      map[string]string `json:"metafields,omitempty"`
}

// HasAnomaly reports whether t is among the record's anomaly flags.
func (r *PriceRecord) HasAnomaly(t AnomalyType) bool {
	for _, a := range r.AnomalyTypes {
		if a == t {
			return true
		}
	}
	return false
}

// AnomalyStats counts anomalies across a record set.
type AnomalyStats struct {
	TotalAnomalies      int `json:"totalAnomalies"`
	NameChanges         int `json:"nameChanges"`
	SupplierCodeChanges int `json:"supplierCodeChanges"`
	BarcodeChanges      int `json:"barcodeChanges"`
	PackSizeChanges     int `json:"packSizeChanges"`
	Unmatched           int `json:"unmatched"`
}

// CatalogSnapshot describes one stored pull of the live catalog.
type CatalogSnapshot struct {
	Variants  int       `json:"variants"`
	FetchedAt time.Time `json:"fetched_at"`
}
