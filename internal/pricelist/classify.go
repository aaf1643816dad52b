package pricelist

import (
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ClassifyPrice derives the price-only status. First match wins:
// discontinued, new, increased, decreased, unchanged.
func ClassifyPrice(oldPrice, newPrice decimal.Decimal) models.Status {
	switch {
	case newPrice.IsZero() && oldPrice.IsPositive():
		return models.StatusDiscontinued
	case oldPrice.IsZero() && newPrice.IsPositive():
		return models.StatusNew
	case newPrice.GreaterThan(oldPrice):
		return models.StatusIncreased
	case newPrice.LessThan(oldPrice):
		return models.StatusDecreased
	default:
		return models.StatusUnchanged
	}
}

// Difference is the percentage change from old to new price, or zero when
// either price is not positive.
func Difference(oldPrice, newPrice decimal.Decimal) decimal.Decimal {
	if !oldPrice.IsPositive() || !newPrice.IsPositive() {
		return decimal.Zero
	}
	return newPrice.Sub(oldPrice).Div(oldPrice).Mul(hundred)
}

// DetectAnomalies flags identity fields that are populated on both sides
// and differ. An empty-to-populated transition is not drift.
func DetectAnomalies(oldID, newID models.Identity) []models.AnomalyType {
	pairs := []struct {
		kind     models.AnomalyType
		old, new string
	}{
		{models.AnomalyNameChange, oldID.Title, newID.Title},
		{models.AnomalySupplierCodeChange, oldID.SupplierCode, newID.SupplierCode},
		{models.AnomalyBarcodeChange, oldID.Barcode, newID.Barcode},
		{models.AnomalyPackSizeChange, oldID.PackSize, newID.PackSize},
	}

	var flags []models.AnomalyType
	for _, p := range pairs {
		if p.old != "" && p.new != "" && p.old != p.new {
			flags = append(flags, p.kind)
		}
	}
	return flags
}

// ResolveStatus is the final status of a row. Anomaly flags override every
// price status except new, which has no prior identity to compare against.
func ResolveStatus(oldPrice, newPrice decimal.Decimal, anomalies []models.AnomalyType) models.Status {
	status := ClassifyPrice(oldPrice, newPrice)
	if len(anomalies) > 0 && status != models.StatusNew {
		return models.StatusAnomaly
	}
	return status
}
