package pricelist

import (
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
)

// AggregateAnomalies counts anomalous records per category. Unmatched is
// counted over every record regardless of status.
func AggregateAnomalies(records []models.PriceRecord) models.AnomalyStats {
	var stats models.AnomalyStats
	for i := range records {
		rec := &records[i]
		if !rec.IsMatched {
			stats.Unmatched++
		}
		if rec.Status != models.StatusAnomaly {
			continue
		}
		stats.TotalAnomalies++
		for _, a := range rec.AnomalyTypes {
			switch a {
			case models.AnomalyNameChange:
				stats.NameChanges++
			case models.AnomalySupplierCodeChange:
				stats.SupplierCodeChanges++
			case models.AnomalyBarcodeChange:
				stats.BarcodeChanges++
			case models.AnomalyPackSizeChange:
				stats.PackSizeChanges++
			}
		}
	}
	return stats
}

// Summary is the dashboard headline for a record set.
type Summary struct {
	Total          int                   `json:"total"`
	ByStatus       map[models.Status]int `json:"byStatus"`
	TotalImpact    decimal.Decimal       `json:"totalImpact"`
	AvgDifference  decimal.Decimal       `json:"avgDifference"` // over increased/decreased rows
	Anomalies      models.AnomalyStats   `json:"anomalies"`
	WithMargins    int                   `json:"withMargins"`
	AvgMarginShift decimal.Decimal       `json:"avgMarginShift"`
}

// Summarize rolls a record set up for display.
func Summarize(records []models.PriceRecord) Summary {
	s := Summary{
		Total:     len(records),
		ByStatus:  make(map[models.Status]int),
		Anomalies: AggregateAnomalies(records),
	}

	changed := 0
	diffSum := decimal.Zero
	marginSum := decimal.Zero
	for i := range records {
		rec := &records[i]
		s.ByStatus[rec.Status]++
		s.TotalImpact = s.TotalImpact.Add(rec.PotentialImpact)
		if rec.Status == models.StatusIncreased || rec.Status == models.StatusDecreased {
			changed++
			diffSum = diffSum.Add(rec.Difference)
		}
		if rec.MarginChange != nil {
			s.WithMargins++
			marginSum = marginSum.Add(*rec.MarginChange)
		}
	}

	if changed > 0 {
		s.AvgDifference = diffSum.Div(decimal.NewFromInt(int64(changed))).Round(2)
	}
	if s.WithMargins > 0 {
		s.AvgMarginShift = marginSum.Div(decimal.NewFromInt(int64(s.WithMargins))).Round(2)
	}
	return s
}
