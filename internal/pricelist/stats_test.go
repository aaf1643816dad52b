package pricelist

import (
	"testing"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateAnomalies(t *testing.T) {
	records := []models.PriceRecord{
		{Status: models.StatusAnomaly, IsMatched: true, AnomalyTypes: []models.AnomalyType{models.AnomalyBarcodeChange, models.AnomalyNameChange}},
		{Status: models.StatusAnomaly, IsMatched: false, AnomalyTypes: []models.AnomalyType{models.AnomalyBarcodeChange}},
		// new items keep their flags but are not anomalies
		{Status: models.StatusNew, IsMatched: true, AnomalyTypes: []models.AnomalyType{models.AnomalyPackSizeChange}},
		{Status: models.StatusIncreased, IsMatched: false},
	}

	stats := AggregateAnomalies(records)

	assert.Equal(t, models.AnomalyStats{
		TotalAnomalies: 2,
		NameChanges:    1,
		BarcodeChanges: 2,
		Unmatched:      2,
	}, stats)
}

func TestSummarize(t *testing.T) {
	_, records, err := Build([]RawRow{
		{"SKU": "A", "OldPrice": 10.0, "NewPrice": 12.0, "RRP": 20.0},
		{"SKU": "B", "OldPrice": 10.0, "NewPrice": 8.0},
		{"SKU": "C", "OldPrice": 10.0, "NewPrice": 0.0},
	})
	require.NoError(t, err)

	s := Summarize(records)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.ByStatus[models.StatusIncreased])
	assert.Equal(t, 1, s.ByStatus[models.StatusDecreased])
	assert.Equal(t, 1, s.ByStatus[models.StatusDiscontinued])
	// -24 + 24 - 120
	assertDecimal(t, "-120", s.TotalImpact)
	// (20 + -20) / 2
	assertDecimal(t, "0", s.AvgDifference)
	assert.Equal(t, 1, s.WithMargins)
	assertDecimal(t, "-10", s.AvgMarginShift)
}
