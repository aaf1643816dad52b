package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/mauv0809/pricelist/internal/reconcile"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, data *IndexData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Index(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestIndex_Empty(t *testing.T) {
	body := render(t, nil)
	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, `action="/api/pricelist/upload"`)
	assert.Contains(t, body, "No price list uploaded yet.")
	assert.NotContains(t, body, "<section>")
}

func TestIndex_Dataset(t *testing.T) {
	body := render(t, &IndexData{
		Filename:   "<b>prices</b>.xlsx",
		Schema:     pricelist.SchemaOldNew,
		UploadedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		Summary: pricelist.Summary{
			Total: 4,
			ByStatus: map[models.Status]int{
				models.StatusIncreased: 3,
				models.StatusAnomaly:   1,
			},
			TotalImpact:    decimal.RequireFromString("-120"),
			AvgDifference:  decimal.RequireFromString("12.5"),
			WithMargins:    2,
			AvgMarginShift: decimal.RequireFromString("-1.25"),
			Anomalies:      models.AnomalyStats{TotalAnomalies: 1, BarcodeChanges: 1, Unmatched: 2},
		},
		Reconciled: &reconcile.Result{Matched: 2, Unmatched: 2, DuplicateKeys: []string{"sku:A1"}},
	})

	assert.Contains(t, body, "<h2>&lt;b&gt;prices&lt;/b&gt;.xlsx</h2>")
	assert.Contains(t, body, "<p>old_new layout, uploaded 01 Oct 26 09:30 UTC, 4 rows</p>")
	assert.Contains(t, body, "<tr><td>increased</td><td>3</td></tr>")
	assert.Contains(t, body, "<tr><td>new</td><td>0</td></tr>")
	assert.Contains(t, body, "Annual impact: -120.00 · average change: 12.50%")
	assert.Contains(t, body, "Average margin shift over 2 rows: -1.25 pts")
	assert.Contains(t, body, "<h3>Anomalies (1)</h3>")
	assert.Contains(t, body, "<li>Barcode: 1</li>")
	assert.Contains(t, body, "<li>Unmatched: 2</li>")
	assert.Contains(t, body, "<p>Catalog: 2 matched, 2 unmatched</p>")
	assert.Contains(t, body, "Duplicate catalog keys: sku:A1")
}

func TestIndex_OptionalSections(t *testing.T) {
	body := render(t, &IndexData{Filename: "a.csv", Schema: pricelist.SchemaSinglePrice})
	assert.NotContains(t, body, "Average margin shift")
	assert.NotContains(t, body, "Catalog:")
	assert.Contains(t, body, "Download import sheet")
}

func TestIndex_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, Index(nil).Render(ctx, &buf), context.Canceled)
}
