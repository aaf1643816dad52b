package pricelist

import (
	"testing"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var priceGrid = []string{"-1", "0", "0.01", "5", "10", "12.5"}

func TestClassifyPrice_Properties(t *testing.T) {
	for _, o := range priceGrid {
		for _, n := range priceGrid {
			oldP, newP := dec(o), dec(n)
			status := ClassifyPrice(oldP, newP)

			wantDiscontinued := newP.IsZero() && oldP.IsPositive()
			wantNew := oldP.IsZero() && newP.IsPositive()
			assert.Equal(t, wantDiscontinued, status == models.StatusDiscontinued, "old=%s new=%s", o, n)
			assert.Equal(t, wantNew, status == models.StatusNew, "old=%s new=%s", o, n)

			if !oldP.IsPositive() || !newP.IsPositive() {
				assert.True(t, Difference(oldP, newP).IsZero(), "old=%s new=%s", o, n)
			}
		}
	}
}

func TestClassifyPrice_Order(t *testing.T) {
	tests := []struct {
		old, new string
		want     models.Status
	}{
		{"10", "0", models.StatusDiscontinued},
		{"0", "10", models.StatusNew},
		{"10", "11", models.StatusIncreased},
		{"10", "9", models.StatusDecreased},
		{"10", "10", models.StatusUnchanged},
		{"0", "0", models.StatusUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.old+"->"+tt.new, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPrice(dec(tt.old), dec(tt.new)))
		})
	}
}

func TestDetectAnomalies(t *testing.T) {
	oldID := models.Identity{Title: "Tea", SupplierCode: "S1", Barcode: "111", PackSize: "6"}

	t.Run("all fields drift", func(t *testing.T) {
		newID := models.Identity{Title: "Tea bags", SupplierCode: "S2", Barcode: "222", PackSize: "12"}
		assert.Equal(t, []models.AnomalyType{
			models.AnomalyNameChange,
			models.AnomalySupplierCodeChange,
			models.AnomalyBarcodeChange,
			models.AnomalyPackSizeChange,
		}, DetectAnomalies(oldID, newID))
	})

	t.Run("empty to populated is not drift", func(t *testing.T) {
		assert.Empty(t, DetectAnomalies(models.Identity{}, oldID))
		assert.Empty(t, DetectAnomalies(oldID, models.Identity{}))
	})

	t.Run("identical", func(t *testing.T) {
		assert.Empty(t, DetectAnomalies(oldID, oldID))
	})
}

func TestResolveStatus(t *testing.T) {
	flags := []models.AnomalyType{models.AnomalyPackSizeChange}

	assert.Equal(t, models.StatusAnomaly, ResolveStatus(dec("10"), dec("12"), flags))
	assert.Equal(t, models.StatusAnomaly, ResolveStatus(dec("10"), dec("0"), flags))
	assert.Equal(t, models.StatusNew, ResolveStatus(dec("0"), dec("12"), flags))
	assert.Equal(t, models.StatusIncreased, ResolveStatus(dec("10"), dec("12"), nil))
}

func TestPotentialImpact(t *testing.T) {
	assertDecimal(t, "-120", PotentialImpact(dec("10"), decimal.Zero, models.StatusDiscontinued))
	assertDecimal(t, "24", PotentialImpact(dec("12"), dec("10"), models.StatusDecreased))
	assertDecimal(t, "0", PotentialImpact(dec("10"), dec("10"), models.StatusAnomaly))
}
