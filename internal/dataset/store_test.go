package dataset

import (
	"testing"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReplaceAndReconcile(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.Current())

	_, ok := s.Reconcile(nil)
	assert.False(t, ok)

	first := s.Replace("a.xlsx", pricelist.SchemaOldNew, []models.PriceRecord{{SKU: "A1"}})
	second := s.Replace("b.xlsx", pricelist.SchemaSinglePrice, []models.PriceRecord{{SKU: "A1"}, {SKU: "B1"}})
	assert.NotEqual(t, first.ID, second.ID)
	assert.Same(t, second, s.Current())

	res, ok := s.Reconcile([]models.PriceRecord{{SKU: "A1", CatalogFields: models.CatalogFields{ProductID: "gid://1"}}})
	require.True(t, ok)
	assert.Equal(t, 1, res.Matched)
	assert.Equal(t, 1, res.Unmatched)

	snap, ok := s.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "gid://1", snap.Records[0].ProductID)
	require.NotNil(t, snap.Reconciled)
	assert.NotNil(t, snap.ReconciledAt)

	snap.Records[0].SKU = "changed"
	assert.Equal(t, "A1", s.Current().Records[0].SKU)
}
