package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func record(sku string, oldPrice, newPrice int64, status models.Status) models.PriceRecord {
	return models.PriceRecord{
		SKU:      sku,
		Name:     "Item " + sku,
		OldPrice: decimal.NewFromInt(oldPrice),
		NewPrice: decimal.NewFromInt(newPrice),
		Status:   status,
	}
}

func TestFormatRows_CompareAtPrice(t *testing.T) {
	rows := FormatRows([]models.PriceRecord{
		record("A", 20, 15, models.StatusDecreased),
		record("B", 10, 15, models.StatusIncreased),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "20.00", rows[0]["Variant Compare At Price"])
	assert.Equal(t, "15.00", rows[0]["Variant Price"])
	assert.Equal(t, "", rows[1]["Variant Compare At Price"])
}

func TestFormatRows_TagsAndHandle(t *testing.T) {
	newRec := record("Big Box  XL", 0, 9, models.StatusNew)
	newRec.NewIdentity.Barcode = "999"
	newRec.Vendor = "Acme"
	newRec.InventoryLevel = new(int)
	*newRec.InventoryLevel = 5

	rows := FormatRows([]models.PriceRecord{newRec, record("C", 1, 2, models.StatusIncreased)})

	assert.Equal(t, Row{
		"Handle":                   "big-box-xl",
		"Title":                    "Item Big Box  XL",
		"Variant Price":            "9.00",
		"Variant Compare At Price": "",
		"Variant SKU":              "Big Box  XL",
		"Variant Barcode":          "999",
		"Vendor":                   "Acme",
		"Tags":                     "price_updated, new",
		"Published":                "TRUE",
		"Variant Inventory Qty":    "5",
	}, rows[0])
	assert.Equal(t, "price_updated", rows[1]["Tags"])
	assert.Equal(t, "0", rows[1]["Variant Inventory Qty"])
}

func TestFormatRows_KeepsEveryRecord(t *testing.T) {
	records := []models.PriceRecord{
		{},
		record("", 0, 0, models.StatusUnchanged),
		record("X", 3, 0, models.StatusDiscontinued),
	}

	rows := FormatRows(records)

	require.Len(t, rows, len(records))
	assert.Equal(t, "0.00", rows[0]["Variant Price"])
	assert.Equal(t, "", rows[0]["Handle"])
	assert.Equal(t, "3.00", rows[2]["Variant Compare At Price"])
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := FormatRows([]models.PriceRecord{record("A", 20, 15, models.StatusDecreased)})

	require.NoError(t, WriteCSV(&buf, rows))

	lines, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, Columns, lines[0])
	assert.Equal(t, []string{"a", "Item A", "15.00", "20.00", "A", "", "", "price_updated", "TRUE", "0"}, lines[1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	rows := FormatRows([]models.PriceRecord{
		record("A", 20, 15, models.StatusDecreased),
		record("B", 0, 5, models.StatusNew),
	})

	require.NoError(t, WriteXLSX(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Columns, got[0])
	assert.Equal(t, "20.00", got[1][3])
	assert.Equal(t, "price_updated, new", got[2][7])
}
