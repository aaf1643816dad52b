package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mauv0809/pricelist/internal/catalog"
	"github.com/mauv0809/pricelist/internal/dataset"
	"github.com/mauv0809/pricelist/internal/export"
	"github.com/mauv0809/pricelist/internal/ingest"
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/mauv0809/pricelist/internal/pricelist"
	"github.com/rs/zerolog/log"
)

// PriceListHandler serves the upload, review and export endpoints.
type PriceListHandler struct {
	store      *dataset.Store
	normalizer *pricelist.Normalizer
	catalog    catalog.Source
}

// NewPriceListHandler creates a price list handler. src may be nil, in which
// case reconciliation is unavailable.
func NewPriceListHandler(store *dataset.Store, normalizer *pricelist.Normalizer, src catalog.Source) *PriceListHandler {
	return &PriceListHandler{
		store:      store,
		normalizer: normalizer,
		catalog:    src,
	}
}

// UploadResponse is returned after a price list has been processed.
type UploadResponse struct {
	Response
	DatasetID string              `json:"datasetId"`
	Schema    pricelist.Schema    `json:"schema"`
	Anomalies models.AnomalyStats `json:"anomalies"`
}

// StatsResponse summarises the active dataset.
type StatsResponse struct {
	Anomalies models.AnomalyStats `json:"anomalies"`
	Summary   pricelist.Summary   `json:"summary"`
}

// ReconcileResponse reports a catalog merge.
type ReconcileResponse struct {
	Response
	Matched       int      `json:"matched"`
	Unmatched     int      `json:"unmatched"`
	DuplicateKeys []string `json:"duplicateKeys,omitempty"`
}

// Upload handles POST /api/pricelist/upload
// Expects a multipart form with the spreadsheet in the "file" field.
func (h *PriceListHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: "file field is required",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to open upload: %v", err),
		})
	}
	defer f.Close()

	rows, err := ingest.ReadRows(ctx, f, fh.Filename)
	if err != nil {
		log.Warn().Err(err).Str("file", fh.Filename).Msg("unreadable price list")
		return c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to read %s: %v", fh.Filename, err),
		})
	}

	schema, records, err := h.normalizer.Build(rows)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to process %s: %v", fh.Filename, err),
		})
	}

	ds := h.store.Replace(fh.Filename, schema, records)
	stats := pricelist.AggregateAnomalies(records)
	elapsed := time.Since(start)

	log.Info().
		Str("dataset", ds.ID.String()).
		Str("file", fh.Filename).
		Str("schema", string(schema)).
		Int("rows", len(records)).
		Int("anomalies", stats.TotalAnomalies).
		Dur("elapsed", elapsed).
		Msg("price list processed")

	return c.JSON(http.StatusOK, UploadResponse{
		Response: Response{
			Success: true,
			Message: fmt.Sprintf("Processed %d rows", len(records)),
			Count:   len(records),
			Elapsed: elapsed.String(),
		},
		DatasetID: ds.ID.String(),
		Schema:    schema,
		Anomalies: stats,
	})
}

// Records handles GET /api/pricelist/records
// Query params:
// - status: only return records with this status (optional)
func (h *PriceListHandler) Records(c echo.Context) error {
	ds, ok := h.store.Snapshot()
	if !ok {
		return noDataset(c)
	}

	records := ds.Records
	if status := c.QueryParam("status"); status != "" {
		filtered := make([]models.PriceRecord, 0, len(records))
		for _, rec := range records {
			if string(rec.Status) == status {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}

	return c.JSON(http.StatusOK, records)
}

// Stats handles GET /api/pricelist/stats
func (h *PriceListHandler) Stats(c echo.Context) error {
	ds, ok := h.store.Snapshot()
	if !ok {
		return noDataset(c)
	}

	return c.JSON(http.StatusOK, StatsResponse{
		Anomalies: pricelist.AggregateAnomalies(ds.Records),
		Summary:   pricelist.Summarize(ds.Records),
	})
}

// Reconcile handles POST /api/pricelist/reconcile
// Merges live catalog fields into the active dataset.
func (h *PriceListHandler) Reconcile(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	if h.catalog == nil {
		return c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "No catalog source configured",
		})
	}
	if h.store.Current() == nil {
		return noDataset(c)
	}

	catalogRecords, err := h.catalog.FetchCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog fetch failed")
		return c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to fetch catalog: %v", err),
		})
	}

	res, ok := h.store.Reconcile(catalogRecords)
	if !ok {
		return noDataset(c)
	}
	for _, key := range res.DuplicateKeys {
		log.Warn().Str("key", key).Msg("duplicate catalog key, first entry kept")
	}

	elapsed := time.Since(start)
	log.Info().
		Int("catalog", len(catalogRecords)).
		Int("matched", res.Matched).
		Int("unmatched", res.Unmatched).
		Dur("elapsed", elapsed).
		Msg("catalog reconciled")

	return c.JSON(http.StatusOK, ReconcileResponse{
		Response: Response{
			Success: true,
			Message: fmt.Sprintf("Matched %d of %d rows", res.Matched, res.Matched+res.Unmatched),
			Count:   res.Matched,
			Elapsed: elapsed.String(),
		},
		Matched:       res.Matched,
		Unmatched:     res.Unmatched,
		DuplicateKeys: res.DuplicateKeys,
	})
}

// Export handles GET /api/pricelist/export
// Query params:
// - format: xlsx (default) or csv
func (h *PriceListHandler) Export(c echo.Context) error {
	ds, ok := h.store.Snapshot()
	if !ok {
		return noDataset(c)
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "xlsx"
	}

	rows := export.FormatRows(ds.Records)
	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	switch format {
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		err = export.WriteXLSX(&buf, rows)
	case "csv":
		contentType = "text/csv; charset=utf-8"
		err = export.WriteCSV(&buf, rows)
	default:
		return c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Message: fmt.Sprintf("Unsupported format %q (use xlsx or csv)", format),
		})
	}
	if err != nil {
		log.Error().Err(err).Str("format", format).Msg("export failed")
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to export: %v", err),
		})
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "product-import."+format))
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}

func noDataset(c echo.Context) error {
	return c.JSON(http.StatusNotFound, Response{
		Success: false,
		Message: "No price list uploaded. POST /api/pricelist/upload first.",
	})
}
