package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mauv0809/pricelist/internal/catalog"
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/rs/zerolog/log"
)

// SnapshotStore persists catalog pulls. Implemented by db.Repository.
type SnapshotStore interface {
	UpsertCatalogVariants(ctx context.Context, records []models.PriceRecord) (int, error)
	LastSnapshot(ctx context.Context) (models.CatalogSnapshot, error)
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Now(ctx context.Context) (time.Time, error)
}

// CatalogHandler handles catalog snapshot endpoints.
type CatalogHandler struct {
	source catalog.Source
	store  SnapshotStore
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(source catalog.Source, store SnapshotStore) *CatalogHandler {
	return &CatalogHandler{
		source: source,
		store:  store,
	}
}

// Snapshot handles POST /admin/catalog/snapshot
// Pulls the live catalog and stores it. Query params:
// - prune: if "true", delete variants the pull did not return
func (h *CatalogHandler) Snapshot(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()
	prune := c.QueryParam("prune") == "true"

	log.Info().Bool("prune", prune).Msg("starting catalog snapshot")

	records, err := h.source.FetchCatalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error fetching catalog")
		return c.JSON(http.StatusBadGateway, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to fetch catalog: %v", err),
		})
	}

	log.Info().Int("variants", len(records)).Msg("fetched catalog from API")

	// Rows the upsert touches are stamped at or after this instant.
	cutoff, err := h.store.Now(ctx)
	if err != nil {
		log.Error().Err(err).Msg("error reading store clock")
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to read store clock: %v", err),
		})
	}

	count, err := h.store.UpsertCatalogVariants(ctx, records)
	if err != nil {
		log.Error().Err(err).Msg("error upserting catalog")
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to store catalog: %v", err),
		})
	}

	if prune {
		removed, err := h.store.PruneBefore(ctx, cutoff)
		if err != nil {
			log.Error().Err(err).Msg("error pruning catalog")
			return c.JSON(http.StatusInternalServerError, Response{
				Success: false,
				Message: fmt.Sprintf("Failed to prune catalog: %v", err),
			})
		}
		log.Info().Int64("removed", removed).Msg("pruned stale variants")
	}

	elapsed := time.Since(start)
	log.Info().Int("variants", count).Dur("elapsed", elapsed).Msg("catalog snapshot complete")

	return c.JSON(http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Successfully stored %d variants", count),
		Count:   count,
		Elapsed: elapsed.String(),
	})
}

// Status handles GET /admin/catalog/status
func (h *CatalogHandler) Status(c echo.Context) error {
	snap, err := h.store.LastSnapshot(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Message: fmt.Sprintf("Failed to read snapshot: %v", err),
		})
	}

	last := ""
	if snap.Variants > 0 {
		last = snap.FetchedAt.Format(time.RFC3339)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"variants":      snap.Variants,
		"last_snapshot": last,
	})
}
