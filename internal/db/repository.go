package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mauv0809/pricelist/internal/models"
	"github.com/shopspring/decimal"
)

// Repository stores snapshots of the live catalog. Price-list records are
// never written here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// UpsertCatalogVariants inserts or updates catalog records keyed by variant
// ID. Records without a variant ID are skipped. Returns the number of rows
// written.
func (r *Repository) UpsertCatalogVariants(ctx context.Context, records []models.PriceRecord) (int, error) {
	batch := &pgx.Batch{}
	for _, rec := range records {
		if rec.VariantID == "" {
			continue
		}

		metafields := rec.Metafields
		if metafields == nil {
			metafields = map[string]string{}
		}
		tags := rec.Tags
		if tags == nil {
			tags = []string{}
		}

		batch.Queue(`
			INSERT INTO catalog_variants (
				variant_id, product_id, inventory_item_id,
				sku, barcode, title, vendor,
				price, compare_at_price, inventory_level, historical_sales,
				last_order_date, tags, metafields, fetched_at
			) VALUES (
				$1, $2, $3,
				$4, $5, $6, $7,
				$8, $9, $10, $11,
				$12, $13, $14, NOW()
			)
			ON CONFLICT (variant_id) DO UPDATE SET
				product_id = EXCLUDED.product_id,
				inventory_item_id = EXCLUDED.inventory_item_id,
				sku = EXCLUDED.sku,
				barcode = EXCLUDED.barcode,
				title = EXCLUDED.title,
				vendor = EXCLUDED.vendor,
				price = EXCLUDED.price,
				compare_at_price = EXCLUDED.compare_at_price,
				inventory_level = EXCLUDED.inventory_level,
				historical_sales = EXCLUDED.historical_sales,
				last_order_date = EXCLUDED.last_order_date,
				tags = EXCLUDED.tags,
				metafields = EXCLUDED.metafields,
				fetched_at = NOW()
		`,
			rec.VariantID, rec.ProductID, rec.InventoryItemID,
			rec.SKU, rec.OldIdentity.Barcode, rec.Name, rec.Vendor,
			rec.NewPrice, decimalPtr(rec.CompareAtPrice), rec.InventoryLevel, rec.HistoricalSales,
			rec.LastOrderDate, tags, metafields,
		)
	}

	if batch.Len() == 0 {
		return 0, nil
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			return count, fmt.Errorf("upserting catalog variant: %w", err)
		}
		count++
	}

	return count, nil
}

// FetchCatalog returns the stored snapshot as catalog records ordered by
// variant ID, so duplicate SKUs resolve the same way on every call. It
// satisfies catalog.Source.
func (r *Repository) FetchCatalog(ctx context.Context) ([]models.PriceRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT variant_id, product_id, inventory_item_id,
			sku, barcode, title, vendor,
			price, compare_at_price, inventory_level, historical_sales,
			last_order_date, tags, metafields
		FROM catalog_variants
		ORDER BY variant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var records []models.PriceRecord
	for rows.Next() {
		var (
			rec       models.PriceRecord
			barcode   string
			price     decimal.Decimal
			compareAt decimal.NullDecimal
		)
		if err := rows.Scan(
			&rec.VariantID, &rec.ProductID, &rec.InventoryItemID,
			&rec.SKU, &barcode, &rec.Name, &rec.Vendor,
			&price, &compareAt, &rec.InventoryLevel, &rec.HistoricalSales,
			&rec.LastOrderDate, &rec.Tags, &rec.Metafields,
		); err != nil {
			return nil, fmt.Errorf("scanning catalog variant: %w", err)
		}

		rec.OldPrice, rec.NewPrice = price, price
		rec.OldIdentity = models.Identity{Barcode: barcode, Title: rec.Name}
		rec.NewIdentity = rec.OldIdentity
		rec.Status = models.StatusUnchanged
		rec.IsMatched = true
		if compareAt.Valid {
			rec.CompareAtPrice = &compareAt.Decimal
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// LastSnapshot returns the size and time of the most recent catalog pull.
func (r *Repository) LastSnapshot(ctx context.Context) (models.CatalogSnapshot, error) {
	var snap models.CatalogSnapshot
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(MAX(fetched_at), '1970-01-01'::timestamptz)
		FROM catalog_variants
	`).Scan(&snap.Variants, &snap.FetchedAt)
	if err != nil {
		return models.CatalogSnapshot{}, fmt.Errorf("querying last snapshot: %w", err)
	}
	return snap, nil
}

// Now returns the database clock, the one fetched_at is stamped with.
func (r *Repository) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := r.pool.QueryRow(ctx, "SELECT NOW()").Scan(&now); err != nil {
		return time.Time{}, fmt.Errorf("reading database time: %w", err)
	}
	return now, nil
}

// PruneBefore deletes variants not refreshed since cutoff, i.e. those the
// platform no longer lists.
func (r *Repository) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, "DELETE FROM catalog_variants WHERE fetched_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning catalog: %w", err)
	}
	return tag.RowsAffected(), nil
}

// decimalPtr converts a *decimal.Decimal to interface{} for database insertion.
func decimalPtr(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
