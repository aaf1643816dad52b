package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testClient(url string) *Client {
	c := NewClient(url, "secret", 1000)
	c.backoff = time.Millisecond
	return c
}

func TestClient_FetchCatalogFollowsCursor(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/variants.json", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "250", r.URL.Query().Get("limit"))

		var resp Response
		switch r.URL.Query().Get("cursor") {
		case "":
			resp.Variants = []Variant{{
				ID:                "gid://variant/1",
				ProductID:         "gid://product/1",
				InventoryItemID:   "gid://inventory/1",
				SKU:               "A1",
				Barcode:           "111",
				Title:             "Tea",
				Vendor:            "Acme",
				Price:             strPtr("4.50"),
				CompareAtPrice:    strPtr("5.00"),
				InventoryQuantity: new(int),
				Tags:              "hot, drinks ,",
				LastOrderDate:     strPtr("2026-09-30T10:00:00Z"),
				Metafields:        []Metafield{{Namespace: "supplier", Key: "code", Value: "S-1"}},
			}}
			resp.Meta.NextCursor = strPtr("page-2")
		case "page-2":
			resp.Variants = []Variant{{ID: "v2", SKU: "B2"}, {ID: "orphan"}}
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "A1", first.SKU)
	assert.Equal(t, "111", first.OldIdentity.Barcode)
	assert.Equal(t, "gid://product/1", first.ProductID)
	assert.Equal(t, "gid://variant/1", first.VariantID)
	assert.Equal(t, "gid://inventory/1", first.InventoryItemID)
	assert.Equal(t, []string{"hot", "drinks"}, first.Tags)
	assert.Equal(t, map[string]string{"supplier.code": "S-1"}, first.Metafields)
	require.NotNil(t, first.CompareAtPrice)
	assert.Equal(t, "5", first.CompareAtPrice.String())
	assert.Equal(t, "4.5", first.NewPrice.String())
	require.NotNil(t, first.LastOrderDate)
	assert.Equal(t, 2026, first.LastOrderDate.Year())
	require.NotNil(t, first.InventoryLevel)
	assert.True(t, first.IsMatched)

	assert.Equal(t, "B2", records[1].SKU)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"variants":[{"sku":"A1"}],"meta":{"next_cursor":null}}`))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).FetchCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchCatalog(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, int32(maxAttempts), atomic.LoadInt32(&calls))
}

func TestClient_StopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).FetchCatalog(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimiter_SpacesCalls(t *testing.T) {
	r := newRateLimiter(20)
	ctx := context.Background()

	start := time.Now()
	for range 3 {
		require.NoError(t, r.Wait(ctx))
	}
	// first call is free, the next two wait one 50ms interval each
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_WaitHonoursCancel(t *testing.T) {
	r := newRateLimiter(1)
	require.NoError(t, r.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.Canceled)
}
