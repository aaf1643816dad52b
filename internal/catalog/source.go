package catalog

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// Source yields the live catalog as canonical records.
type Source interface {
	FetchCatalog(ctx context.Context) ([]models.PriceRecord, error)
}

// CachedSource fronts a Source with a Cache. A failed refetch falls back to
// the last cached pull, however old.
type CachedSource struct {
	src   Source
	cache Cache
	key   string
}

// NewCachedSource caches src's catalog under key.
func NewCachedSource(src Source, cache Cache, key string) *CachedSource {
	return &CachedSource{src: src, cache: cache, key: key}
}

func (s *CachedSource) FetchCatalog(ctx context.Context) ([]models.PriceRecord, error) {
	if !s.cache.IsStale(s.key) {
		if e, ok := s.cache.Get(s.key); ok {
			return e.Records, nil
		}
	}

	records, err := s.src.FetchCatalog(ctx)
	if err != nil {
		if e, ok := s.cache.Get(s.key); ok {
			log.Warn().Err(err).Time("fetched_at", e.FetchedAt).Msg("catalog fetch failed, using stale copy")
			return e.Records, nil
		}
		return nil, eris.Wrap(err, "fetch catalog")
	}

	s.cache.Set(s.key, records)
	return records, nil
}

// FileSource reads a catalog exported as a JSON array of records.
type FileSource struct {
	Path string
}

func (s FileSource) FetchCatalog(ctx context.Context) ([]models.PriceRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "read catalog %s", s.Path)
	}
	var records []models.PriceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "decode catalog %s", s.Path)
	}
	return records, nil
}
