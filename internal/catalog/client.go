package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/mauv0809/pricelist/internal/models"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 60 * time.Second
	defaultBackoff = time.Second
	pageSize       = 250
	maxAttempts    = 3
)

// ErrRateLimited is returned for HTTP 429 responses.
var ErrRateLimited = eris.New("rate limited (429)")

// Client is a rate-limited client for the commerce platform's variants API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rateLimiter
	backoff    time.Duration
}

// rateLimiter spaces calls at least one interval apart.
type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(requestsPerSecond int) *rateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &rateLimiter{
		interval: time.Second / time.Duration(requestsPerSecond),
	}
}

func (r *rateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if wait := r.interval - time.Since(r.lastCall); wait > 0 {
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	r.lastCall = time.Now()
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NewClient creates a catalog client for baseURL authenticated with token.
func NewClient(baseURL, token string, requestsPerSecond int) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: newRateLimiter(requestsPerSecond),
		backoff: defaultBackoff,
	}
}

// FetchCatalog pulls every variant, following cursors until exhausted.
func (c *Client) FetchCatalog(ctx context.Context) ([]models.PriceRecord, error) {
	var records []models.PriceRecord
	var cursor *string

	for {
		resp, err := c.fetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}

		records = append(records, ParseVariants(resp.Variants)...)

		if resp.Meta.NextCursor == nil || *resp.Meta.NextCursor == "" {
			break
		}
		cursor = resp.Meta.NextCursor
		log.Debug().Str("cursor", (*cursor)[:min(20, len(*cursor))]).Msg("fetching next catalog page")
	}

	log.Info().Int("variants", len(records)).Msg("catalog fetched")
	return records, nil
}

// fetchPage fetches a single page of variants.
func (c *Client) fetchPage(ctx context.Context, cursor *string) (*Response, error) {
	u, err := url.Parse(c.baseURL + "/variants.json")
	if err != nil {
		return nil, eris.Wrap(err, "invalid catalog url")
	}

	q := u.Query()
	q.Set("limit", strconv.Itoa(pageSize))
	if cursor != nil {
		q.Set("cursor", *cursor)
	}
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.backoff * time.Duration(1<<attempt)
			log.Warn().Int("attempt", attempt).Dur("backoff", backoff).Msg("retrying catalog request")
			if err := sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}

		resp, err := c.doRequest(ctx, u.String())
		if err == nil {
			return resp, nil
		}
		lastErr = err

		// Don't retry on context cancellation
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Warn().Err(err).Int("attempt", attempt+1).Msg("catalog request failed")
	}

	return nil, eris.Wrap(lastErr, "all retries failed")
}

func (c *Client) doRequest(ctx context.Context, urlStr string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, eris.Wrap(err, "creating request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "executing request")
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "reading response")
	}

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status %d: %s", httpResp.StatusCode, string(body))
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "parsing response")
	}

	return &resp, nil
}
