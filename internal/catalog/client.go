// Package catalog fetches product metadata from the remote catalog
// service and joins it onto transactions by numeric product id.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/revlens-dev/revlens/internal/model"
)

// Client fetches the product catalog over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a catalog client with a fixed request timeout.
func NewClient(url string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type productsPayload struct {
	Products []productItem `json:"products"`
}

type productItem struct {
	ID       int         `json:"id"`
	Title    string      `json:"title"`
	Category string      `json:"category"`
	Brand    string      `json:"brand"`
	Rating   ratingValue `json:"rating"`
}

// ratingValue tolerates the catalog's loose rating field: a JSON
// number, a string like "unknown", or absent. Anything else decodes
// to empty rather than failing the whole payload.
type ratingValue string

func (r *ratingValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ratingValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*r = ratingValue(n.String())
		return nil
	}
	*r = ""
	return nil
}

// Fetch issues a single GET for the catalog. It fails open: any
// network, HTTP, or decode failure is logged and an empty catalog is
// returned, so one flaky service never aborts a batch run.
func (c *Client) Fetch(ctx context.Context) []model.CatalogEntry {
	entries, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.url).
			Msg("catalog fetch failed, continuing with empty catalog")
		return nil
	}
	c.log.Info().Int("products", len(entries)).Msg("fetched product catalog")
	return entries
}

func (c *Client) fetch(ctx context.Context) ([]model.CatalogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var payload productsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}

	entries := make([]model.CatalogEntry, 0, len(payload.Products))
	for _, p := range payload.Products {
		entries = append(entries, model.CatalogEntry{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Rating:   string(p.Rating),
		})
	}
	return entries, nil
}
