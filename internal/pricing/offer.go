package pricing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// OfferClient fetches the current gold unit price from the offer API.
type OfferClient struct {
	url  string
	http *http.Client
}

func NewOfferClient(url string) *OfferClient {
	return &OfferClient{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// UnitPrice returns the current price per one gold.
func (c *OfferClient) UnitPrice(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return 0, fmt.Errorf("pricing: failed to create offer request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pricing: offer fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pricing: offer API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("pricing: failed to read offer response: %w", err)
	}

	price := gjson.GetBytes(body, "payload.converted_unit_price")
	if !price.Exists() {
		return 0, fmt.Errorf("pricing: offer response missing converted_unit_price")
	}
	return price.Float(), nil
}
