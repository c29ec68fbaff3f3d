package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
)

const (
	DefaultNominatimURL = "https://nominatim.openstreetmap.org/reverse"
	DefaultUserAgent    = "SafeKids-App/1.0 (https://safekids.app)"
	DefaultTimeout      = 5 * time.Second
	// Nominatim allows one request per second per client.
	DefaultMinInterval = 1100 * time.Millisecond
)

type NominatimResult struct {
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address"`
	Error       any               `json:"error"`
}

// Client performs reverse lookups against a Nominatim endpoint, spacing
// requests with a token bucket so the public usage policy holds across
// goroutines.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

type ClientOpts struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	MinInterval time.Duration
}

func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultNominatimURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = DefaultMinInterval
	}
	return &Client{
		baseURL:   opts.BaseURL,
		userAgent: opts.UserAgent,
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Every(opts.MinInterval), 1),
	}
}

func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*NominatimResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")
	q.Set("accept-language", "vi")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GeocodeDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var out NominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("nominatim error: %v", out.Error)
	}
	if len(out.Address) == 0 {
		return nil, fmt.Errorf("no address found in response")
	}
	return &out, nil
}
