package geocoding

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

	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	_ "liyu1981.xyz/safekids-geofence-service/pkg/testing"
)

func newNominatimServer(t *testing.T, hits *int32, body any, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "18", r.URL.Query().Get("zoom"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		assert.Equal(t, "vi", r.URL.Query().Get("accept-language"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(url string) *Client {
	return NewClient(ClientOpts{BaseURL: url, MinInterval: time.Millisecond, Timeout: time.Second})
}

func TestResolveAddress(t *testing.T) {
	common.SetTestLoggerNop()

	var hits int32
	srv := newNominatimServer(t, &hits, map[string]any{
		"display_name": "Trường Tiểu học, Thủ Đức, Hồ Chí Minh",
		"address": map[string]string{
			"amenity":  "Trường Tiểu học",
			"road":     "Võ Văn Ngân",
			"suburb":   "Linh Chiểu",
			"city":     "Thủ Đức",
			"province": "Hồ Chí Minh",
		},
	}, http.StatusOK)

	svc := NewService(testClient(srv.URL), ServiceOpts{})
	ctx := context.Background()

	assert.Equal(t, "Võ Văn Ngân, Linh Chiểu, Thủ Đức", svc.ResolveAddress(ctx, 10.8484, 106.7730))
	// same 4-decimal key, served from cache
	assert.Equal(t, "Võ Văn Ngân, Linh Chiểu, Thủ Đức", svc.ResolveAddress(ctx, 10.84841, 106.77299))
	// the place name was cached along with the address
	assert.Equal(t, "Trường Tiểu học", svc.ResolvePlaceName(ctx, 10.8484, 106.7730))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestResolveFallbacks(t *testing.T) {
	common.SetTestLoggerNop()

	var hits int32
	srv := newNominatimServer(t, &hits, map[string]any{"error": "Unable to geocode"}, http.StatusOK)
	svc := NewService(testClient(srv.URL), ServiceOpts{})
	ctx := context.Background()

	assert.Equal(t, "10.8484, 106.7730", svc.ResolveAddress(ctx, 10.84841234, 106.773))
	assert.Equal(t, FrequentPlaceLabel, svc.ResolvePlaceName(ctx, 10.8484, 106.7730))
	// fallbacks are not cached
	svc.ResolveAddress(ctx, 10.8484, 106.7730)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestResolveServerDown(t *testing.T) {
	common.SetTestLoggerNop()

	var hits int32
	srv := newNominatimServer(t, &hits, map[string]any{}, http.StatusServiceUnavailable)
	svc := NewService(testClient(srv.URL), ServiceOpts{})

	assert.Equal(t, "1.0000, 2.0000", svc.ResolveAddress(context.Background(), 1, 2))
}

func TestDisabledService(t *testing.T) {
	common.SetTestLoggerNop()

	svc := NewService(nil, ServiceOpts{})
	assert.Equal(t, "1.5000, 2.2500", svc.ResolveAddress(context.Background(), 1.5, 2.25))
	assert.Equal(t, FrequentPlaceLabel, svc.ResolvePlaceName(context.Background(), 1.5, 2.25))
}

func TestResolveTimeout(t *testing.T) {
	common.SetTestLoggerNop()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	svc := NewService(testClient(srv.URL), ServiceOpts{Timeout: 50 * time.Millisecond})
	start := time.Now()
	assert.Equal(t, "3.0000, 4.0000", svc.ResolveAddress(context.Background(), 3, 4))
	assert.Less(t, time.Since(start), time.Second)
}

func TestFormatAddressAndPlaceName(t *testing.T) {
	assert.Equal(t, "", FormatAddress(nil))
	assert.Equal(t, "Somewhere", FormatAddress(&NominatimResult{DisplayName: "Somewhere", Address: map[string]string{"country": "VN"}}))
	assert.Equal(t, "A, B", FormatAddress(&NominatimResult{Address: map[string]string{"town": "B", "road": "A"}}))

	assert.Equal(t, UnknownPlaceLabel, PlaceName(&NominatimResult{Address: map[string]string{"country": "VN"}}))
	assert.Equal(t, "Shop", PlaceName(&NominatimResult{Address: map[string]string{"shop": "Shop", "city": "City"}}))
	assert.Equal(t, "City", PlaceName(&NominatimResult{Address: map[string]string{"city": "City"}}))
}

func TestClientRateLimitHonorsContext(t *testing.T) {
	c := NewClient(ClientOpts{BaseURL: "http://127.0.0.1:0", MinInterval: time.Hour})
	// drain the single token
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := c.Reverse(ctx, 1, 2)
	assert.Error(t, err)
}
