package geocoding

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
)

const DefaultCacheTTL = 24 * time.Hour

var errGeocodingDisabled = errors.New("geocoding disabled")

type reverser interface {
	Reverse(ctx context.Context, lat, lng float64) (*NominatimResult, error)
}

// Service resolves display addresses and place names for coordinates. Both
// lookups always return text: failures degrade to fallbacks, which are not
// cached so a later call can still succeed.
type Service struct {
	client  reverser
	local   Cache
	remote  Cache
	timeout time.Duration
}

type ServiceOpts struct {
	// Remote is an optional shared cache consulted after the local one.
	Remote   Cache
	CacheTTL time.Duration
	Timeout  time.Duration
}

// NewService accepts a nil client, in which case every lookup falls back.
func NewService(client *Client, opts ServiceOpts) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	s := &Service{
		local:   NewLRU(4096, opts.CacheTTL),
		remote:  opts.Remote,
		timeout: opts.Timeout,
	}
	if client != nil {
		s.client = client
	}
	return s
}

func (s *Service) ResolveAddress(ctx context.Context, lat, lng float64) string {
	key := "addr:" + cacheKey(lat, lng)
	if v, ok := s.cached(ctx, key); ok {
		return v
	}

	result, err := s.lookup(ctx, lat, lng)
	if err != nil {
		s.logger().Warn("reverse geocode failed, using coordinates",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		metrics.GeocodeLookupsTotal.WithLabelValues("fallback").Inc()
		return CoordinateText(lat, lng)
	}

	address := FormatAddress(result)
	if address == "" {
		metrics.GeocodeLookupsTotal.WithLabelValues("fallback").Inc()
		return CoordinateText(lat, lng)
	}
	s.store(ctx, key, address)
	s.store(ctx, "place:"+cacheKey(lat, lng), PlaceName(result))
	return address
}

func (s *Service) ResolvePlaceName(ctx context.Context, lat, lng float64) string {
	key := "place:" + cacheKey(lat, lng)
	if v, ok := s.cached(ctx, key); ok {
		return v
	}

	result, err := s.lookup(ctx, lat, lng)
	if err != nil {
		s.logger().Warn("place name lookup failed",
			zap.Float64("lat", lat), zap.Float64("lng", lng), zap.Error(err))
		metrics.GeocodeLookupsTotal.WithLabelValues("fallback").Inc()
		return FrequentPlaceLabel
	}

	name := PlaceName(result)
	s.store(ctx, key, name)
	if address := FormatAddress(result); address != "" {
		s.store(ctx, "addr:"+cacheKey(lat, lng), address)
	}
	return name
}

func (s *Service) lookup(ctx context.Context, lat, lng float64) (*NominatimResult, error) {
	if s.client == nil {
		return nil, errGeocodingDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.client.Reverse(ctx, lat, lng)
	if err == nil {
		metrics.GeocodeLookupsTotal.WithLabelValues("nominatim").Inc()
	}
	return result, err
}

func (s *Service) cached(ctx context.Context, key string) (string, bool) {
	if v, ok := s.local.Get(ctx, key); ok {
		metrics.GeocodeLookupsTotal.WithLabelValues("memory").Inc()
		return v, true
	}
	if s.remote != nil {
		if v, ok := s.remote.Get(ctx, key); ok {
			metrics.GeocodeLookupsTotal.WithLabelValues("redis").Inc()
			s.local.Set(ctx, key, v)
			return v, true
		}
	}
	return "", false
}

func (s *Service) store(ctx context.Context, key, value string) {
	s.local.Set(ctx, key, value)
	if s.remote != nil {
		s.remote.Set(ctx, key, value)
	}
}

func (s *Service) logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameGeocoding)
}
