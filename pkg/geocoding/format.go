package geocoding

import (
	"fmt"
	"strings"
)

const (
	FrequentPlaceLabel = "Địa điểm thường xuyên"
	UnknownPlaceLabel  = "Địa điểm không xác định"
)

// Vietnamese address order: street, ward, district, city.
var addressKeys = []string{"road", "neighbourhood", "suburb", "district", "city", "town", "province"}

var placeKeys = []string{
	"building", "amenity", "shop", "office", "school", "university",
	"leisure", "suburb", "village", "town", "city",
}

const maxAddressParts = 3

// CoordinateText is the fallback shown when no address can be resolved.
func CoordinateText(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

// FormatAddress keeps at most three components so the text fits a
// notification line. It returns "" when the result carries nothing usable.
func FormatAddress(r *NominatimResult) string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, maxAddressParts)
	for _, k := range addressKeys {
		if v := strings.TrimSpace(r.Address[k]); v != "" {
			parts = append(parts, v)
		}
		if len(parts) == maxAddressParts {
			break
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(r.DisplayName)
	}
	return strings.Join(parts, ", ")
}

func PlaceName(r *NominatimResult) string {
	if r == nil {
		return UnknownPlaceLabel
	}
	for _, k := range placeKeys {
		if v := strings.TrimSpace(r.Address[k]); v != "" {
			return v
		}
	}
	return UnknownPlaceLabel
}
