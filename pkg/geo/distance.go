// Package geo holds the spherical-earth math shared by geofence evaluation,
// clustering and location statistics.
package geo

import "math"

const EarthRadiusMeters = 6371000.0

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DistanceMeters is the haversine great-circle distance between two
// coordinates given in degrees.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push a a hair above 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

func (p Point) DistanceTo(o Point) float64 {
	return DistanceMeters(p.Latitude, p.Longitude, o.Latitude, o.Longitude)
}

// Centroid is the arithmetic mean of latitudes and longitudes. It returns the
// zero Point for an empty slice.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sumLat, sumLng float64
	for _, p := range points {
		sumLat += p.Latitude
		sumLng += p.Longitude
	}
	n := float64(len(points))
	return Point{Latitude: sumLat / n, Longitude: sumLng / n}
}

func ValidCoordinate(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// OffsetNorth returns the point d meters due north of p (negative d goes
// south). Handy for building fixtures at exact distances.
func OffsetNorth(p Point, d float64) Point {
	return Point{
		Latitude:  p.Latitude + d/EarthRadiusMeters*180/math.Pi,
		Longitude: p.Longitude,
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
