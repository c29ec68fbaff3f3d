package geo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMetersZeroAndSymmetric(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for range 200 {
		lat1, lng1 := rnd.Float64()*180-90, rnd.Float64()*360-180
		lat2, lng2 := rnd.Float64()*180-90, rnd.Float64()*360-180

		assert.Equal(t, 0.0, DistanceMeters(lat1, lng1, lat1, lng1))
		assert.InDelta(t, DistanceMeters(lat1, lng1, lat2, lng2), DistanceMeters(lat2, lng2, lat1, lng1), 1e-6)
		assert.GreaterOrEqual(t, DistanceMeters(lat1, lng1, lat2, lng2), 0.0)
	}
}

func TestDistanceMetersKnownValues(t *testing.T) {
	// one degree of latitude on a 6371 km sphere
	assert.InDelta(t, 111194.93, DistanceMeters(0, 0, 1, 0), 0.01)

	// the end-to-end scenario points sit roughly 280 m apart
	d := DistanceMeters(10.8484, 106.7730, 10.8500, 106.7750)
	assert.InDelta(t, 280, d, 15)

	// antipodes
	assert.InDelta(t, EarthRadiusMeters*3.141592653589793, DistanceMeters(0, 0, 0, 180), 0.01)
}

func TestOffsetNorth(t *testing.T) {
	center := Point{Latitude: 10.8484, Longitude: 106.7730}
	for _, d := range []float64{20, 120, 121, 1000} {
		assert.InDelta(t, d, center.DistanceTo(OffsetNorth(center, d)), 1e-6)
	}
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, Point{}, Centroid(nil))

	c := Centroid([]Point{{Latitude: 10, Longitude: 100}, {Latitude: 12, Longitude: 102}})
	assert.InDelta(t, 11, c.Latitude, 1e-12)
	assert.InDelta(t, 101, c.Longitude, 1e-12)
}

func TestValidCoordinate(t *testing.T) {
	assert.True(t, ValidCoordinate(-90, 180))
	assert.False(t, ValidCoordinate(90.0001, 0))
	assert.False(t, ValidCoordinate(0, -180.5))
}
