package safekids

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	ClusterRadiusMeters = 100.0
	MinVisitsThreshold  = 3
	MaxSuggestions      = 5
	MinSuggestedRadius  = 100.0
	MaxSuggestedRadius  = 500.0
	RadiusBufferMeters  = 50.0
	ClusterLookbackDays = 30
)

// Visits are counted per calendar day in Vietnam time.
var visitDayZone = time.FixedZone("ICT", 7*60*60)

type LocationCluster struct {
	Center          geo.Point
	Points          []models.Location
	VisitCount      int
	SuggestedRadius float64
	LocationName    string
}

// Clusterer turns chronologically ordered points into ranked clusters.
type Clusterer func(points []models.Location) []LocationCluster

func distinctDays(points []models.Location) int {
	days := make(map[string]struct{}, len(points))
	for _, p := range points {
		days[p.Timestamp.In(visitDayZone).Format("2006-01-02")] = struct{}{}
	}
	return len(days)
}

func pointsOf(locations []models.Location) []geo.Point {
	return common.Mapper(locations, func(l models.Location) geo.Point {
		return geo.Point{Latitude: l.Latitude, Longitude: l.Longitude}
	})
}

func suggestedRadius(center geo.Point, members []models.Location) float64 {
	maxDistance := 0.0
	for _, p := range pointsOf(members) {
		maxDistance = math.Max(maxDistance, center.DistanceTo(p))
	}
	return math.Min(math.Max(maxDistance+RadiusBufferMeters, MinSuggestedRadius), MaxSuggestedRadius)
}

// IncrementalCluster is a single pass over points in the given order. A point
// joins the first cluster whose current centroid is within
// ClusterRadiusMeters, and that centroid then moves to the mean of its
// members, so the result depends on input order.
func IncrementalCluster(points []models.Location) []LocationCluster {
	if len(points) < MinVisitsThreshold {
		return []LocationCluster{}
	}

	var clusters []LocationCluster
	for _, loc := range points {
		p := geo.Point{Latitude: loc.Latitude, Longitude: loc.Longitude}
		joined := false
		for i := range clusters {
			c := &clusters[i]
			if c.Center.DistanceTo(p) <= ClusterRadiusMeters {
				c.Points = append(c.Points, loc)
				c.Center = geo.Centroid(pointsOf(c.Points))
				c.VisitCount = distinctDays(c.Points)
				joined = true
				break
			}
		}
		if !joined {
			clusters = append(clusters, LocationCluster{
				Center:     p,
				Points:     []models.Location{loc},
				VisitCount: 1,
			})
		}
	}

	frequent := []LocationCluster{}
	for _, c := range clusters {
		if c.VisitCount < MinVisitsThreshold {
			continue
		}
		c.SuggestedRadius = suggestedRadius(c.Center, c.Points)
		frequent = append(frequent, c)
	}

	sort.SliceStable(frequent, func(i, j int) bool {
		return frequent[i].VisitCount > frequent[j].VisitCount
	})
	if len(frequent) > MaxSuggestions {
		frequent = frequent[:MaxSuggestions]
	}
	return frequent
}

func (s *SafeKids) locationHistory(ctx context.Context, childID string, dateRange DateRange) ([]models.Location, error) {
	var locations []models.Location
	q := s.Db.Conn.WithContext(ctx).Where("child_id = ?", childID)
	err := dateRange.apply(q, "timestamp").Order("timestamp asc").Order("id asc").Find(&locations).Error
	return locations, err
}

// findFrequentLocations clusters the last lookbackDays of history and names
// every surviving cluster.
func (s *SafeKids) findFrequentLocations(ctx context.Context, childID string, lookbackDays int) ([]LocationCluster, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategorySuggestion)

	since := s.now().AddDate(0, 0, -lookbackDays)
	locations, err := s.locationHistory(ctx, childID, DateRange{Start: since})
	if err != nil {
		return nil, err
	}

	clusters := s.clusterer()(locations)
	logger.Debug("Clustered location history",
		zap.String("childId", childID),
		zap.Int("points", len(locations)),
		zap.Int("clusters", len(clusters)),
	)

	if s.Geocoder != nil {
		var wg sync.WaitGroup
		for i := range clusters {
			wg.Add(1)
			go func(c *LocationCluster) {
				defer wg.Done()
				c.LocationName = s.Geocoder.ResolvePlaceName(ctx, c.Center.Latitude, c.Center.Longitude)
			}(&clusters[i])
		}
		wg.Wait()
	}
	return clusters, nil
}
