package safekids

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	DefaultLocationStatsWindow = 24 * time.Hour
	MostVisitedRadiusMeters    = 100.0
	MaxMostVisited             = 3
	LocationRetention          = 30 * 24 * time.Hour
)

type LocationInput struct {
	Latitude     float64
	Longitude    float64
	Accuracy     float64
	BatteryLevel *int
	// Timestamp defaults to the time of the report.
	Timestamp *time.Time
}

type VisitedPlace struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Count     int     `json:"count"`
	Address   string  `json:"address"`
}

// LocationStats reports distance in kilometers and time in hours.
type LocationStats struct {
	TotalDistance float64        `json:"totalDistance"`
	TotalTime     float64        `json:"totalTime"`
	MostVisited   []VisitedPlace `json:"mostVisited"`
}

func validateLocationInput(input *LocationInput) error {
	if input == nil || !geo.ValidCoordinate(input.Latitude, input.Longitude) {
		return invalid(MsgCoordinateInvalid)
	}
	if input.Accuracy < 0 {
		return invalid(MsgAccuracyInvalid)
	}
	if input.BatteryLevel != nil && (*input.BatteryLevel < 0 || *input.BatteryLevel > 100) {
		return invalid(MsgBatteryInvalid)
	}
	return nil
}

func (s *SafeKids) reportLocation(ctx context.Context, childID string, input *LocationInput) (*models.Location, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryLocation)

	if err := validateLocationInput(input); err != nil {
		return nil, err
	}
	child, err := s.Directory.GetUser(ctx, childID)
	if err != nil {
		return nil, err
	}
	if child.Role != models.UserRoleChild {
		return nil, ErrForbidden
	}

	ts := s.now()
	if input.Timestamp != nil && !input.Timestamp.IsZero() {
		ts = input.Timestamp.UTC()
	}
	location := models.Location{
		ChildID:      childID,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Accuracy:     input.Accuracy,
		BatteryLevel: input.BatteryLevel,
		Timestamp:    ts,
	}
	if err := s.Db.Conn.WithContext(ctx).Create(&location).Error; err != nil {
		return nil, err
	}
	metrics.LocationReportsTotal.Inc()

	logger.Debug("Location stored", zap.Reflect("location", location))

	if s.Detection == nil {
		logger.Warn("Detection service not available, location not evaluated", zap.String("childId", childID))
		return &location, nil
	}
	// Evaluation is best-effort; the location is already stored.
	if _, err := s.Detection.EvaluateLocation(ctx, childID, location.Latitude, location.Longitude); err != nil {
		logger.Warn("Geofence evaluation failed", zap.String("childId", childID), zap.Error(err))
	}
	return &location, nil
}

// mostVisited groups each not-yet-claimed point with every later point
// within MostVisitedRadiusMeters of it.
func mostVisited(locations []models.Location) []VisitedPlace {
	points := pointsOf(locations)
	claimed := make([]bool, len(points))

	var groups [][]geo.Point
	for i := range points {
		if claimed[i] {
			continue
		}
		claimed[i] = true
		group := []geo.Point{points[i]}
		for j := i + 1; j < len(points); j++ {
			if !claimed[j] && points[i].DistanceTo(points[j]) <= MostVisitedRadiusMeters {
				claimed[j] = true
				group = append(group, points[j])
			}
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i]) > len(groups[j])
	})
	if len(groups) > MaxMostVisited {
		groups = groups[:MaxMostVisited]
	}

	places := make([]VisitedPlace, len(groups))
	for i, g := range groups {
		c := geo.Centroid(g)
		places[i] = VisitedPlace{
			Latitude:  common.RoundTo(c.Latitude, 6),
			Longitude: common.RoundTo(c.Longitude, 6),
			Count:     len(g),
			Address:   MostVisitedAddressLabel,
		}
	}
	return places
}

// ComputeLocationStats expects locations in chronological order.
func ComputeLocationStats(locations []models.Location) *LocationStats {
	stats := &LocationStats{MostVisited: []VisitedPlace{}}
	if len(locations) < 2 {
		return stats
	}

	meters := 0.0
	for i := 1; i < len(locations); i++ {
		prev, cur := locations[i-1], locations[i]
		meters += geo.DistanceMeters(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
	}
	elapsed := locations[len(locations)-1].Timestamp.Sub(locations[0].Timestamp)

	stats.TotalDistance = common.RoundTo(meters/1000, 2)
	stats.TotalTime = common.RoundTo(elapsed.Hours(), 2)
	stats.MostVisited = mostVisited(locations)
	return stats
}

func (s *SafeKids) getLocationStats(ctx context.Context, childID string, dateRange DateRange) (*LocationStats, error) {
	now := s.now()
	if dateRange.Start.IsZero() {
		dateRange.Start = now.Add(-DefaultLocationStatsWindow)
	}
	if dateRange.End.IsZero() {
		dateRange.End = now
	}
	if dateRange.End.Before(dateRange.Start) {
		return nil, invalid(MsgDateRangeInvalid)
	}

	locations, err := s.locationHistory(ctx, childID, dateRange)
	if err != nil {
		return nil, err
	}
	return ComputeLocationStats(locations), nil
}

type ILocationImpl struct {
	sk *SafeKids
}

func (il *ILocationImpl) ReportLocation(ctx context.Context, childID string, input *LocationInput) (*models.Location, error) {
	return il.sk.reportLocation(ctx, childID, input)
}

func (il *ILocationImpl) GetLocationStats(ctx context.Context, childID string, dateRange DateRange) (*LocationStats, error) {
	return il.sk.getLocationStats(ctx, childID, dateRange)
}

func (s *SafeKids) GetILocation() ILocation {
	return &ILocationImpl{sk: s}
}
