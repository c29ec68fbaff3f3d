package safekids

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

// AccuracyBufferMeters widens every geofence so GPS jitter at the edge does
// not flip membership.
const AccuracyBufferMeters = 20.0

// IsInside reports membership for a point distance meters from the center.
func IsInside(distance, radius float64) bool {
	return distance <= radius+AccuracyBufferMeters
}

// Transition is a change of membership between two consecutive evaluations
// of one (child, geofence) pair.
type Transition struct {
	Geofence  models.Geofence
	ChildID   string
	Action    models.GeofenceAction
	Location  geo.Point
	Timestamp time.Time
}

type EvaluationResult struct {
	GeofenceID string
	Distance   float64
	IsInside   bool
	// Initial is set when this report created the pair's state.
	Initial    bool
	Transition *Transition
	Alert      *AlertOutcome
	Err        error
}

func (s *SafeKids) activeGeofencesFor(ctx context.Context, childID string) ([]models.Geofence, error) {
	var geofences []models.Geofence
	err := s.Db.Conn.WithContext(ctx).
		Joins("JOIN geofence_children ON geofence_children.geofence_id = geofences.id").
		Where("geofence_children.child_id = ? AND geofences.active = ?", childID, true).
		Order("geofences.created_at").
		Find(&geofences).Error
	return geofences, err
}

func (s *SafeKids) evaluateLocation(ctx context.Context, childID string, lat, lng float64) ([]EvaluationResult, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryDetection)

	start := time.Now()
	defer func() {
		metrics.EvaluationDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	geofences, err := s.activeGeofencesFor(ctx, childID)
	if err != nil {
		return nil, fmt.Errorf("load geofences for child %s: %w", childID, err)
	}

	logger.Debug("Evaluating location",
		zap.String("childId", childID),
		zap.Float64("latitude", lat),
		zap.Float64("longitude", lng),
		zap.Int("geofences", len(geofences)),
	)

	point := geo.Point{Latitude: lat, Longitude: lng}
	results := make([]EvaluationResult, 0, len(geofences))
	for _, g := range geofences {
		res := s.evaluateGeofence(ctx, childID, point, g)
		if res.Err != nil {
			metrics.EvaluationErrorsTotal.Inc()
			logger.Warn("Geofence evaluation failed",
				zap.String("childId", childID),
				zap.String("geofenceId", g.ID),
				zap.Error(res.Err),
			)
		}
		results = append(results, res)
	}
	return results, nil
}

// evaluateGeofence never panics; a failure is reported in the result so
// sibling geofences still get evaluated.
func (s *SafeKids) evaluateGeofence(ctx context.Context, childID string, point geo.Point, g models.Geofence) (res EvaluationResult) {
	res.GeofenceID = g.ID
	defer func() {
		if r := recover(); r != nil {
			res.Err = fmt.Errorf("panic while evaluating geofence %s: %v", g.ID, r)
		}
	}()

	res.Distance = geo.DistanceMeters(point.Latitude, point.Longitude, g.CenterLat, g.CenterLng)
	res.IsInside = IsInside(res.Distance, g.Radius)
	now := s.now()
	conn := s.Db.Conn.WithContext(ctx)

	state := models.GeofenceState{
		ChildID:    childID,
		GeofenceID: g.ID,
		IsInside:   res.IsInside,
		LastCheck:  now,
	}
	created := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&state)
	if created.Error != nil {
		res.Err = created.Error
		return res
	}
	if created.RowsAffected == 1 {
		res.Initial = true
		return res
	}

	var prior models.GeofenceState
	if err := conn.Where("child_id = ? AND geofence_id = ?", childID, g.ID).First(&prior).Error; err != nil {
		res.Err = err
		return res
	}

	if prior.IsInside == res.IsInside {
		res.Err = conn.Model(&prior).Update("last_check", now).Error
		return res
	}

	// Concurrent reports for the same pair race here; only the one whose
	// update flips the stored flag owns the transition.
	claim := conn.Model(&models.GeofenceState{}).
		Where("id = ? AND is_inside = ?", prior.ID, prior.IsInside).
		Updates(map[string]any{"is_inside": res.IsInside, "last_check": now})
	if claim.Error != nil {
		res.Err = claim.Error
		return res
	}
	if claim.RowsAffected == 0 {
		return res
	}

	action := models.GeofenceActionExit
	if res.IsInside {
		action = models.GeofenceActionEnter
	}
	res.Transition = &Transition{
		Geofence:  g,
		ChildID:   childID,
		Action:    action,
		Location:  point,
		Timestamp: now,
	}
	metrics.TransitionsTotal.WithLabelValues(string(g.Type), string(action)).Inc()

	common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryDetection).Info("Geofence transition",
		zap.String("childId", childID),
		zap.String("geofenceId", g.ID),
		zap.String("action", string(action)),
		zap.Float64("distance", res.Distance),
	)

	if s.Alert == nil {
		res.Err = fmt.Errorf("alert service not available")
		return res
	}
	res.Alert = s.Alert.ProcessTransition(ctx, res.Transition)
	return res
}

type IDetectionImpl struct {
	sk *SafeKids
}

func (id *IDetectionImpl) EvaluateLocation(ctx context.Context, childID string, lat, lng float64) ([]EvaluationResult, error) {
	return id.sk.evaluateLocation(ctx, childID, lat, lng)
}

func (s *SafeKids) GetIDetection() IDetection {
	return &IDetectionImpl{sk: s}
}
