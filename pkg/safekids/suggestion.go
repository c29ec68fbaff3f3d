package safekids

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	DuplicateGeofenceMeters = 200.0
	DismissedMatchMeters    = 100.0
	DismissalRetention      = 90 * 24 * time.Hour
)

type Suggestion struct {
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Center          geo.Point           `json:"center"`
	VisitCount      int                 `json:"visitCount"`
	SuggestedRadius float64             `json:"suggestedRadius"`
	SuggestedType   models.GeofenceType `json:"suggestedType"`
}

// FilterSuggestions drops clusters already covered by a geofence or close to
// a dismissed location, and numbers the rest in rank order.
func FilterSuggestions(clusters []LocationCluster, existing []models.Geofence, dismissed []models.DismissedSuggestion) []Suggestion {
	suggestions := []Suggestion{}
	for _, c := range clusters {
		if nearGeofence(c.Center, existing) || nearDismissed(c.Center, dismissed) {
			continue
		}
		n := len(suggestions) + 1
		suggestions = append(suggestions, Suggestion{
			ID:              fmt.Sprintf("suggestion-%d", n),
			Name:            suggestionName(c.LocationName, n),
			Center:          c.Center,
			VisitCount:      c.VisitCount,
			SuggestedRadius: c.SuggestedRadius,
			SuggestedType:   models.GeofenceTypeSafe,
		})
	}
	return suggestions
}

func nearGeofence(center geo.Point, geofences []models.Geofence) bool {
	for _, g := range geofences {
		if center.DistanceTo(geo.Point{Latitude: g.CenterLat, Longitude: g.CenterLng}) <= DuplicateGeofenceMeters {
			return true
		}
	}
	return false
}

func nearDismissed(center geo.Point, dismissed []models.DismissedSuggestion) bool {
	for _, d := range dismissed {
		if center.DistanceTo(geo.Point{Latitude: d.Latitude, Longitude: d.Longitude}) <= DismissedMatchMeters {
			return true
		}
	}
	return false
}

func (s *SafeKids) requireLinkedParent(ctx context.Context, parentID string, childID string) error {
	if _, err := s.requireParent(ctx, parentID); err != nil {
		return err
	}
	linked, err := s.Directory.IsLinked(ctx, parentID, childID)
	if err != nil {
		return err
	}
	if !linked {
		return ErrForbidden
	}
	return nil
}

func (s *SafeKids) getSuggestions(ctx context.Context, parentID string, childID string) ([]Suggestion, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategorySuggestion)

	if err := s.requireLinkedParent(ctx, parentID, childID); err != nil {
		return nil, err
	}

	clusters, err := s.findFrequentLocations(ctx, childID, ClusterLookbackDays)
	if err != nil {
		return nil, err
	}
	if len(clusters) == 0 {
		return []Suggestion{}, nil
	}

	var existing []models.Geofence
	err = s.Db.Conn.WithContext(ctx).
		Joins("JOIN geofence_children ON geofence_children.geofence_id = geofences.id").
		Where("geofences.parent_id = ? AND geofence_children.child_id = ?", parentID, childID).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}

	var dismissed []models.DismissedSuggestion
	err = s.Db.Conn.WithContext(ctx).
		Where("parent_id = ? AND child_id = ? AND dismissed_at >= ?", parentID, childID, s.now().Add(-DismissalRetention)).
		Find(&dismissed).Error
	if err != nil {
		return nil, err
	}

	suggestions := FilterSuggestions(clusters, existing, dismissed)
	logger.Info("Suggestions computed",
		zap.String("childId", childID),
		zap.Int("clusters", len(clusters)),
		zap.Int("suggestions", len(suggestions)),
	)
	return suggestions, nil
}

func (s *SafeKids) dismissSuggestion(ctx context.Context, parentID string, childID string, location geo.Point) error {
	if err := s.requireLinkedParent(ctx, parentID, childID); err != nil {
		return err
	}
	if !geo.ValidCoordinate(location.Latitude, location.Longitude) {
		return invalid(MsgCoordinateInvalid)
	}

	record := models.DismissedSuggestion{
		ParentID:    parentID,
		ChildID:     childID,
		Latitude:    location.Latitude,
		Longitude:   location.Longitude,
		DismissedAt: s.now(),
	}
	if err := s.Db.Conn.WithContext(ctx).Create(&record).Error; err != nil {
		return err
	}

	common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategorySuggestion).
		Info("Suggestion dismissed", zap.Reflect("dismissed", record))
	return nil
}

type ISuggestionImpl struct {
	sk *SafeKids
}

func (is *ISuggestionImpl) GetSuggestions(ctx context.Context, parentID string, childID string) ([]Suggestion, error) {
	return is.sk.getSuggestions(ctx, parentID, childID)
}

func (is *ISuggestionImpl) DismissSuggestion(ctx context.Context, parentID string, childID string, location geo.Point) error {
	return is.sk.dismissSuggestion(ctx, parentID, childID, location)
}

func (s *SafeKids) GetISuggestion() ISuggestion {
	return &ISuggestionImpl{sk: s}
}
