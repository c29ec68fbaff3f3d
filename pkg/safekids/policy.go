package safekids

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const AlertThrottleWindow = 5 * time.Minute

// AlertOutcome reports what the policy did with one transition.
type AlertOutcome struct {
	Worthy        bool
	Throttled     bool
	Message       string
	NotifiedCount int
	EmittedCount  int
	Alert         *models.GeofenceAlert
}

// ShouldAlert is the fixed policy: leaving a safe zone or entering a danger
// zone notifies parents.
func ShouldAlert(zone models.GeofenceType, action models.GeofenceAction) bool {
	return (zone == models.GeofenceTypeSafe && action == models.GeofenceActionExit) ||
		(zone == models.GeofenceTypeDanger && action == models.GeofenceActionEnter)
}

func ThrottleKey(childID, geofenceID string) string {
	return childID + "-" + geofenceID
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

// AlertEvent is the realtime payload pushed to parent sessions.
type AlertEvent struct {
	GeofenceID   string                `json:"geofenceId"`
	ChildID      string                `json:"childId"`
	ChildName    string                `json:"childName"`
	GeofenceName string                `json:"geofenceName"`
	ZoneType     models.GeofenceType   `json:"zoneType"`
	Action       models.GeofenceAction `json:"action"`
	Timestamp    time.Time             `json:"timestamp"`
	Location     LocationPayload       `json:"location"`
}

// guard runs one side effect in its own failure boundary.
func guard(logger *zap.Logger, effect string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			metrics.SideEffectFailuresTotal.WithLabelValues(effect).Inc()
			logger.Error("Alert side effect panicked", zap.String("effect", effect), zap.Any("panic", r))
		}
	}()
	fn()
}

func (s *SafeKids) processTransition(ctx context.Context, t *Transition) *AlertOutcome {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryAlert)
	out := &AlertOutcome{}

	if !ShouldAlert(t.Geofence.Type, t.Action) {
		logger.Debug("Transition is not alert-worthy",
			zap.String("geofenceId", t.Geofence.ID),
			zap.String("type", string(t.Geofence.Type)),
			zap.String("action", string(t.Action)),
		)
		return out
	}
	out.Worthy = true

	key := ThrottleKey(t.ChildID, t.Geofence.ID)
	if s.Throttle != nil && !s.Throttle.Allow(ctx, key) {
		out.Throttled = true
		metrics.AlertsThrottledTotal.Inc()
		common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryThrottle).
			Info("Alert throttled", zap.String("key", key))
		return out
	}

	child, err := s.Directory.GetUser(ctx, t.ChildID)
	if err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("directory").Inc()
		logger.Warn("Child not found, alert dropped", zap.String("childId", t.ChildID), zap.Error(err))
		return out
	}
	parents, err := s.Directory.LinkedParents(ctx, t.ChildID)
	if err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("directory").Inc()
		logger.Warn("Failed to resolve linked parents", zap.String("childId", t.ChildID), zap.Error(err))
		parents = nil
	}

	childName := child.DisplayName()
	out.Message = AlertMessage(childName, t.Action, t.Geofence.Name)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		guard(logger, "notify", func() {
			out.NotifiedCount = s.notifyParents(ctx, parents, t, out.Message)
		})
	}()
	go func() {
		defer wg.Done()
		guard(logger, "emit", func() {
			out.EmittedCount = s.emitToParents(ctx, parents, t, childName)
		})
	}()
	wg.Wait()

	guard(logger, "log", func() {
		out.Alert = s.logAlert(ctx, t, out.NotifiedCount > 0)
	})
	if out.Alert != nil && s.Publisher != nil {
		guard(logger, "publish", func() {
			if err := s.Publisher.PublishAlert(ctx, out.Alert, &t.Geofence); err != nil {
				metrics.SideEffectFailuresTotal.WithLabelValues("publish").Inc()
				logger.Warn("Failed to publish alert event", zap.String("alertId", out.Alert.ID), zap.Error(err))
			}
		})
	}

	metrics.AlertsTotal.WithLabelValues(string(t.Geofence.Type), string(t.Action)).Inc()
	logger.Info("Alert delivered",
		zap.String("message", out.Message),
		zap.Int("parents", len(parents)),
		zap.Int("notified", out.NotifiedCount),
		zap.Int("emitted", out.EmittedCount),
	)
	return out
}

func (s *SafeKids) notifyParents(ctx context.Context, parents []models.User, t *Transition, message string) int {
	if s.Notifier == nil {
		return 0
	}
	data := map[string]string{
		"type":       AlertNotificationDataType,
		"geofenceId": t.Geofence.ID,
		"childId":    t.ChildID,
		"action":     string(t.Action),
	}

	notified := 0
	for _, parent := range parents {
		if parent.FCMToken == nil || *parent.FCMToken == "" {
			continue
		}
		if s.Notifier.Send(ctx, *parent.FCMToken, AlertNotificationTitle, message, data) {
			notified++
			metrics.NotificationsTotal.WithLabelValues("delivered").Inc()
		} else {
			metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryAlert).
				Warn("Push notification not delivered", zap.String("parentId", parent.ID))
		}
	}
	return notified
}

func (s *SafeKids) emitToParents(ctx context.Context, parents []models.User, t *Transition, childName string) int {
	if s.Emitter == nil || len(parents) == 0 {
		return 0
	}

	address := ""
	if s.Geocoder != nil {
		address = s.Geocoder.ResolveAddress(ctx, t.Location.Latitude, t.Location.Longitude)
	}
	event := AlertEvent{
		GeofenceID:   t.Geofence.ID,
		ChildID:      t.ChildID,
		ChildName:    childName,
		GeofenceName: t.Geofence.Name,
		ZoneType:     t.Geofence.Type,
		Action:       t.Action,
		Timestamp:    t.Timestamp,
		Location: LocationPayload{
			Latitude:  t.Location.Latitude,
			Longitude: t.Location.Longitude,
			Address:   address,
		},
	}

	emitted := 0
	for _, parent := range parents {
		if s.Emitter.Emit(parent.ID, AlertRealtimeEvent, event) {
			emitted++
			metrics.RealtimeEmitsTotal.WithLabelValues("delivered").Inc()
		} else {
			metrics.RealtimeEmitsTotal.WithLabelValues("offline").Inc()
		}
	}
	return emitted
}

func (s *SafeKids) logAlert(ctx context.Context, t *Transition, notified bool) *models.GeofenceAlert {
	alert := models.GeofenceAlert{
		ID:         uuid.NewString(),
		GeofenceID: t.Geofence.ID,
		ChildID:    t.ChildID,
		Action:     t.Action,
		Latitude:   t.Location.Latitude,
		Longitude:  t.Location.Longitude,
		Timestamp:  t.Timestamp,
		Notified:   notified,
	}
	if err := s.Db.Conn.WithContext(ctx).Create(&alert).Error; err != nil {
		metrics.SideEffectFailuresTotal.WithLabelValues("log").Inc()
		common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryAlert).
			Warn("Failed to store geofence alert", zap.Reflect("alert", alert), zap.Error(err))
		return nil
	}
	return &alert
}
