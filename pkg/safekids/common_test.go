package safekids_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids/mocks"
)

type collaborators struct {
	notifier  *mocks.MockNotifier
	emitter   *mocks.MockEmitter
	geocoder  *mocks.MockGeocoder
	publisher *mocks.MockAlertPublisher
	throttle  *safekids.MemoryThrottle
}

func GetMockSafeKidsWithMemorySqliteDialector(t *testing.T, useMockIDetection, useMockIAlert bool) (
	*gomock.Controller,
	*safekids.SafeKids,
	*mocks.MockIDetection,
	*mocks.MockIAlert,
	*collaborators,
) {
	ctrl := gomock.NewController(t)

	mockIDetection := mocks.NewMockIDetection(ctrl)
	mockIAlert := mocks.NewMockIAlert(ctrl)
	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())

	c := &collaborators{
		notifier:  mocks.NewMockNotifier(ctrl),
		emitter:   mocks.NewMockEmitter(ctrl),
		geocoder:  mocks.NewMockGeocoder(ctrl),
		publisher: mocks.NewMockAlertPublisher(ctrl),
		throttle:  safekids.NewMemoryThrottle(safekids.AlertThrottleWindow),
	}

	sk := (&safekids.SafeKids{Db: *dbInstance}).
		WithCollaborators(safekids.Collaborators{
			Directory: safekids.NewGormDirectory(*dbInstance),
			Notifier:  c.notifier,
			Emitter:   c.emitter,
			Geocoder:  c.geocoder,
			Throttle:  c.throttle,
		}).
		WithDefaultServices()

	if useMockIDetection {
		sk.WithServices(safekids.ServiceOpts{Detection: mockIDetection})
	}
	if useMockIAlert {
		sk.WithServices(safekids.ServiceOpts{Alert: mockIAlert})
	}

	return ctrl, sk, mockIDetection, mockIAlert, c
}

func ptr[T any](v T) *T {
	return &v
}

// seedFamily stores one parent with a push token and n linked children.
func seedFamily(t *testing.T, sk *safekids.SafeKids, n int) (models.User, []models.User) {
	t.Helper()
	parent := models.User{
		ID:       uuid.NewString(),
		FullName: "Phụ huynh",
		Role:     models.UserRoleParent,
		FCMToken: ptr("token-" + uuid.NewString()),
	}
	require.NoError(t, sk.Db.Conn.Create(&parent).Error)

	children := make([]models.User, n)
	for i := range children {
		children[i] = models.User{
			ID:       uuid.NewString(),
			FullName: "Bé " + string(rune('A'+i)),
			Role:     models.UserRoleChild,
		}
		require.NoError(t, sk.Db.Conn.Create(&children[i]).Error)
		require.NoError(t, sk.Db.Conn.Create(&models.ParentChild{ParentID: parent.ID, ChildID: children[i].ID}).Error)
	}
	return parent, children
}

// seedGeofence writes a geofence directly, bypassing validation.
func seedGeofence(t *testing.T, sk *safekids.SafeKids, parentID string, zone models.GeofenceType, center geo.Point, radius float64, childIDs ...string) models.Geofence {
	t.Helper()
	id := uuid.NewString()
	links := make([]models.GeofenceChild, len(childIDs))
	for i, c := range childIDs {
		links[i] = models.GeofenceChild{GeofenceID: id, ChildID: c}
	}
	g := models.Geofence{
		ID:             id,
		ParentID:       parentID,
		Name:           "Vùng " + string(zone),
		Type:           zone,
		CenterLat:      center.Latitude,
		CenterLng:      center.Longitude,
		Radius:         radius,
		Active:         true,
		LinkedChildren: links,
	}
	require.NoError(t, sk.Db.Conn.Create(&g).Error)
	return g
}

func seedAlert(t *testing.T, sk *safekids.SafeKids, geofenceID, childID string, ts time.Time) models.GeofenceAlert {
	t.Helper()
	a := models.GeofenceAlert{
		ID:         uuid.NewString(),
		GeofenceID: geofenceID,
		ChildID:    childID,
		Action:     models.GeofenceActionExit,
		Latitude:   10.8484,
		Longitude:  106.7730,
		Timestamp:  ts.UTC(),
		Notified:   true,
	}
	require.NoError(t, sk.Db.Conn.Create(&a).Error)
	return a
}

func evaluate(t *testing.T, sk *safekids.SafeKids, childID string, p geo.Point) []safekids.EvaluationResult {
	t.Helper()
	results, err := sk.Detection.EvaluateLocation(context.Background(), childID, p.Latitude, p.Longitude)
	require.NoError(t, err)
	return results
}

func ParseLogs(r io.Reader) []map[string]any {
	scanner := bufio.NewScanner(r)
	var logs []map[string]any

	for scanner.Scan() {
		var j map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
