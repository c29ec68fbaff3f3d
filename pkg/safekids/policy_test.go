package safekids_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids/mocks"
	_ "liyu1981.xyz/safekids-geofence-service/pkg/testing"
)

func TestShouldAlert(t *testing.T) {
	cases := []struct {
		zone   models.GeofenceType
		action models.GeofenceAction
		want   bool
	}{
		{models.GeofenceTypeSafe, models.GeofenceActionExit, true},
		{models.GeofenceTypeSafe, models.GeofenceActionEnter, false},
		{models.GeofenceTypeDanger, models.GeofenceActionEnter, true},
		{models.GeofenceTypeDanger, models.GeofenceActionExit, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, safekids.ShouldAlert(c.zone, c.action), "%s/%s", c.zone, c.action)
	}
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t, "Minh đã rời khỏi Trường học", safekids.AlertMessage("Minh", models.GeofenceActionExit, "Trường học"))
	assert.Equal(t, "Minh đã vào Công trường", safekids.AlertMessage("Minh", models.GeofenceActionEnter, "Công trường"))
	assert.Equal(t, "child-1-geo-1", safekids.ThrottleKey("child-1", "geo-1"))
}

func newTransition(g models.Geofence, childID string, action models.GeofenceAction) *safekids.Transition {
	return &safekids.Transition{
		Geofence:  g,
		ChildID:   childID,
		Action:    action,
		Location:  geo.Point{Latitude: 10.85, Longitude: 106.775},
		Timestamp: time.Now().UTC(),
	}
}

func TestProcessTransitionSideEffectsAreIndependent(t *testing.T) {
	var buf bytes.Buffer
	common.SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	ctrl, sk, _, _, c := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	parent, children := seedFamily(t, sk, 1)
	g := seedGeofence(t, sk, parent.ID, models.GeofenceTypeSafe, school, 100, children[0].ID)

	c.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string, string, map[string]string) bool {
			panic("push transport down")
		})
	c.geocoder.EXPECT().ResolveAddress(gomock.Any(), gomock.Any(), gomock.Any()).Return("10.8500, 106.7750")
	c.emitter.EXPECT().Emit(parent.ID, safekids.AlertRealtimeEvent, gomock.Any()).Return(true)

	out := sk.Alert.ProcessTransition(context.Background(), newTransition(g, children[0].ID, models.GeofenceActionExit))

	assert.True(t, out.Worthy)
	assert.Equal(t, 0, out.NotifiedCount)
	assert.Equal(t, 1, out.EmittedCount)
	require.NotNil(t, out.Alert, "alert is logged even when notify fails")
	assert.False(t, out.Alert.Notified)

	found := false
	for _, entry := range ParseLogs(&buf) {
		if entry["msg"] == "Alert side effect panicked" && entry["effect"] == "notify" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestProcessTransitionEmitPayload(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, _, _, c := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	parent, children := seedFamily(t, sk, 1)
	child := children[0]
	g := seedGeofence(t, sk, parent.ID, models.GeofenceTypeDanger, school, 100, child.ID)
	tr := newTransition(g, child.ID, models.GeofenceActionEnter)

	c.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true)
	c.geocoder.EXPECT().ResolveAddress(gomock.Any(), 10.85, 106.775).Return("Chợ Thủ Đức")

	var event safekids.AlertEvent
	c.emitter.EXPECT().Emit(parent.ID, "geofenceAlert", gomock.Any()).
		DoAndReturn(func(_ string, _ string, payload any) bool {
			event = payload.(safekids.AlertEvent)
			return true
		})

	out := sk.Alert.ProcessTransition(context.Background(), tr)
	require.NotNil(t, out.Alert)
	assert.True(t, out.Alert.Notified)

	assert.Equal(t, g.ID, event.GeofenceID)
	assert.Equal(t, child.ID, event.ChildID)
	assert.Equal(t, child.FullName, event.ChildName)
	assert.Equal(t, g.Name, event.GeofenceName)
	assert.Equal(t, models.GeofenceTypeDanger, event.ZoneType)
	assert.Equal(t, models.GeofenceActionEnter, event.Action)
	assert.Equal(t, "Chợ Thủ Đức", event.Location.Address)
	assert.Equal(t, tr.Timestamp, event.Timestamp)
}

func TestProcessTransitionWithoutParents(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, _, _, c := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	orphan := models.User{ID: uuid.NewString(), FullName: "Lan", Role: models.UserRoleChild}
	require.NoError(t, sk.Db.Conn.Create(&orphan).Error)
	g := seedGeofence(t, sk, "nobody", models.GeofenceTypeSafe, school, 100, orphan.ID)

	c.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	c.emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	out := sk.Alert.ProcessTransition(context.Background(), newTransition(g, orphan.ID, models.GeofenceActionExit))
	require.NotNil(t, out.Alert)
	assert.False(t, out.Alert.Notified)
}

func TestProcessTransitionUnknownChild(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, _, _, _ := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	g := seedGeofence(t, sk, "nobody", models.GeofenceTypeSafe, school, 100, "ghost")
	out := sk.Alert.ProcessTransition(context.Background(), newTransition(g, "ghost", models.GeofenceActionExit))
	assert.True(t, out.Worthy)
	assert.Nil(t, out.Alert)
}

func TestProcessTransitionPublishesAndRespectsThrottle(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, _, _, c := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	mockThrottle := mocks.NewMockThrottle(ctrl)
	sk.WithCollaborators(safekids.Collaborators{Publisher: c.publisher, Throttle: mockThrottle})

	parent, children := seedFamily(t, sk, 1)
	g := seedGeofence(t, sk, parent.ID, models.GeofenceTypeSafe, school, 100, children[0].ID)
	key := safekids.ThrottleKey(children[0].ID, g.ID)

	gomock.InOrder(
		mockThrottle.EXPECT().Allow(gomock.Any(), key).Return(true),
		mockThrottle.EXPECT().Allow(gomock.Any(), key).Return(false),
	)
	c.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(1)
	c.geocoder.EXPECT().ResolveAddress(gomock.Any(), gomock.Any(), gomock.Any()).Return("x").Times(1)
	c.emitter.EXPECT().Emit(gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(1)
	c.publisher.EXPECT().
		PublishAlert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, a *models.GeofenceAlert, geofence *models.Geofence) error {
			assert.Equal(t, g.ID, a.GeofenceID)
			assert.Equal(t, g.Name, geofence.Name)
			return errors.New("broker unavailable")
		}).
		Times(1)

	first := sk.Alert.ProcessTransition(context.Background(), newTransition(g, children[0].ID, models.GeofenceActionExit))
	require.NotNil(t, first.Alert, "publish failure does not undo the alert")

	second := sk.Alert.ProcessTransition(context.Background(), newTransition(g, children[0].ID, models.GeofenceActionExit))
	assert.True(t, second.Throttled)
	assert.Nil(t, second.Alert)
}
