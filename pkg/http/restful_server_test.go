package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	_ "liyu1981.xyz/safekids-geofence-service/pkg/testing"

	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/geocoding"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/notify"
	"liyu1981.xyz/safekids-geofence-service/pkg/realtime"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
)

func setupTestServer() *RestfulServer {
	dbInstance := db.GetInstance(db.UseMemorySqliteDialector())
	hub := realtime.NewHub(realtime.DefaultConfig())

	sk := (&safekids.SafeKids{Db: *dbInstance}).
		WithCollaborators(safekids.Collaborators{
			Directory: safekids.NewGormDirectory(*dbInstance),
			Notifier:  notify.NewLogSender(),
			Emitter:   hub,
			Geocoder:  geocoding.NewService(nil, geocoding.ServiceOpts{}),
			Throttle:  safekids.NewMemoryThrottle(safekids.AlertThrottleWindow),
		}).
		WithDefaultServices()

	rs := &RestfulServer{
		Server:   gin.New(),
		SafeKids: sk,
		Hub:      hub,
		// no limiter by default, assign rs.RateLimiterStore = safekids.NewRateLimiterStore(...) when needed
	}

	rs.Setup()

	return rs
}

type envelope struct {
	Success      bool            `json:"success"`
	Data         json.RawMessage `json:"data"`
	Message      string          `json:"message"`
	Error        any             `json:"error"`
	Unauthorized []string        `json:"unauthorized"`
}

func do(t *testing.T, rs *RestfulServer, method, path, userID string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func seedFamily(t *testing.T, rs *RestfulServer, n int) (string, []string) {
	t.Helper()
	conn := rs.SafeKids.Db.Conn
	token := "token-" + uuid.NewString()
	parent := models.User{ID: uuid.NewString(), FullName: "Mẹ", Role: models.UserRoleParent, FCMToken: &token}
	require.NoError(t, conn.Create(&parent).Error)

	children := make([]string, n)
	for i := range children {
		child := models.User{ID: uuid.NewString(), Name: "Minh", Role: models.UserRoleChild}
		require.NoError(t, conn.Create(&child).Error)
		require.NoError(t, conn.Create(&models.ParentChild{ParentID: parent.ID, ChildID: child.ID}).Error)
		children[i] = child.ID
	}
	return parent.ID, children
}

func schoolBody(childIDs ...string) map[string]any {
	return map[string]any{
		"name":           "Trường học",
		"type":           "safe",
		"centerLat":      10.8484,
		"centerLng":      106.7730,
		"radius":         100,
		"linkedChildren": childIDs,
	}
}

func TestHealthCheck(t *testing.T) {
	rs := setupTestServer()

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	rs := setupTestServer()
	do(t, rs, "GET", "/healthz", "", nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	rs.Server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "safekids_http_requests_total")
}

func TestCallerRequired(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	w, env := do(t, rs, "GET", "/geofences", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgCallerRequired, env.Error)
}

func TestCallerRateLimit(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()
	rs.RateLimiterStore = safekids.NewRateLimiterStore(rate.Limit(0.001), 2)

	parent, _ := seedFamily(t, rs, 1)
	for range 2 {
		w, _ := do(t, rs, "GET", "/geofences", parent, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, _ := do(t, rs, "GET", "/geofences", parent, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	other, _ := seedFamily(t, rs, 1)
	w, _ = do(t, rs, "GET", "/geofences", other, nil)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per caller")
}

func TestGeofenceLifecycle(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	parent, children := seedFamily(t, rs, 1)
	child := children[0]

	body := schoolBody(child)
	body["activeHours"] = map[string]any{"start": "07:00", "end": "17:00"}
	w, env := do(t, rs, "POST", "/geofences", parent, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct{ Geofence models.Geofence }](t, env.Data).Geofence
	assert.True(t, created.Active)
	assert.Equal(t, "07:00", created.ActiveHours.Start)
	require.Len(t, created.LinkedChildren, 1)
	assert.Equal(t, "Minh", created.LinkedChildren[0].ChildName)

	w, env = do(t, rs, "GET", "/geofences?childId="+child, parent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decode[struct{ Geofences []models.Geofence }](t, env.Data).Geofences
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)

	w, _ = do(t, rs, "GET", "/geofences/"+created.ID, child, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, rs, "PUT", "/geofences/"+created.ID, parent, `{"radius":250,"activeHours":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct{ Geofence models.Geofence }](t, env.Data).Geofence
	assert.Equal(t, 250.0, updated.Radius)
	assert.Nil(t, updated.ActiveHours)
	assert.Equal(t, "Trường học", updated.Name)

	w, env = do(t, rs, "PUT", "/geofences/"+created.ID, parent, `{"radius":2000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, safekids.MsgGeofenceRadiusInvalid, env.Error)

	w, _ = do(t, rs, "DELETE", "/geofences/"+created.ID, child, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = do(t, rs, "DELETE", "/geofences/"+created.ID, parent, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	w, _ = do(t, rs, "GET", "/geofences/"+created.ID, parent, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateGeofenceRejects(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	parent, children := seedFamily(t, rs, 1)

	body := schoolBody(children[0])
	delete(body, "centerLat")
	w, env := do(t, rs, "POST", "/geofences", parent, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgCenterRequired, env.Error)

	body = schoolBody(children[0])
	body["radius"] = 20
	w, env = do(t, rs, "POST", "/geofences", parent, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bán kính phải từ 50-1000 mét", env.Error)

	body = schoolBody()
	w, env = do(t, rs, "POST", "/geofences", parent, body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, safekids.MsgChildrenRequired, env.Error)

	w, _ = do(t, rs, "POST", "/geofences", children[0], schoolBody(children[0]))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = do(t, rs, "POST", "/geofences", uuid.NewString(), schoolBody(children[0]))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBulkOperations(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	parent, children := seedFamily(t, rs, 1)
	other, otherChildren := seedFamily(t, rs, 1)

	create := func(userID, childID string) string {
		w, env := do(t, rs, "POST", "/geofences", userID, schoolBody(childID))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		return decode[struct{ Geofence models.Geofence }](t, env.Data).Geofence.ID
	}
	g1, g2 := create(parent, children[0]), create(parent, children[0])
	foreign := create(other, otherChildren[0])

	w, env := do(t, rs, "POST", "/geofences/bulk-update", parent, map[string]any{
		"geofenceIds": []string{g1, g2},
		"updates":     map[string]any{"active": false},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 2, decode[struct{ UpdatedCount int64 }](t, env.Data).UpdatedCount)

	w, env = do(t, rs, "POST", "/geofences/bulk-update", parent, map[string]any{"geofenceIds": []string{g1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, safekids.MsgUpdatesRequired, env.Error)

	w, env = do(t, rs, "POST", "/geofences/bulk-delete", parent, map[string]any{"geofenceIds": []string{g1, foreign}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, []string{foreign}, env.Unauthorized)

	w, env = do(t, rs, "POST", "/geofences/bulk-delete", parent, map[string]any{"geofenceIds": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, safekids.MsgGeofenceIDsRequired, env.Error)

	w, env = do(t, rs, "POST", "/geofences/bulk-delete", parent, map[string]any{"geofenceIds": []string{g1, g2}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[struct{ DeletedCount int64 }](t, env.Data).DeletedCount)
}

func TestLocationReportRaisesAlert(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	parent, children := seedFamily(t, rs, 1)
	child := children[0]
	w, _ := do(t, rs, "POST", "/geofences", parent, schoolBody(child))
	require.Equal(t, http.StatusCreated, w.Code)

	srv := httptest.NewServer(rs.Server)
	defer srv.Close()
	header := http.Header{}
	header.Set(HeaderUserID, parent)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", header)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return rs.Hub.Connected(parent) }, time.Second, 10*time.Millisecond)

	report := func(lat, lng float64) {
		w, env := do(t, rs, "POST", "/children/"+child+"/locations", child, map[string]any{
			"latitude": lat, "longitude": lng, "accuracy": 10, "batteryLevel": 90,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.True(t, env.Success)
	}
	report(10.8484, 106.7730)
	report(10.8484, 106.7730)
	report(10.8500, 106.7750)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame realtime.Envelope
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, safekids.AlertRealtimeEvent, frame.Event)
	payload := frame.Payload.(map[string]any)
	assert.Equal(t, "exit", payload["action"])
	assert.Equal(t, "Minh", payload["childName"])

	w, env := do(t, rs, "GET", "/geofences/alerts?childId="+child, parent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	page := decode[safekids.AlertPage](t, env.Data)
	require.Len(t, page.Alerts, 1)
	assert.Equal(t, "Trường học", page.Alerts[0].GeofenceName)
	assert.True(t, page.Alerts[0].Notified)

	w, env = do(t, rs, "GET", "/geofences/alerts/stats", parent, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[safekids.AlertStats](t, env.Data)
	assert.EqualValues(t, 1, stats.Total)
	require.NotNil(t, stats.MostActiveChild)
	assert.Equal(t, child, stats.MostActiveChild.ChildID)

	w, env = do(t, rs, "GET", "/children/"+child+"/locations/stats", parent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	locationStats := decode[safekids.LocationStats](t, env.Data)
	assert.Greater(t, locationStats.TotalDistance, 0.2)
	assert.NotEmpty(t, locationStats.MostVisited)
}

func TestLocationAuthorization(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	parent, children := seedFamily(t, rs, 1)
	stranger, _ := seedFamily(t, rs, 0)
	child := children[0]

	w, _ := do(t, rs, "POST", "/children/"+child+"/locations", parent, map[string]any{"latitude": 1, "longitude": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := do(t, rs, "POST", "/children/"+child+"/locations", child, map[string]any{"latitude": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, MsgCoordinatesRequired, env.Error)

	w, env = do(t, rs, "POST", "/children/"+child+"/locations", child, map[string]any{"latitude": 1, "longitude": 1, "batteryLevel": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, safekids.MsgBatteryInvalid, env.Error)

	w, _ = do(t, rs, "GET", "/children/"+child+"/locations/stats", stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = do(t, rs, "GET", "/children/"+child+"/locations/stats", child, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[safekids.LocationStats](t, env.Data)
	assert.Zero(t, stats.TotalDistance)
	assert.NotNil(t, stats.MostVisited)
}

func TestSuggestions(t *testing.T) {
	common.SetTestLoggerNop()
	rs := setupTestServer()

	parent, children := seedFamily(t, rs, 1)
	stranger, _ := seedFamily(t, rs, 0)
	child := children[0]

	w, env := do(t, rs, "GET", "/geofences/suggestions/"+child, parent, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode[struct{ Suggestions []safekids.Suggestion }](t, env.Data).Suggestions)

	w, _ = do(t, rs, "GET", "/geofences/suggestions/"+child, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = do(t, rs, "POST", "/geofences/suggestions/dismiss", parent, map[string]any{"childId": child})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, safekids.MsgCoordinateInvalid, env.Error)

	w, env = do(t, rs, "POST", "/geofences/suggestions/dismiss", parent, map[string]any{
		"childId":  child,
		"location": map[string]any{"latitude": 10.8484, "longitude": 106.7730},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, env.Success)

	var count int64
	require.NoError(t, rs.SafeKids.Db.Conn.Model(&models.DismissedSuggestion{}).Where("child_id = ?", child).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
