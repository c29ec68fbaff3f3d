package safekids_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
	_ "liyu1981.xyz/safekids-geofence-service/pkg/testing"
)

func TestComputeLocationStatsOneKilometerOneHour(t *testing.T) {
	start := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	stats := safekids.ComputeLocationStats([]models.Location{
		visit(school, start),
		visit(geo.OffsetNorth(school, 1000), start.Add(time.Hour)),
	})

	assert.Equal(t, 1.00, stats.TotalDistance)
	assert.Equal(t, 1.00, stats.TotalTime)
	require.Len(t, stats.MostVisited, 2)
	assert.Equal(t, 1, stats.MostVisited[0].Count)
	assert.Equal(t, "Địa điểm", stats.MostVisited[0].Address)
}

func TestComputeLocationStatsTooFewPoints(t *testing.T) {
	stats := safekids.ComputeLocationStats([]models.Location{visit(school, time.Now())})
	assert.Zero(t, stats.TotalDistance)
	assert.Zero(t, stats.TotalTime)
	assert.NotNil(t, stats.MostVisited)
	assert.Empty(t, stats.MostVisited)

	assert.Empty(t, safekids.ComputeLocationStats(nil).MostVisited)
}

func TestComputeLocationStatsMostVisited(t *testing.T) {
	start := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	home := geo.Point{Latitude: 10.8000001234, Longitude: 106.7000004321}
	var points []models.Location
	add := func(p geo.Point, n int) {
		for range n {
			points = append(points, visit(p, start.Add(time.Duration(len(points))*time.Minute)))
		}
	}
	add(home, 4)
	add(school, 2)
	add(geo.OffsetNorth(school, 5000), 3)
	add(geo.OffsetNorth(school, 9000), 1)
	add(geo.OffsetNorth(home, 60), 1)

	stats := safekids.ComputeLocationStats(points)
	require.Len(t, stats.MostVisited, 3)
	assert.Equal(t, 5, stats.MostVisited[0].Count)
	assert.Equal(t, 3, stats.MostVisited[1].Count)
	assert.Equal(t, 2, stats.MostVisited[2].Count)
	assert.Equal(t, common.RoundTo(stats.MostVisited[0].Longitude, 6), stats.MostVisited[0].Longitude)
	assert.InDelta(t, 106.700000, stats.MostVisited[0].Longitude, 1e-6)
}

func TestGetLocationStatsDefaultsToLastDay(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, _, _, _ := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	_, children := seedFamily(t, sk, 1)
	child := children[0].ID
	now := time.Now().UTC()
	for i, loc := range []models.Location{
		visit(school, now.Add(-48*time.Hour)),
		visit(school, now.Add(-2*time.Hour)),
		visit(geo.OffsetNorth(school, 1000), now.Add(-1*time.Hour)),
	} {
		loc.ChildID = child
		require.NoError(t, sk.Db.Conn.Create(&loc).Error, "location %d", i)
	}

	stats, err := sk.Location.GetLocationStats(context.Background(), child, safekids.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 1.00, stats.TotalDistance)
	assert.Equal(t, 1.00, stats.TotalTime)

	_, err = sk.Location.GetLocationStats(context.Background(), child, safekids.DateRange{Start: now, End: now.Add(-time.Hour)})
	assert.ErrorIs(t, err, safekids.ErrInvalidInput)
}

func TestReportLocationStoresAndEvaluates(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, mockIDetection, _, _ := GetMockSafeKidsWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	_, children := seedFamily(t, sk, 1)
	child := children[0].ID
	at := time.Date(2025, 9, 2, 7, 30, 0, 0, time.FixedZone("ICT", 7*3600))

	mockIDetection.EXPECT().
		EvaluateLocation(gomock.Any(), child, 10.8484, 106.7730).
		Return(nil, errors.New("store unavailable")).
		Times(1)

	loc, err := sk.Location.ReportLocation(context.Background(), child, &safekids.LocationInput{
		Latitude:     10.8484,
		Longitude:    106.7730,
		Accuracy:     12.5,
		BatteryLevel: ptr(80),
		Timestamp:    &at,
	})
	require.NoError(t, err, "evaluation failure does not fail the location write")
	assert.True(t, loc.Timestamp.Equal(at))

	var saved models.Location
	require.NoError(t, sk.Db.Conn.First(&saved, loc.ID).Error)
	assert.Equal(t, child, saved.ChildID)
	assert.Equal(t, 80, *saved.BatteryLevel)
}

func TestReportLocationValidation(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, mockIDetection, _, _ := GetMockSafeKidsWithMemorySqliteDialector(t, true, false)
	defer ctrl.Finish()

	parent, children := seedFamily(t, sk, 1)
	child := children[0].ID
	mockIDetection.EXPECT().EvaluateLocation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	cases := []struct {
		input *safekids.LocationInput
		msg   string
	}{
		{&safekids.LocationInput{Latitude: 91, Longitude: 0}, safekids.MsgCoordinateInvalid},
		{&safekids.LocationInput{Latitude: 0, Longitude: -181}, safekids.MsgCoordinateInvalid},
		{&safekids.LocationInput{Latitude: 10, Longitude: 106, BatteryLevel: ptr(101)}, safekids.MsgBatteryInvalid},
		{&safekids.LocationInput{Latitude: 10, Longitude: 106, Accuracy: -1}, safekids.MsgAccuracyInvalid},
	}
	for _, c := range cases {
		_, err := sk.Location.ReportLocation(context.Background(), child, c.input)
		require.ErrorIs(t, err, safekids.ErrInvalidInput)
		assert.EqualError(t, err, c.msg)
	}

	_, err := sk.Location.ReportLocation(context.Background(), parent.ID, &safekids.LocationInput{Latitude: 10, Longitude: 106})
	assert.ErrorIs(t, err, safekids.ErrForbidden)
}

func TestReportLocationEndToEnd(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl, sk, _, _, c := GetMockSafeKidsWithMemorySqliteDialector(t, false, false)
	defer ctrl.Finish()

	parent, children := seedFamily(t, sk, 1)
	child := children[0].ID
	seedGeofence(t, sk, parent.ID, models.GeofenceTypeSafe, school, 100, child)

	c.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true).Times(1)
	c.geocoder.EXPECT().ResolveAddress(gomock.Any(), gomock.Any(), gomock.Any()).Return("x").Times(1)
	c.emitter.EXPECT().Emit(parent.ID, gomock.Any(), gomock.Any()).Return(true).Times(1)

	ctx := context.Background()
	for _, p := range []geo.Point{school, school, {Latitude: 10.8500, Longitude: 106.7750}} {
		_, err := sk.Location.ReportLocation(ctx, child, &safekids.LocationInput{Latitude: p.Latitude, Longitude: p.Longitude})
		require.NoError(t, err)
	}

	page, err := sk.Alert.ListAlerts(ctx, parent.ID, safekids.AlertFilter{ChildID: child}, safekids.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Alerts, 1)
	assert.Equal(t, models.GeofenceActionExit, page.Alerts[0].Action)
}
