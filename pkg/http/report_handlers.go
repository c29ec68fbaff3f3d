package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

type LocationRequest struct {
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Accuracy     float64    `json:"accuracy"`
	BatteryLevel *int       `json:"batteryLevel"`
	Timestamp    *time.Time `json:"timestamp"`
}

var locationRequestSchema = z.Struct(z.Shape{
	"latitude":     z.Ptr(z.Float64()),
	"longitude":    z.Ptr(z.Float64()),
	"accuracy":     z.Float64(),
	"batteryLevel": z.Ptr(z.Int()),
	"timestamp":    z.Ptr(z.Time()),
})

func (rs *RestfulServer) PostLocation(c *gin.Context) {
	childID := c.Param("child_id")
	if caller(c) != childID {
		c.JSON(http.StatusForbidden, gin.H{"error": safekids.ErrForbidden.Error()})
		return
	}

	var req LocationRequest
	if err := locationRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		badRequest(c, MsgCoordinatesRequired)
		return
	}

	location, err := rs.SafeKids.Location.ReportLocation(c.Request.Context(), childID, &safekids.LocationInput{
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Accuracy:     req.Accuracy,
		BatteryLevel: req.BatteryLevel,
		Timestamp:    req.Timestamp,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"location": location}})
}

type DateRangeQuery struct {
	StartDate time.Time
	EndDate   time.Time
}

var dateRangeQuerySchema = z.Struct(z.Shape{
	"startDate": z.Time(),
	"endDate":   z.Time(),
})

func (q DateRangeQuery) dateRange() safekids.DateRange {
	return safekids.DateRange{Start: q.StartDate, End: q.EndDate}
}

// GetLocationStats is open to the child itself and to its linked parents.
func (rs *RestfulServer) GetLocationStats(c *gin.Context) {
	childID := c.Param("child_id")
	if callerID := caller(c); callerID != childID {
		linked, err := rs.SafeKids.Directory.IsLinked(c.Request.Context(), callerID, childID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !linked {
			c.JSON(http.StatusForbidden, gin.H{"error": MsgLocationForbidden})
			return
		}
	}

	var q DateRangeQuery
	if err := dateRangeQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	stats, err := rs.SafeKids.Location.GetLocationStats(c.Request.Context(), childID, q.dateRange())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, stats)
}

type AlertQuery struct {
	StartDate  time.Time
	EndDate    time.Time
	ChildID    string `zog:"childId"`
	GeofenceID string `zog:"geofenceId"`
	Limit      int
	Skip       int
}

var alertQuerySchema = z.Struct(z.Shape{
	"startDate":  z.Time(),
	"endDate":    z.Time(),
	"childID":    z.String(),
	"geofenceID": z.String(),
	"limit":      z.Int(),
	"skip":       z.Int(),
})

func (rs *RestfulServer) ListAlerts(c *gin.Context) {
	var q AlertQuery
	if err := alertQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	page, err := rs.SafeKids.Alert.ListAlerts(c.Request.Context(), caller(c), safekids.AlertFilter{
		Range:      safekids.DateRange{Start: q.StartDate, End: q.EndDate},
		ChildID:    q.ChildID,
		GeofenceID: q.GeofenceID,
	}, safekids.Pagination{Limit: q.Limit, Skip: q.Skip})
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, page)
}

func (rs *RestfulServer) GetAlertStats(c *gin.Context) {
	var q DateRangeQuery
	if err := dateRangeQuerySchema.Parse(zhttp.Request(c.Request), &q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	stats, err := rs.SafeKids.Alert.GetAlertStats(c.Request.Context(), caller(c), q.dateRange())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, stats)
}
