package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"
)

var activeHoursSchema = z.Ptr(z.Struct(z.Shape{
	"start": z.String().Required(),
	"end":   z.String().Required(),
}))

type GeofenceRequest struct {
	Name           *string             `json:"name"`
	Type           *string             `json:"type"`
	CenterLat      *float64            `json:"centerLat"`
	CenterLng      *float64            `json:"centerLng"`
	Radius         *float64            `json:"radius"`
	ActiveHours    *models.ActiveHours `json:"activeHours"`
	LinkedChildren []string            `json:"linkedChildren"`
	Active         *bool               `json:"active"`
}

// One schema serves create and update; create additionally requires the
// fields a new geofence cannot do without.
var geofenceRequestSchema = z.Struct(z.Shape{
	"name":           z.Ptr(z.String()),
	"type":           z.Ptr(z.String()),
	"centerLat":      z.Ptr(z.Float64()),
	"centerLng":      z.Ptr(z.Float64()),
	"radius":         z.Ptr(z.Float64()),
	"activeHours":    activeHoursSchema,
	"linkedChildren": z.Slice(z.String()),
	"active":         z.Ptr(z.Bool()),
})

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (rs *RestfulServer) CreateGeofence(c *gin.Context) {
	var req GeofenceRequest
	if err := geofenceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.CenterLat == nil || req.CenterLng == nil {
		badRequest(c, MsgCenterRequired)
		return
	}

	geofence, err := rs.SafeKids.Geofence.CreateGeofence(c.Request.Context(), caller(c), &safekids.GeofenceInput{
		Name:           deref(req.Name),
		Type:           models.GeofenceType(deref(req.Type)),
		Center:         geo.Point{Latitude: *req.CenterLat, Longitude: *req.CenterLng},
		Radius:         deref(req.Radius),
		ActiveHours:    req.ActiveHours,
		LinkedChildren: req.LinkedChildren,
		Active:         req.Active,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"geofence": geofence}})
}

func (rs *RestfulServer) ListGeofences(c *gin.Context) {
	geofences, err := rs.SafeKids.Geofence.ListGeofences(c.Request.Context(), caller(c), c.Query("childId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"geofences": geofences})
}

func (rs *RestfulServer) GetGeofence(c *gin.Context) {
	geofence, err := rs.SafeKids.Geofence.GetGeofence(c.Request.Context(), caller(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"geofence": geofence})
}

// nullFields reports which top-level keys of a JSON body are explicitly null
// and rewinds the body for the schema parser.
func nullFields(c *gin.Context) map[string]bool {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}
	nulls := map[string]bool{}
	for k, v := range raw {
		if string(v) == "null" {
			nulls[k] = true
		}
	}
	return nulls
}

func (rs *RestfulServer) UpdateGeofence(c *gin.Context) {
	nulls := nullFields(c)

	var req GeofenceRequest
	if err := geofenceRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	patch := &safekids.GeofencePatch{
		Name:             req.Name,
		Radius:           req.Radius,
		ActiveHours:      req.ActiveHours,
		ClearActiveHours: nulls["activeHours"],
		Active:           req.Active,
	}
	if len(req.LinkedChildren) > 0 {
		patch.LinkedChildren = req.LinkedChildren
	}
	if req.Type != nil {
		t := models.GeofenceType(*req.Type)
		patch.Type = &t
	}
	if req.CenterLat != nil || req.CenterLng != nil {
		if req.CenterLat == nil || req.CenterLng == nil {
			badRequest(c, MsgCenterRequired)
			return
		}
		patch.Center = &geo.Point{Latitude: *req.CenterLat, Longitude: *req.CenterLng}
	}

	geofence, err := rs.SafeKids.Geofence.UpdateGeofence(c.Request.Context(), caller(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"geofence": geofence})
}

func (rs *RestfulServer) DeleteGeofence(c *gin.Context) {
	if err := rs.SafeKids.Geofence.DeleteGeofence(c.Request.Context(), caller(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vùng địa phương đã được xóa"})
}

type BulkDeleteRequest struct {
	GeofenceIDs []string `json:"geofenceIds" zog:"geofenceIds"`
}

var bulkDeleteRequestSchema = z.Struct(z.Shape{
	"geofenceIDs": z.Slice(z.String()),
})

func (rs *RestfulServer) BulkDeleteGeofences(c *gin.Context) {
	var req BulkDeleteRequest
	if err := bulkDeleteRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	deleted, err := rs.SafeKids.Geofence.BulkDeleteGeofences(c.Request.Context(), caller(c), req.GeofenceIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"deletedCount": deleted, "unauthorizedCount": 0})
}

type BulkUpdates struct {
	Active *bool    `json:"active"`
	Name   *string  `json:"name"`
	Type   *string  `json:"type"`
	Radius *float64 `json:"radius"`
}

type BulkUpdateRequest struct {
	GeofenceIDs []string     `json:"geofenceIds" zog:"geofenceIds"`
	Updates     *BulkUpdates `json:"updates"`
}

var bulkUpdateRequestSchema = z.Struct(z.Shape{
	"geofenceIDs": z.Slice(z.String()),
	"updates": z.Ptr(z.Struct(z.Shape{
		"active": z.Ptr(z.Bool()),
		"name":   z.Ptr(z.String()),
		"type":   z.Ptr(z.String()),
		"radius": z.Ptr(z.Float64()),
	})),
})

func (rs *RestfulServer) BulkUpdateGeofences(c *gin.Context) {
	var req BulkUpdateRequest
	if err := bulkUpdateRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}

	var patch *safekids.GeofenceBulkPatch
	if u := req.Updates; u != nil {
		patch = &safekids.GeofenceBulkPatch{Active: u.Active, Name: u.Name, Radius: u.Radius}
		if u.Type != nil {
			t := models.GeofenceType(*u.Type)
			patch.Type = &t
		}
	}

	updated, err := rs.SafeKids.Geofence.BulkUpdateGeofences(c.Request.Context(), caller(c), req.GeofenceIDs, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"updatedCount": updated, "unauthorizedCount": 0})
}

func (rs *RestfulServer) GetSuggestions(c *gin.Context) {
	suggestions, err := rs.SafeKids.Suggestion.GetSuggestions(c.Request.Context(), caller(c), c.Param("child_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, gin.H{"suggestions": suggestions})
}

type DismissRequest struct {
	ChildID  string     `json:"childId" zog:"childId"`
	Location *geo.Point `json:"location"`
}

var dismissRequestSchema = z.Struct(z.Shape{
	"childID": z.String().Required(),
	"location": z.Ptr(z.Struct(z.Shape{
		"latitude":  z.Float64(),
		"longitude": z.Float64(),
	})),
})

func (rs *RestfulServer) DismissSuggestion(c *gin.Context) {
	var req DismissRequest
	if err := dismissRequestSchema.Parse(zhttp.Request(c.Request), &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err})
		return
	}
	if req.Location == nil {
		badRequest(c, safekids.MsgCoordinateInvalid)
		return
	}

	if err := rs.SafeKids.Suggestion.DismissSuggestion(c.Request.Context(), caller(c), req.ChildID, *req.Location); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Gợi ý đã được ẩn"})
}
