package models

import "time"

type UserRole string

const (
	UserRoleParent UserRole = "parent"
	UserRoleChild  UserRole = "child"
)

type GeofenceType string

const (
	GeofenceTypeSafe   GeofenceType = "safe"
	GeofenceTypeDanger GeofenceType = "danger"
)

type GeofenceAction string

const (
	GeofenceActionEnter GeofenceAction = "enter"
	GeofenceActionExit  GeofenceAction = "exit"
)

// User is the read-only directory record of a parent or child account.
type User struct {
	ID       string `gorm:"primaryKey"`
	FullName string
	Name     string
	Role     UserRole `gorm:"type:varchar(10);check:role IN ('parent','child')"`
	FCMToken *string
}

// DisplayName prefers the full name, like every parent-facing message does.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Name
}

type ParentChild struct {
	ParentID string `gorm:"primaryKey"`
	ChildID  string `gorm:"primaryKey;index"`
}

// ActiveHours is an optional daily window, both ends "HH:MM".
type ActiveHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Geofence struct {
	ID             string          `gorm:"primaryKey" json:"id"`
	ParentID       string          `gorm:"index" json:"parentId"`
	Name           string          `gorm:"type:varchar(50)" json:"name"`
	Type           GeofenceType    `gorm:"type:varchar(10);check:type IN ('safe','danger')" json:"type"`
	CenterLat      float64         `json:"centerLat"`
	CenterLng      float64         `json:"centerLng"`
	Radius         float64         `gorm:"check:radius >= 50 AND radius <= 1000" json:"radius"`
	ActiveHours    *ActiveHours    `gorm:"serializer:json" json:"activeHours"`
	Active         bool            `gorm:"index" json:"active"`
	LinkedChildren []GeofenceChild `gorm:"foreignKey:GeofenceID;references:ID;constraint:OnDelete:CASCADE" json:"linkedChildren"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (g *Geofence) ChildIDs() []string {
	ids := make([]string, len(g.LinkedChildren))
	for i, link := range g.LinkedChildren {
		ids[i] = link.ChildID
	}
	return ids
}

type GeofenceChild struct {
	GeofenceID string `gorm:"primaryKey" json:"-"`
	ChildID    string `gorm:"primaryKey;index" json:"childId"`
	ChildName  string `gorm:"-" json:"childName,omitempty"`
}

// GeofenceState is the membership memory of one (child, geofence) pair.
type GeofenceState struct {
	ID         uint   `gorm:"primaryKey"`
	ChildID    string `gorm:"uniqueIndex:idx_state_child_geofence"`
	GeofenceID string `gorm:"uniqueIndex:idx_state_child_geofence;index"`
	IsInside   bool
	LastCheck  time.Time
}

type GeofenceAlert struct {
	ID         string         `gorm:"primaryKey" json:"id"`
	GeofenceID string         `gorm:"index" json:"geofenceId"`
	ChildID    string         `gorm:"index:idx_alert_child_timestamp,priority:1" json:"childId"`
	Action     GeofenceAction `gorm:"type:varchar(10);check:action IN ('enter','exit')" json:"action"`
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Timestamp  time.Time      `gorm:"index:idx_alert_child_timestamp,priority:2,sort:desc;index" json:"timestamp"`
	Notified   bool           `json:"notified"`
}

type DismissedSuggestion struct {
	ID          uint   `gorm:"primaryKey"`
	ParentID    string `gorm:"index:idx_dismissed_parent_child,priority:1"`
	ChildID     string `gorm:"index:idx_dismissed_parent_child,priority:2"`
	Latitude    float64
	Longitude   float64
	DismissedAt time.Time `gorm:"index"`
}

// Location is one reported GPS fix of a child device.
type Location struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ChildID      string    `gorm:"index:idx_location_child_timestamp,priority:1" json:"childId"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Accuracy     float64   `json:"accuracy"`
	BatteryLevel *int      `gorm:"check:battery_level IS NULL OR (battery_level >= 0 AND battery_level <= 100)" json:"batteryLevel"`
	Timestamp    time.Time `gorm:"index:idx_location_child_timestamp,priority:2;index" json:"timestamp"`
}
