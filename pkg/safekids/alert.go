package safekids

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	DefaultAlertPageSize = 50
	MaxAlertPageSize     = 100
	DefaultStatsWindow   = 7 * 24 * time.Hour
)

// DateRange bounds are inclusive; a zero time leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) empty() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) apply(q *gorm.DB, column string) *gorm.DB {
	if !r.Start.IsZero() {
		q = q.Where(column+" >= ?", r.Start)
	}
	if !r.End.IsZero() {
		q = q.Where(column+" <= ?", r.End)
	}
	return q
}

type AlertFilter struct {
	Range      DateRange
	ChildID    string
	GeofenceID string
}

type Pagination struct {
	Limit int
	Skip  int
}

func (p Pagination) normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultAlertPageSize
	}
	if p.Limit > MaxAlertPageSize {
		p.Limit = MaxAlertPageSize
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
	return p
}

// AlertItem is a stored alert plus the names still resolvable for it.
type AlertItem struct {
	models.GeofenceAlert
	GeofenceName string              `json:"geofenceName,omitempty"`
	GeofenceType models.GeofenceType `json:"geofenceType,omitempty"`
	ChildName    string              `json:"childName,omitempty"`
}

type AlertPage struct {
	Alerts  []AlertItem `json:"alerts"`
	Total   int64       `json:"total"`
	HasMore bool        `json:"hasMore"`
}

type GeofenceCount struct {
	GeofenceID string              `json:"geofenceId"`
	Name       string              `json:"name"`
	Type       models.GeofenceType `json:"type"`
	Count      int64               `json:"count"`
}

type ChildCount struct {
	ChildID string `json:"childId"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
}

type AlertStats struct {
	Total                 int64          `json:"total"`
	MostTriggeredGeofence *GeofenceCount `json:"mostTriggeredGeofence"`
	MostActiveChild       *ChildCount    `json:"mostActiveChild"`
}

// alertChildScope returns the children whose alerts the parent may read.
func (s *SafeKids) alertChildScope(ctx context.Context, parentID string, childID string) ([]string, error) {
	if _, err := s.requireParent(ctx, parentID); err != nil {
		return nil, err
	}
	childIDs, err := s.Directory.LinkedChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if childID == "" {
		return childIDs, nil
	}
	if !slices.Contains(childIDs, childID) {
		return nil, ErrForbidden
	}
	return []string{childID}, nil
}

func (s *SafeKids) listAlerts(ctx context.Context, parentID string, filter AlertFilter, page Pagination) (*AlertPage, error) {
	childIDs, err := s.alertChildScope(ctx, parentID, filter.ChildID)
	if err != nil {
		return nil, err
	}
	page = page.normalize()

	result := &AlertPage{Alerts: []AlertItem{}}
	if len(childIDs) == 0 {
		return result, nil
	}

	query := func() *gorm.DB {
		q := s.Db.Conn.WithContext(ctx).Model(&models.GeofenceAlert{}).Where("child_id IN ?", childIDs)
		if filter.GeofenceID != "" {
			q = q.Where("geofence_id = ?", filter.GeofenceID)
		}
		return filter.Range.apply(q, "timestamp")
	}

	if err := query().Count(&result.Total).Error; err != nil {
		return nil, err
	}
	var alerts []models.GeofenceAlert
	if err := query().Order("timestamp desc").Offset(page.Skip).Limit(page.Limit).Find(&alerts).Error; err != nil {
		return nil, err
	}

	result.Alerts = s.enrichAlerts(ctx, alerts)
	result.HasMore = int64(page.Skip+len(alerts)) < result.Total
	return result, nil
}

// enrichAlerts attaches geofence and child names. Geofences deleted since
// the alert simply leave the name empty.
func (s *SafeKids) enrichAlerts(ctx context.Context, alerts []models.GeofenceAlert) []AlertItem {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryAlert)

	geofenceIDs := common.Unique(common.Mapper(alerts, func(a models.GeofenceAlert) string { return a.GeofenceID }))
	childIDs := common.Unique(common.Mapper(alerts, func(a models.GeofenceAlert) string { return a.ChildID }))

	geofences := map[string]models.Geofence{}
	if len(geofenceIDs) > 0 {
		var rows []models.Geofence
		if err := s.Db.Conn.WithContext(ctx).Where("id IN ?", geofenceIDs).Find(&rows).Error; err != nil {
			logger.Warn("Failed to resolve alert geofences", zap.Error(err))
		}
		for _, g := range rows {
			geofences[g.ID] = g
		}
	}
	users, err := s.Directory.GetUsers(ctx, childIDs)
	if err != nil {
		logger.Warn("Failed to resolve alert children", zap.Error(err))
	}

	items := make([]AlertItem, len(alerts))
	for i, a := range alerts {
		items[i] = AlertItem{GeofenceAlert: a}
		if g, ok := geofences[a.GeofenceID]; ok {
			items[i].GeofenceName = g.Name
			items[i].GeofenceType = g.Type
		}
		if u, ok := users[a.ChildID]; ok {
			items[i].ChildName = u.DisplayName()
		}
	}
	return items
}

type groupCount struct {
	GroupKey string
	Hits     int64
}

// topGroup returns the most frequent value of column. Equal counts come
// back in whatever order the database aggregates them.
func topGroup(q *gorm.DB, column string) (*groupCount, error) {
	var rows []groupCount
	err := q.Select(column + " AS group_key, COUNT(*) AS hits").
		Group(column).
		Order("hits DESC").
		Limit(1).
		Scan(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (s *SafeKids) getAlertStats(ctx context.Context, parentID string, dateRange DateRange) (*AlertStats, error) {
	childIDs, err := s.alertChildScope(ctx, parentID, "")
	if err != nil {
		return nil, err
	}
	stats := &AlertStats{}
	if len(childIDs) == 0 {
		return stats, nil
	}

	if dateRange.empty() {
		dateRange.Start = s.now().Add(-DefaultStatsWindow)
	}
	query := func() *gorm.DB {
		q := s.Db.Conn.WithContext(ctx).Model(&models.GeofenceAlert{}).Where("child_id IN ?", childIDs)
		return dateRange.apply(q, "timestamp")
	}

	if err := query().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if stats.Total == 0 {
		return stats, nil
	}

	topGeofence, err := topGroup(query(), "geofence_id")
	if err != nil {
		return nil, err
	}
	if topGeofence != nil {
		stats.MostTriggeredGeofence = &GeofenceCount{GeofenceID: topGeofence.GroupKey, Count: topGeofence.Hits}
		var g models.Geofence
		err := s.Db.Conn.WithContext(ctx).First(&g, "id = ?", topGeofence.GroupKey).Error
		switch {
		case err == nil:
			stats.MostTriggeredGeofence.Name = g.Name
			stats.MostTriggeredGeofence.Type = g.Type
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	topChild, err := topGroup(query(), "child_id")
	if err != nil {
		return nil, err
	}
	if topChild != nil {
		stats.MostActiveChild = &ChildCount{ChildID: topChild.GroupKey, Count: topChild.Hits}
		if child, err := s.Directory.GetUser(ctx, topChild.GroupKey); err == nil {
			stats.MostActiveChild.Name = child.DisplayName()
		}
	}
	return stats, nil
}

type IAlertImpl struct {
	sk *SafeKids
}

func (ia *IAlertImpl) ProcessTransition(ctx context.Context, transition *Transition) *AlertOutcome {
	return ia.sk.processTransition(ctx, transition)
}

func (ia *IAlertImpl) ListAlerts(ctx context.Context, parentID string, filter AlertFilter, page Pagination) (*AlertPage, error) {
	return ia.sk.listAlerts(ctx, parentID, filter, page)
}

func (ia *IAlertImpl) GetAlertStats(ctx context.Context, parentID string, dateRange DateRange) (*AlertStats, error) {
	return ia.sk.getAlertStats(ctx, parentID, dateRange)
}

func (s *SafeKids) GetIAlert() IAlert {
	return &IAlertImpl{sk: s}
}
