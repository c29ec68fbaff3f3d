package safekids

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	MinGeofenceRadius     = 50.0
	MaxGeofenceRadius     = 1000.0
	MaxGeofenceNameLength = 50
)

type GeofenceInput struct {
	Name           string
	Type           models.GeofenceType
	Center         geo.Point
	Radius         float64
	ActiveHours    *models.ActiveHours
	LinkedChildren []string
	// Active defaults to true when nil.
	Active *bool
}

// GeofencePatch holds the fields to change; nil means unchanged.
type GeofencePatch struct {
	Name             *string
	Type             *models.GeofenceType
	Center           *geo.Point
	Radius           *float64
	ActiveHours      *models.ActiveHours
	ClearActiveHours bool
	LinkedChildren   []string
	Active           *bool
}

type GeofenceBulkPatch struct {
	Active *bool
	Name   *string
	Type   *models.GeofenceType
	Radius *float64
}

func (p *GeofenceBulkPatch) empty() bool {
	return p == nil || (p.Active == nil && p.Name == nil && p.Type == nil && p.Radius == nil)
}

func validateName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 1 || n > MaxGeofenceNameLength {
		return invalid(MsgGeofenceNameInvalid)
	}
	return nil
}

func validateType(t models.GeofenceType) error {
	if t != models.GeofenceTypeSafe && t != models.GeofenceTypeDanger {
		return invalid(MsgGeofenceTypeInvalid)
	}
	return nil
}

func validateRadius(radius float64) error {
	if radius < MinGeofenceRadius || radius > MaxGeofenceRadius {
		return invalid(MsgGeofenceRadiusInvalid)
	}
	return nil
}

func validateCenter(center geo.Point) error {
	if !geo.ValidCoordinate(center.Latitude, center.Longitude) {
		return invalid(MsgCoordinateInvalid)
	}
	return nil
}

func validateActiveHours(hours *models.ActiveHours) error {
	if hours == nil {
		return nil
	}
	for _, v := range []string{hours.Start, hours.End} {
		if _, err := time.Parse("15:04", v); err != nil {
			return invalid(MsgActiveHoursInvalid)
		}
	}
	return nil
}

func validateGeofenceInput(input *GeofenceInput) error {
	if input == nil {
		return invalid(MsgUpdatesRequired)
	}
	if len(input.LinkedChildren) == 0 {
		return invalid(MsgChildrenRequired)
	}
	if err := validateName(input.Name); err != nil {
		return err
	}
	if err := validateType(input.Type); err != nil {
		return err
	}
	if err := validateRadius(input.Radius); err != nil {
		return err
	}
	if err := validateCenter(input.Center); err != nil {
		return err
	}
	return validateActiveHours(input.ActiveHours)
}

func (s *SafeKids) requireParent(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Directory.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.UserRoleParent {
		return nil, ErrNotParent
	}
	return user, nil
}

// validChildren keeps the requested children that are linked to the parent,
// in request order and without duplicates.
func (s *SafeKids) validChildren(ctx context.Context, parentID string, requested []string) ([]string, error) {
	linked, err := s.Directory.LinkedChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]struct{}, len(linked))
	for _, id := range linked {
		allowed[id] = struct{}{}
	}

	valid := []string{}
	for _, id := range common.Unique(requested) {
		if _, ok := allowed[id]; ok {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return nil, invalid(MsgChildrenInvalid)
	}
	return valid, nil
}

func childLinks(geofenceID string, childIDs []string) []models.GeofenceChild {
	return common.Mapper(childIDs, func(id string) models.GeofenceChild {
		return models.GeofenceChild{GeofenceID: geofenceID, ChildID: id}
	})
}

// populateChildNames fills LinkedChildren[].ChildName from the directory.
// Names are cosmetic, so a directory failure leaves them empty.
func (s *SafeKids) populateChildNames(ctx context.Context, geofences []models.Geofence) {
	var ids []string
	for _, g := range geofences {
		ids = append(ids, g.ChildIDs()...)
	}
	if len(ids) == 0 {
		return
	}
	users, err := s.Directory.GetUsers(ctx, common.Unique(ids))
	if err != nil {
		common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryGeofence).
			Warn("Failed to resolve linked children names", zap.Error(err))
		return
	}
	for gi := range geofences {
		for ci := range geofences[gi].LinkedChildren {
			link := &geofences[gi].LinkedChildren[ci]
			if u, ok := users[link.ChildID]; ok {
				link.ChildName = u.DisplayName()
			}
		}
	}
}

func (s *SafeKids) findGeofence(ctx context.Context, geofenceID string) (*models.Geofence, error) {
	var geofence models.Geofence
	err := s.Db.Conn.WithContext(ctx).Preload("LinkedChildren").First(&geofence, "id = ?", geofenceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("geofence %s: %w", geofenceID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &geofence, nil
}

func (s *SafeKids) createGeofence(ctx context.Context, parentID string, input *GeofenceInput) (*models.Geofence, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryGeofence)

	if _, err := s.requireParent(ctx, parentID); err != nil {
		return nil, err
	}
	if err := validateGeofenceInput(input); err != nil {
		return nil, err
	}
	childIDs, err := s.validChildren(ctx, parentID, input.LinkedChildren)
	if err != nil {
		return nil, err
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}
	id := uuid.NewString()
	geofence := models.Geofence{
		ID:             id,
		ParentID:       parentID,
		Name:           strings.TrimSpace(input.Name),
		Type:           input.Type,
		CenterLat:      input.Center.Latitude,
		CenterLng:      input.Center.Longitude,
		Radius:         input.Radius,
		ActiveHours:    input.ActiveHours,
		Active:         active,
		LinkedChildren: childLinks(id, childIDs),
	}

	if err := s.Db.Conn.WithContext(ctx).Create(&geofence).Error; err != nil {
		return nil, err
	}

	logger.Info("Geofence created", zap.Reflect("geofence", geofence))

	result := []models.Geofence{geofence}
	s.populateChildNames(ctx, result)
	return &result[0], nil
}

func (s *SafeKids) listGeofences(ctx context.Context, userID string, childID string) ([]models.Geofence, error) {
	user, err := s.Directory.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := s.Db.Conn.WithContext(ctx).Model(&models.Geofence{}).Preload("LinkedChildren")
	switch user.Role {
	case models.UserRoleParent:
		query = query.Where("geofences.parent_id = ?", userID)
		if childID != "" {
			query = query.Where("EXISTS (SELECT 1 FROM geofence_children gc WHERE gc.geofence_id = geofences.id AND gc.child_id = ?)", childID)
		}
	case models.UserRoleChild:
		query = query.Where("EXISTS (SELECT 1 FROM geofence_children gc WHERE gc.geofence_id = geofences.id AND gc.child_id = ?)", userID)
	default:
		return nil, ErrForbidden
	}

	geofences := []models.Geofence{}
	if err := query.Order("geofences.created_at desc").Find(&geofences).Error; err != nil {
		return nil, err
	}
	s.populateChildNames(ctx, geofences)
	return geofences, nil
}

func (s *SafeKids) getGeofence(ctx context.Context, userID string, geofenceID string) (*models.Geofence, error) {
	geofence, err := s.findGeofence(ctx, geofenceID)
	if err != nil {
		return nil, err
	}
	allowed := geofence.ParentID == userID
	for _, id := range geofence.ChildIDs() {
		if id == userID {
			allowed = true
		}
	}
	if !allowed {
		return nil, ErrForbidden
	}

	result := []models.Geofence{*geofence}
	s.populateChildNames(ctx, result)
	return &result[0], nil
}

func (s *SafeKids) updateGeofence(ctx context.Context, parentID string, geofenceID string, patch *GeofencePatch) (*models.Geofence, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryGeofence)

	if patch == nil {
		return nil, invalid(MsgUpdatesRequired)
	}
	geofence, err := s.findGeofence(ctx, geofenceID)
	if err != nil {
		return nil, err
	}
	if geofence.ParentID != parentID {
		return nil, ErrForbidden
	}

	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return nil, err
		}
		geofence.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		if err := validateType(*patch.Type); err != nil {
			return nil, err
		}
		geofence.Type = *patch.Type
	}
	if patch.Center != nil {
		if err := validateCenter(*patch.Center); err != nil {
			return nil, err
		}
		geofence.CenterLat = patch.Center.Latitude
		geofence.CenterLng = patch.Center.Longitude
	}
	if patch.Radius != nil {
		if err := validateRadius(*patch.Radius); err != nil {
			return nil, err
		}
		geofence.Radius = *patch.Radius
	}
	if patch.ClearActiveHours {
		geofence.ActiveHours = nil
	} else if patch.ActiveHours != nil {
		if err := validateActiveHours(patch.ActiveHours); err != nil {
			return nil, err
		}
		geofence.ActiveHours = patch.ActiveHours
	}
	if patch.Active != nil {
		geofence.Active = *patch.Active
	}

	var childIDs []string
	if patch.LinkedChildren != nil {
		if childIDs, err = s.validChildren(ctx, parentID, patch.LinkedChildren); err != nil {
			return nil, err
		}
	}

	geofence.UpdatedAt = s.now()
	err = s.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LinkedChildren").Save(geofence).Error; err != nil {
			return err
		}
		if childIDs == nil {
			return nil
		}
		if err := tx.Where("geofence_id = ?", geofence.ID).Delete(&models.GeofenceChild{}).Error; err != nil {
			return err
		}
		if err := tx.Where("geofence_id = ? AND child_id NOT IN ?", geofence.ID, childIDs).Delete(&models.GeofenceState{}).Error; err != nil {
			return err
		}
		geofence.LinkedChildren = childLinks(geofence.ID, childIDs)
		return tx.Create(&geofence.LinkedChildren).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Geofence updated", zap.Reflect("geofence", geofence))

	result := []models.Geofence{*geofence}
	s.populateChildNames(ctx, result)
	return &result[0], nil
}

// removeGeofences deletes geofences with their links and membership state.
// Alert history is kept.
func removeGeofences(tx *gorm.DB, ids []string) (int64, error) {
	if err := tx.Where("geofence_id IN ?", ids).Delete(&models.GeofenceState{}).Error; err != nil {
		return 0, err
	}
	if err := tx.Where("geofence_id IN ?", ids).Delete(&models.GeofenceChild{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&models.Geofence{})
	return res.RowsAffected, res.Error
}

func (s *SafeKids) deleteGeofence(ctx context.Context, parentID string, geofenceID string) error {
	geofence, err := s.findGeofence(ctx, geofenceID)
	if err != nil {
		return err
	}
	if geofence.ParentID != parentID {
		return ErrForbidden
	}

	err = s.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := removeGeofences(tx, []string{geofenceID})
		return err
	})
	if err != nil {
		return err
	}

	common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryGeofence).
		Info("Geofence deleted", zap.String("geofenceId", geofenceID))
	return nil
}

func (s *SafeKids) ownedGeofences(ctx context.Context, parentID string, geofenceIDs []string, verb string) ([]string, error) {
	var geofences []models.Geofence
	if err := s.Db.Conn.WithContext(ctx).Where("id IN ?", common.Unique(geofenceIDs)).Find(&geofences).Error; err != nil {
		return nil, err
	}

	owned := []string{}
	unauthorized := []string{}
	for _, g := range geofences {
		if g.ParentID == parentID {
			owned = append(owned, g.ID)
		} else {
			unauthorized = append(unauthorized, g.ID)
		}
	}
	if len(unauthorized) > 0 {
		return nil, &OwnershipError{Verb: verb, Unauthorized: unauthorized}
	}
	return owned, nil
}

func (s *SafeKids) bulkDeleteGeofences(ctx context.Context, parentID string, geofenceIDs []string) (int64, error) {
	if len(geofenceIDs) == 0 {
		return 0, invalid(MsgGeofenceIDsRequired)
	}
	owned, err := s.ownedGeofences(ctx, parentID, geofenceIDs, "xóa")
	if err != nil {
		return 0, err
	}
	if len(owned) == 0 {
		return 0, fmt.Errorf("geofences: %w", ErrNotFound)
	}

	var deleted int64
	err = s.Db.Conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err = removeGeofences(tx, owned)
		return err
	})
	if err != nil {
		return 0, err
	}

	common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryGeofence).
		Info("Geofences bulk deleted", zap.Strings("geofenceIds", owned), zap.Int64("deletedCount", deleted))
	return deleted, nil
}

func (s *SafeKids) bulkUpdateGeofences(ctx context.Context, parentID string, geofenceIDs []string, patch *GeofenceBulkPatch) (int64, error) {
	if len(geofenceIDs) == 0 {
		return 0, invalid(MsgGeofenceIDsRequired)
	}
	if patch.empty() {
		return 0, invalid(MsgUpdatesRequired)
	}

	updates := map[string]any{"updated_at": s.now()}
	if patch.Active != nil {
		updates["active"] = *patch.Active
	}
	if patch.Name != nil {
		if err := validateName(*patch.Name); err != nil {
			return 0, err
		}
		updates["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Type != nil {
		if err := validateType(*patch.Type); err != nil {
			return 0, err
		}
		updates["type"] = *patch.Type
	}
	if patch.Radius != nil {
		if err := validateRadius(*patch.Radius); err != nil {
			return 0, err
		}
		updates["radius"] = *patch.Radius
	}

	owned, err := s.ownedGeofences(ctx, parentID, geofenceIDs, "cập nhật")
	if err != nil {
		return 0, err
	}
	if len(owned) == 0 {
		return 0, nil
	}

	res := s.Db.Conn.WithContext(ctx).Model(&models.Geofence{}).Where("id IN ?", owned).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}

	common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryGeofence).
		Info("Geofences bulk updated", zap.Strings("geofenceIds", owned), zap.Reflect("updates", updates))
	return res.RowsAffected, nil
}

type IGeofenceImpl struct {
	sk *SafeKids
}

func (ig *IGeofenceImpl) CreateGeofence(ctx context.Context, parentID string, input *GeofenceInput) (*models.Geofence, error) {
	return ig.sk.createGeofence(ctx, parentID, input)
}

func (ig *IGeofenceImpl) ListGeofences(ctx context.Context, userID string, childID string) ([]models.Geofence, error) {
	return ig.sk.listGeofences(ctx, userID, childID)
}

func (ig *IGeofenceImpl) GetGeofence(ctx context.Context, userID string, geofenceID string) (*models.Geofence, error) {
	return ig.sk.getGeofence(ctx, userID, geofenceID)
}

func (ig *IGeofenceImpl) UpdateGeofence(ctx context.Context, parentID string, geofenceID string, patch *GeofencePatch) (*models.Geofence, error) {
	return ig.sk.updateGeofence(ctx, parentID, geofenceID, patch)
}

func (ig *IGeofenceImpl) DeleteGeofence(ctx context.Context, parentID string, geofenceID string) error {
	return ig.sk.deleteGeofence(ctx, parentID, geofenceID)
}

func (ig *IGeofenceImpl) BulkDeleteGeofences(ctx context.Context, parentID string, geofenceIDs []string) (int64, error) {
	return ig.sk.bulkDeleteGeofences(ctx, parentID, geofenceIDs)
}

func (ig *IGeofenceImpl) BulkUpdateGeofences(ctx context.Context, parentID string, geofenceIDs []string, patch *GeofenceBulkPatch) (int64, error) {
	return ig.sk.bulkUpdateGeofences(ctx, parentID, geofenceIDs, patch)
}

func (s *SafeKids) GetIGeofence() IGeofence {
	return &IGeofenceImpl{sk: s}
}
