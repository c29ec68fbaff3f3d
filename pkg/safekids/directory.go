package safekids

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

// GormDirectory reads users and parent/child links from the service database.
type GormDirectory struct {
	Db db.DB
}

func NewGormDirectory(d db.DB) *GormDirectory {
	return &GormDirectory{Db: d}
}

func (d *GormDirectory) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := d.Db.Conn.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *GormDirectory) GetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}
	var rows []models.User
	if err := d.Db.Conn.WithContext(ctx).Where("id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

func (d *GormDirectory) LinkedParents(ctx context.Context, childID string) ([]models.User, error) {
	var parents []models.User
	err := d.Db.Conn.WithContext(ctx).
		Joins("JOIN parent_children ON parent_children.parent_id = users.id").
		Where("parent_children.child_id = ?", childID).
		Order("users.id").
		Find(&parents).Error
	return parents, err
}

func (d *GormDirectory) LinkedChildren(ctx context.Context, parentID string) ([]string, error) {
	var childIDs []string
	err := d.Db.Conn.WithContext(ctx).
		Model(&models.ParentChild{}).
		Where("parent_id = ?", parentID).
		Order("child_id").
		Pluck("child_id", &childIDs).Error
	return childIDs, err
}

func (d *GormDirectory) IsLinked(ctx context.Context, parentID string, childID string) (bool, error) {
	var count int64
	err := d.Db.Conn.WithContext(ctx).
		Model(&models.ParentChild{}).
		Where("parent_id = ? AND child_id = ?", parentID, childID).
		Count(&count).Error
	return count > 0, err
}
