package safekids

import (
	"context"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/metrics"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const AlertRetention = 90 * 24 * time.Hour

func RetentionPolicies() []db.RetentionPolicy {
	return []db.RetentionPolicy{
		{Name: "geofence_alerts", Model: &models.GeofenceAlert{}, Column: "timestamp", MaxAge: AlertRetention},
		{Name: "dismissed_suggestions", Model: &models.DismissedSuggestion{}, Column: "dismissed_at", MaxAge: DismissalRetention},
		{Name: "locations", Model: &models.Location{}, Column: "timestamp", MaxAge: LocationRetention},
	}
}

type sweeper interface {
	Sweep() int
}

// PurgeExpired removes expired rows and idle throttle entries once.
func (s *SafeKids) PurgeExpired(ctx context.Context) (map[string]int64, error) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryRetention)

	conn := db.DB{Conn: s.Db.Conn.WithContext(ctx)}
	deleted, err := conn.Purge(s.now(), RetentionPolicies()...)
	for table, n := range deleted {
		metrics.RetentionDeletedTotal.WithLabelValues(table).Add(float64(n))
	}
	if err != nil {
		return deleted, err
	}

	if sw, ok := s.Throttle.(sweeper); ok {
		deleted["throttle"] = int64(sw.Sweep())
	}

	logger.Info("Retention purge completed", zap.Reflect("deleted", deleted))
	return deleted, nil
}

// RunRetention purges on every tick until ctx is done.
func (s *SafeKids) RunRetention(ctx context.Context, interval time.Duration) {
	logger := common.GetCategoryLogger(common.LoggerNameSafeKidsCore, common.LoggerCategoryRetention)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Retention loop stopped")
			return
		case <-ticker.C:
			if _, err := s.PurgeExpired(ctx); err != nil {
				logger.Warn("Retention purge failed", zap.Error(err))
			}
		}
	}
}
