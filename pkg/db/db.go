package db

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// Models lists every table owned by the service, in migration order.
func Models() []any {
	return []any{
		&models.User{},
		&models.ParentChild{},
		&models.Geofence{},
		&models.GeofenceChild{},
		&models.GeofenceState{},
		&models.GeofenceAlert{},
		&models.DismissedSuggestion{},
		&models.Location{},
	}
}

func GetInstance(dialector gorm.Dialector) *DB {
	logger := common.GetLoggerWith(common.LoggerNameDB)
	once.Do(func() {
		conn, err := gorm.Open(dialector, &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Warn),
		})
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

		instance = &DB{Conn: conn}

		if dialector.Name() == "sqlite" {
			if err := instance.Conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
				log.Fatal("Failed to enable sqlite foreign key support", err)
			}

			if err := instance.Conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
				log.Fatal("Failed to set sqlite journal mode", err)
			}
		}

		if err := instance.Conn.AutoMigrate(Models()...); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}

		logger.Info("Database migration completed")
	})
	return instance
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeySafeKidsDbPath); !found {
		dbPath = "safekids.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

// UsePostgresDialector reads the DSN from SAFEKIDS_DB_DSN, e.g.
// "host=localhost user=safekids password=... dbname=safekids sslmode=disable".
func UsePostgresDialector() gorm.Dialector {
	return postgres.Open(os.Getenv(common.EnvKeySafeKidsDbDSN))
}
