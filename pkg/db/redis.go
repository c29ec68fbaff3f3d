package db

import (
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
)

// OpenRedisFromEnv builds a client from REDIS_HOST/REDIS_PORT/REDIS_PASS/REDIS_DB.
// An unparsable REDIS_DB falls back to 0.
func OpenRedisFromEnv() *redis.Client {
	addr := common.GetEnvOr(common.EnvKeyRedisHost, "127.0.0.1") + ":" + common.GetEnvOr(common.EnvKeyRedisPort, "6379")
	dbIndex := 0
	if n, err := strconv.Atoi(common.GetEnvOr(common.EnvKeyRedisDB, "0")); err == nil && n >= 0 {
		dbIndex = n
	}
	common.GetLoggerWith(common.LoggerNameDB).Info("redis configured", zap.String("addr", addr), zap.Int("db", dbIndex))
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: common.GetEnvOr(common.EnvKeyRedisPass, ""),
		DB:       dbIndex,
	})
}
