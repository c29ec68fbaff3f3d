package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/events"
	"liyu1981.xyz/safekids-geofence-service/pkg/geocoding"
	safekidsHttp "liyu1981.xyz/safekids-geofence-service/pkg/http"
	"liyu1981.xyz/safekids-geofence-service/pkg/mqtt"
	"liyu1981.xyz/safekids-geofence-service/pkg/notify"
	"liyu1981.xyz/safekids-geofence-service/pkg/realtime"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
)

const defaultRetentionInterval = time.Hour

func main() {
	var err error

	if err = godotenv.Load(); err != nil && !common.IsProduction() {
		log.Fatal("Error loading .env file, copy .env.example to .env first if in development")
	}

	var dbInstance *db.DB
	dbType := os.Getenv(common.EnvKeySafeKidsDBType)
	switch dbType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector())
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	case "postgres":
		dbInstance = db.GetInstance(db.UsePostgresDialector())
	default:
		log.Fatal("Unknown SAFEKIDS_DB_TYPE: " + dbType)
	}

	httpHostPort := strings.TrimSpace(os.Getenv(common.EnvKeySafeKidsHttpHostPort))

	var defaultRate float64
	var defaultBurst int64

	if defaultRate, err = strconv.ParseFloat(os.Getenv(common.EnvKeySafeKidsDefaultRate), 64); err != nil {
		log.Fatal("Invalid SAFEKIDS_DEFAULT_RATE, or not set in .env, should be a float64 value")
	}

	if defaultBurst, err = strconv.ParseInt(os.Getenv(common.EnvKeySafeKidsDefaultBurst), 10, 64); err != nil {
		log.Fatal("Invalid SAFEKIDS_DEFAULT_BURST, or not set in .env, should be an int value")
	}

	logger := common.GetLogger()

	var throttle safekids.Throttle
	var geocodeRemoteCache geocoding.Cache
	switch backend := common.GetEnvOr(common.EnvKeySafeKidsThrottleBackend, "memory"); backend {
	case "memory":
		throttle = safekids.NewMemoryThrottle(safekids.AlertThrottleWindow)
	case "redis":
		redisClient := db.OpenRedisFromEnv()
		throttle = safekids.NewRedisThrottle(redisClient, safekids.AlertThrottleWindow)
		geocodeRemoteCache = geocoding.NewRedisCache(redisClient, geocoding.DefaultCacheTTL)
	default:
		log.Fatal("Unknown SAFEKIDS_THROTTLE_BACKEND: " + backend)
	}

	geocoder := geocoding.NewService(
		geocoding.NewClient(geocoding.ClientOpts{
			BaseURL:   os.Getenv(common.EnvKeySafeKidsNominatimURL),
			UserAgent: os.Getenv(common.EnvKeySafeKidsNominatimUserAgent),
		}),
		geocoding.ServiceOpts{Remote: geocodeRemoteCache},
	)

	hub := realtime.NewHub(realtime.DefaultConfig())
	var emitter safekids.Emitter = hub
	if natsURL := os.Getenv(common.EnvKeySafeKidsNATSURL); natsURL != "" {
		nc, err := nats.Connect(natsURL)
		if err != nil {
			log.Fatalf("failed to connect nats: %v", err)
		}
		defer nc.Drain()
		bridge, err := realtime.NewNATSBridge(nc, hub)
		if err != nil {
			log.Fatalf("failed to start realtime bridge: %v", err)
		}
		defer bridge.Close()
		emitter = bridge
		logger.Info("Realtime fan-out over nats enabled", zap.String("url", natsURL))
	}

	collaborators := safekids.Collaborators{
		Directory: safekids.NewGormDirectory(*dbInstance),
		Notifier:  notify.NewLogSender(),
		Emitter:   emitter,
		Geocoder:  geocoder,
		Throttle:  throttle,
	}
	if amqpURL := os.Getenv(common.EnvKeySafeKidsAMQPURL); amqpURL != "" {
		conn, err := amqp.Dial(amqpURL)
		if err != nil {
			log.Fatalf("failed to connect rabbitmq: %v", err)
		}
		defer conn.Close()
		publisher, err := events.NewAlertPublisher(conn)
		if err != nil {
			log.Fatalf("failed to set up alert publisher: %v", err)
		}
		defer publisher.Close()
		collaborators.Publisher = publisher
		logger.Info("Alert events published to rabbitmq", zap.String("exchange", events.ExchangeName))
	}

	safeKidsCore := (&safekids.SafeKids{
		Db: *dbInstance,
	}).WithCollaborators(collaborators).WithDefaultServices()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go safeKidsCore.RunRetention(ctx, common.GetEnvDurationOr(common.EnvKeySafeKidsRetentionInterval, defaultRetentionInterval))

	if broker := os.Getenv(common.EnvKeySafeKidsMQTTBroker); broker != "" {
		client, err := mqtt.NewClient(broker, common.GetEnvOr(common.EnvKeySafeKidsMQTTClientID, "safekids-geofence-service"))
		if err != nil {
			log.Fatalf("failed to connect mqtt: %v", err)
		}
		subscriber := mqtt.NewLocationSubscriber(client, safeKidsCore.Location)
		if err := subscriber.Start(); err != nil {
			log.Fatalf("failed to start mqtt ingest: %v", err)
		}
		defer subscriber.Stop()
		logger.Info("MQTT location ingest started", zap.String("broker", broker), zap.String("topic", mqtt.LocationTopic))
	}

	if httpHostPort == "" {
		// fallback to default http port
		httpHostPort = ":1080"
	}

	rs := &safekidsHttp.RestfulServer{
		Server:           gin.Default(),
		SafeKids:         safeKidsCore,
		Hub:              hub,
		RateLimiterStore: safekids.NewRateLimiterStore(rate.Limit(defaultRate), int(defaultBurst)),
	}
	rs.Setup()

	logger.Info("http server created with:",
		zap.String("default_limiter",
			fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", defaultRate, defaultBurst)))

	logger.Info("Starting HTTP server on: " + httpHostPort)
	if err := rs.Server.Run(httpHostPort); err != nil {
		log.Fatalf("http server failed to serve: %v", err)
	}
}
