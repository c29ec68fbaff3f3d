package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeySafeKidsDBType string = "SAFEKIDS_DB_TYPE"
	EnvKeySafeKidsDbPath string = "SAFEKIDS_DB_PATH"
	EnvKeySafeKidsDbDSN  string = "SAFEKIDS_DB_DSN"

	EnvKeySafeKidsHttpHostPort string = "SAFEKIDS_HTTP_HOST_PORT"

	EnvKeySafeKidsDefaultRate  string = "SAFEKIDS_DEFAULT_RATE"
	EnvKeySafeKidsDefaultBurst string = "SAFEKIDS_DEFAULT_BURST"

	EnvKeySafeKidsThrottleBackend   string = "SAFEKIDS_THROTTLE_BACKEND"
	EnvKeySafeKidsRetentionInterval string = "SAFEKIDS_RETENTION_INTERVAL"

	EnvKeyRedisHost string = "REDIS_HOST"
	EnvKeyRedisPort string = "REDIS_PORT"
	EnvKeyRedisPass string = "REDIS_PASS"
	EnvKeyRedisDB   string = "REDIS_DB"

	EnvKeySafeKidsNominatimURL       string = "SAFEKIDS_NOMINATIM_URL"
	EnvKeySafeKidsNominatimUserAgent string = "SAFEKIDS_NOMINATIM_USER_AGENT"

	EnvKeySafeKidsMQTTBroker   string = "SAFEKIDS_MQTT_BROKER"
	EnvKeySafeKidsMQTTClientID string = "SAFEKIDS_MQTT_CLIENT_ID"
	EnvKeySafeKidsNATSURL      string = "SAFEKIDS_NATS_URL"
	EnvKeySafeKidsAMQPURL      string = "SAFEKIDS_AMQP_URL"

	LoggerNameSafeKidsCore  string = "safekids_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGeocoding     string = "geocoding"
	LoggerNameRealtime      string = "realtime"
	LoggerNameMQTTIngest    string = "mqtt_ingest"
	LoggerNameEvents        string = "events"
	LoggerNameNotify        string = "notify"
	LoggerNameDB            string = "db"

	LoggerFieldCategory string = "category"

	LoggerCategoryGeofence   string = "geofence"
	LoggerCategoryDetection  string = "detection"
	LoggerCategoryAlert      string = "alert"
	LoggerCategoryThrottle   string = "throttle"
	LoggerCategorySuggestion string = "suggestion"
	LoggerCategoryLocation   string = "location"
	LoggerCategoryRetention  string = "retention"
)
