package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
)

const (
	LocationTopic = "safekids/child/+/location"
	DefaultQoS    = byte(1)

	connectTimeout = 10 * time.Second
	// bounds one report: the store write plus evaluation with its side effects
	handleTimeout = 15 * time.Second
)

type locationReporter interface {
	ReportLocation(ctx context.Context, childID string, input *safekids.LocationInput) (*models.Location, error)
}

// locationMessage mirrors the HTTP location report body; the child id comes
// from the topic.
type locationMessage struct {
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
	Accuracy     float64    `json:"accuracy"`
	BatteryLevel *int       `json:"batteryLevel"`
	Timestamp    *time.Time `json:"timestamp"`
}

type LocationSubscriber struct {
	client   paho.Client
	reporter locationReporter
}

func NewClient(broker, clientID string) (paho.Client, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

func NewLocationSubscriber(client paho.Client, reporter locationReporter) *LocationSubscriber {
	return &LocationSubscriber{
		client:   client,
		reporter: reporter,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(LocationTopic, DefaultQoS, s.handleMessage)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", LocationTopic, err)
	}
	logger().Info("Subscribed to location topic", zap.String("topic", LocationTopic))
	return nil
}

func (s *LocationSubscriber) Stop() {
	if token := s.client.Unsubscribe(LocationTopic); token.Wait() && token.Error() != nil {
		logger().Warn("mqtt unsubscribe failed", zap.Error(token.Error()))
	}
	s.client.Disconnect(250)
}

// ChildIDFromTopic extracts the child id from safekids/child/<id>/location.
func ChildIDFromTopic(topic string) (string, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "safekids" || parts[1] != "child" || parts[3] != "location" || parts[2] == "" {
		return "", false
	}
	return parts[2], true
}

func (s *LocationSubscriber) handleMessage(_ paho.Client, msg paho.Message) {
	childID, ok := ChildIDFromTopic(msg.Topic())
	if !ok {
		logger().Warn("unexpected topic", zap.String("topic", msg.Topic()))
		return
	}

	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		logger().Warn("invalid location message", zap.String("childId", childID), zap.Error(err))
		return
	}
	if raw.Latitude == nil || raw.Longitude == nil {
		logger().Warn("location message without coordinates", zap.String("childId", childID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handleTimeout)
	defer cancel()

	_, err := s.reporter.ReportLocation(ctx, childID, &safekids.LocationInput{
		Latitude:     *raw.Latitude,
		Longitude:    *raw.Longitude,
		Accuracy:     raw.Accuracy,
		BatteryLevel: raw.BatteryLevel,
		Timestamp:    raw.Timestamp,
	})
	if err != nil {
		logger().Warn("report location failed", zap.String("childId", childID), zap.Error(err))
		return
	}
	logger().Debug("Location ingested", zap.String("childId", childID))
}

func logger() *zap.Logger {
	return common.GetLoggerWith(common.LoggerNameMQTTIngest)
}
