package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	ExchangeName = "safekids.events"
	QueueName    = "geofence_alerts"
)

// AlertPublisher fans logged geofence alerts out to downstream consumers
// (reporting, SMS escalation) over a durable fanout exchange.
type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertMessage struct {
	Type         string                `json:"type"`
	AlertID      string                `json:"alertId"`
	GeofenceID   string                `json:"geofenceId"`
	GeofenceName string                `json:"geofenceName"`
	ZoneType     models.GeofenceType   `json:"zoneType"`
	ChildID      string                `json:"childId"`
	Action       models.GeofenceAction `json:"action"`
	Location     alertLocation         `json:"location"`
	Timestamp    int64                 `json:"timestamp"`
	Notified     bool                  `json:"notified"`
}

type alertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func buildAlertMessage(alert *models.GeofenceAlert, geofence *models.Geofence) alertMessage {
	return alertMessage{
		Type:         "geofence.alert",
		AlertID:      alert.ID,
		GeofenceID:   alert.GeofenceID,
		GeofenceName: geofence.Name,
		ZoneType:     geofence.Type,
		ChildID:      alert.ChildID,
		Action:       alert.Action,
		Location: alertLocation{
			Latitude:  alert.Latitude,
			Longitude: alert.Longitude,
		},
		Timestamp: alert.Timestamp.UnixMilli(),
		Notified:  alert.Notified,
	}
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *models.GeofenceAlert, geofence *models.Geofence) error {
	body, err := json.Marshal(buildAlertMessage(alert, geofence))
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    alert.ID,
		Body:         body,
	})
}

func (p *AlertPublisher) Close() error {
	return p.ch.Close()
}
