package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPrefix = "safekids.parents."

func userSubject(userID string) string {
	return fmt.Sprintf("%s%s.events", subjectPrefix, userID)
}

// userFromSubject extracts the user id from "safekids.parents.<id>.events".
func userFromSubject(subject string) (string, bool) {
	if !strings.HasPrefix(subject, subjectPrefix) || !strings.HasSuffix(subject, ".events") {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(subject, subjectPrefix), ".events")
	if id == "" || strings.Contains(id, ".") {
		return "", false
	}
	return id, true
}

type wireEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// NATSBridge lets several service instances share one logical session
// registry: Emit publishes to the user's subject and every instance delivers
// the event to the sessions it holds locally.
type NATSBridge struct {
	nc  *nats.Conn
	hub *Hub
	sub *nats.Subscription
}

func NewNATSBridge(nc *nats.Conn, hub *Hub) (*NATSBridge, error) {
	b := &NATSBridge{nc: nc, hub: hub}
	sub, err := nc.Subscribe(subjectPrefix+"*.events", b.handle)
	if err != nil {
		return nil, fmt.Errorf("subscribe realtime subject: %w", err)
	}
	b.sub = sub
	return b, nil
}

func (b *NATSBridge) Emit(userID string, event string, payload any) bool {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.hub.logger().Warn("marshal bridged event failed", zap.String("event", event), zap.Error(err))
		return false
	}
	msg, err := json.Marshal(wireEnvelope{Event: event, Payload: raw})
	if err != nil {
		return false
	}
	if err := b.nc.Publish(userSubject(userID), msg); err != nil {
		b.hub.logger().Warn("publish bridged event failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

func (b *NATSBridge) handle(msg *nats.Msg) {
	userID, ok := userFromSubject(msg.Subject)
	if !ok {
		return
	}
	var env wireEnvelope
	if err := json.Unmarshal(msg.Data, &env); err != nil {
		b.hub.logger().Warn("invalid bridged event", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	b.hub.Emit(userID, env.Event, env.Payload)
}

func (b *NATSBridge) Close() error {
	if b.sub == nil {
		return nil
	}
	return b.sub.Unsubscribe()
}
