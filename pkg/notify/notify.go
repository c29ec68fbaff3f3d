// Package notify provides the push sender used when no FCM transport is
// configured: every notification is written to the structured log and
// reported as delivered.
package notify

import (
	"context"

	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/common"
)

type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(_ context.Context, pushToken, title, body string, data map[string]string) bool {
	logger := common.GetLoggerWith(common.LoggerNameNotify)
	if pushToken == "" {
		logger.Warn("No push token provided")
		return false
	}
	logger.Info("Console notification",
		zap.String("title", title),
		zap.String("body", body),
		zap.String("token", tokenPrefix(pushToken)),
		zap.Any("data", data),
	)
	return true
}

func (s *LogSender) SendMulticast(ctx context.Context, pushTokens []string, title, body string, data map[string]string) int {
	delivered := 0
	for _, token := range pushTokens {
		if s.Send(ctx, token, title, body, data) {
			delivered++
		}
	}
	return delivered
}

func tokenPrefix(token string) string {
	if len(token) <= 30 {
		return token
	}
	return token[:30] + "..."
}
