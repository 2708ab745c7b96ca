package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

const (
	DefaultAlertStream = "safespace:sos:events"
	streamMaxLen       = 10000
)

// AlertStream publishes SOS lifecycle events to a Redis Stream for
// downstream consumers (dashboards, responders).
type AlertStream struct {
	client *redis.Client
	stream string
}

func NewAlertStream(client *redis.Client, stream string) *AlertStream {
	if stream == "" {
		stream = DefaultAlertStream
	}
	return &AlertStream{client: client, stream: stream}
}

// Publish appends one event entry. All values are stored as strings.
func (s *AlertStream) Publish(ctx context.Context, event string, a *domain.SOSAlert) error {
	values := map[string]interface{}{
		"event":        event,
		"alert_id":     a.ID,
		"user_id":      a.UserID,
		"status":       string(a.Status),
		"latitude":     strconv.FormatFloat(a.Location.Latitude, 'f', -1, 64),
		"longitude":    strconv.FormatFloat(a.Location.Longitude, 'f', -1, 64),
		"triggered_at": a.TriggeredAt.UTC().Format(time.RFC3339Nano),
		"contacts":     strconv.Itoa(len(a.NotifiedContactIDs)),
	}
	if a.DeactivatedAt != nil {
		values["deactivated_at"] = a.DeactivatedAt.UTC().Format(time.RFC3339Nano)
	}

	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}
