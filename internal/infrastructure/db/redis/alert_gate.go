package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const gateTTL = 24 * time.Hour

// AlertGate records deactivated alerts so the notifier stops starting new
// attempts for them. Key format: sos:closed:<alert_id>
type AlertGate struct {
	client *redis.Client
}

func NewAlertGate(client *redis.Client) *AlertGate {
	return &AlertGate{client: client}
}

// Close marks the alert as deactivated.
func (g *AlertGate) Close(ctx context.Context, alertID string) error {
	if err := g.client.Set(ctx, g.key(alertID), "1", gateTTL).Err(); err != nil {
		return fmt.Errorf("close alert gate: %w", err)
	}
	return nil
}

// Open clears the mark, for a deactivation that could not be recorded.
func (g *AlertGate) Open(ctx context.Context, alertID string) error {
	if err := g.client.Del(ctx, g.key(alertID)).Err(); err != nil {
		return fmt.Errorf("open alert gate: %w", err)
	}
	return nil
}

// IsClosed reports whether Close has been called for the alert.
func (g *AlertGate) IsClosed(ctx context.Context, alertID string) (bool, error) {
	n, err := g.client.Exists(ctx, g.key(alertID)).Result()
	if err != nil {
		return false, fmt.Errorf("alert gate check: %w", err)
	}
	return n > 0, nil
}

func (g *AlertGate) key(alertID string) string {
	return fmt.Sprintf("sos:closed:%s", alertID)
}
