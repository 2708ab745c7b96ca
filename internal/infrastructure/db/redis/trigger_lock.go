package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/yaswanth810/Women-Safety-Platform/internal/core/domain"
)

const defaultLockTTL = 10 * time.Second

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TriggerLock serializes SOS triggers per user across API instances.
// Key format: sos:lock:<user_id>
type TriggerLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTriggerLock(client *redis.Client, ttl time.Duration) *TriggerLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &TriggerLock{client: client, ttl: ttl}
}

// Acquire takes the user's lock or returns domain.ErrConflict if it is held.
func (l *TriggerLock) Acquire(ctx context.Context, userID string) (func(), error) {
	key := l.key(userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("trigger lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: sos trigger already in progress", domain.ErrConflict)
	}

	release := func() {
		// Detached so a cancelled request still frees the lock.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, nil
}

func (l *TriggerLock) key(userID string) string {
	return fmt.Sprintf("sos:lock:%s", userID)
}
