package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nebulahq/hacknebula/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeConflict, "lock not acquired")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held")
)

// releaseScript deletes the lock key only when the caller still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-instance Redis mutex used to serialize galaxy map
// rebuilds across API replicas.
type Lock struct {
	client *Client
	key    string
	token  string
	ttl    time.Duration
}

// NewLock prepares a lock for key. Acquire must be called before the lock
// protects anything.
func NewLock(client *Client, key string, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Lock{client: client, key: "nebula:lock:" + key, ttl: ttl}
}

// Acquire takes the lock, returning ErrLockNotAcquired when another holder
// owns it.
func (l *Lock) Acquire(ctx context.Context) error {
	token, err := randomToken()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "generate lock token")
	}
	ok, err := l.client.Raw().SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "acquire lock")
	}
	if !ok {
		return ErrLockNotAcquired
	}
	l.token = token
	return nil
}

// Release frees the lock. Releasing a lock that expired or was taken over
// returns ErrLockNotHeld.
func (l *Lock) Release(ctx context.Context) error {
	if l.token == "" {
		return ErrLockNotHeld
	}
	n, err := releaseScript.Run(ctx, l.client.Raw(), []string{l.key}, l.token).Int()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "release lock")
	}
	l.token = ""
	if n == 0 {
		return ErrLockNotHeld
	}
	return nil
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
