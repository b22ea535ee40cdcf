package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nebulahq/hacknebula/pkg/errors"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

// QuotaCounter tracks investor chip spend per UTC day on Redis counters.
// Keys expire shortly after the day they cover so old counters clean
// themselves up.
type QuotaCounter struct {
	client *Client
}

// NewQuotaCounter builds the counter on the shared client.
func NewQuotaCounter(client *Client) *QuotaCounter {
	return &QuotaCounter{client: client}
}

func quotaKey(investorID common.UserID, day common.Day) string {
	return fmt.Sprintf("nebula:chips:%s:%s", investorID, day)
}

// quotaExpiry keeps the key one full day past the bucket it covers, which
// outlives any in-flight allocation against it.
const quotaExpiry = 48 * time.Hour

// Spend atomically adds amount to the day's counter and returns the new
// total.
func (q *QuotaCounter) Spend(ctx context.Context, investorID common.UserID, day common.Day, amount int) (int, error) {
	key := quotaKey(investorID, day)
	rdb := q.client.Raw()

	total, err := rdb.IncrBy(ctx, key, int64(amount)).Result()
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeCacheError, "spend chip quota")
	}
	// Best effort; a missing expiry only delays cleanup.
	if total == int64(amount) {
		rdb.Expire(ctx, key, quotaExpiry)
	}
	return int(total), nil
}

// Refund undoes a spend after a failed allocation.
func (q *QuotaCounter) Refund(ctx context.Context, investorID common.UserID, day common.Day, amount int) error {
	err := q.client.Raw().DecrBy(ctx, quotaKey(investorID, day), int64(amount)).Err()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "refund chip quota")
	}
	return nil
}

// Spent returns the amount used so far for the day. A missing key means
// nothing was spent.
func (q *QuotaCounter) Spent(ctx context.Context, investorID common.UserID, day common.Day) (int, error) {
	total, err := q.client.Raw().Get(ctx, quotaKey(investorID, day)).Int()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, errors.Wrap(err, errors.ErrCodeCacheError, "read chip quota")
	}
	return total, nil
}
