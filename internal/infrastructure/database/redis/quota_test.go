package redis

import (
	"context"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

func newMockQuota(t *testing.T) (*QuotaCounter, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	client := &Client{rdb: db, logger: logging.NewNop()}
	return NewQuotaCounter(client), mock
}

func TestQuotaCounter_SpendFirstOfDaySetsExpiry(t *testing.T) {
	q, mock := newMockQuota(t)
	key := "nebula:chips:investor-1:2026-08-30"
	mock.ExpectIncrBy(key, 3).SetVal(3)
	mock.ExpectExpire(key, quotaExpiry).SetVal(true)

	total, err := q.Spend(context.Background(), "investor-1", common.Day("2026-08-30"), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaCounter_SpendAccumulates(t *testing.T) {
	q, mock := newMockQuota(t)
	key := "nebula:chips:investor-1:2026-08-30"
	mock.ExpectIncrBy(key, 4).SetVal(9)

	total, err := q.Spend(context.Background(), "investor-1", common.Day("2026-08-30"), 4)

	require.NoError(t, err)
	assert.Equal(t, 9, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaCounter_Refund(t *testing.T) {
	q, mock := newMockQuota(t)
	key := "nebula:chips:investor-1:2026-08-30"
	mock.ExpectDecrBy(key, 4).SetVal(5)

	err := q.Refund(context.Background(), "investor-1", common.Day("2026-08-30"), 4)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuotaCounter_SpentMissingKeyIsZero(t *testing.T) {
	q, mock := newMockQuota(t)
	mock.ExpectGet("nebula:chips:investor-2:2026-08-30").RedisNil()

	total, err := q.Spent(context.Background(), "investor-2", common.Day("2026-08-30"))

	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestQuotaCounter_Spent(t *testing.T) {
	q, mock := newMockQuota(t)
	mock.ExpectGet("nebula:chips:investor-1:2026-08-30").SetVal("7")

	total, err := q.Spent(context.Background(), "investor-1", common.Day("2026-08-30"))

	require.NoError(t, err)
	assert.Equal(t, 7, total)
}
