// Integration tests that exercise the real persistence stack.  They need
// a local Docker daemon and are gated behind NEBULA_INTEGRATION_TEST=1.
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nebulahq/hacknebula/internal/config"
	"github.com/nebulahq/hacknebula/internal/domain/judging"
	"github.com/nebulahq/hacknebula/internal/domain/team"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/postgres"
	"github.com/nebulahq/hacknebula/internal/infrastructure/database/postgres/repositories"
	"github.com/nebulahq/hacknebula/internal/infrastructure/monitoring/logging"
	"github.com/nebulahq/hacknebula/pkg/types/common"
)

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("NEBULA_INTEGRATION_TEST") == "" {
		t.Skip("set NEBULA_INTEGRATION_TEST=1 to run integration tests")
	}
}

// startPostgres launches a throwaway postgres container and returns a
// migrated connection.
func startPostgres(t *testing.T) *postgres.DB {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "nebula",
				"POSTGRES_PASSWORD": "nebula",
				"POSTGRES_DB":       "hacknebula_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:           host,
		Port:           port.Int(),
		User:           "nebula",
		Password:       "nebula",
		Database:       "hacknebula_test",
		SSLMode:        "disable",
		MaxOpenConns:   5,
		MaxIdleConns:   2,
		MigrationsPath: "../../migrations",
	}

	var db *postgres.DB
	require.Eventually(t, func() bool {
		db, err = postgres.Connect(ctx, cfg, logging.NewNop())
		return err == nil
	}, 30*time.Second, time.Second, "postgres did not come up: %v", err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())
	return db
}

func TestTeamRepository_RoundTrip(t *testing.T) {
	requireIntegration(t)

	db := startPostgres(t)
	repo := repositories.NewTeamRepository(db.Conn())
	svc := team.NewService(repo, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, team.CreateInput{
		Name:        "orbital",
		Track:       "ai",
		CreatorID:   "u1",
		CreatorName: "Ada",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.InviteCode)

	// Joining through the invite code lands the user on the same team.
	joined, err := svc.Join(ctx, "u2", "Grace", created.InviteCode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, joined.ID)
	assert.Len(t, joined.Members, 2)

	// The unique member constraint blocks a second membership.
	second, err := svc.Create(ctx, team.CreateInput{
		Name:      "solaris",
		CreatorID: "u3",
	})
	require.NoError(t, err)
	_, err = svc.Join(ctx, "u2", "Grace", second.InviteCode)
	assert.Error(t, err)

	got, err := repo.GetByMember(ctx, common.UserID("u2"))
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestJudgingRepository_Standings(t *testing.T) {
	requireIntegration(t)

	db := startPostgres(t)
	teamRepo := repositories.NewTeamRepository(db.Conn())
	teams := team.NewService(teamRepo, nil, nil)
	ctx := context.Background()

	created, err := teams.Create(ctx, team.CreateInput{Name: "orbital", CreatorID: "u1"})
	require.NoError(t, err)

	judgingRepo := repositories.NewJudgingRepository(db.Conn())
	now := time.Now().UTC()
	require.NoError(t, judgingRepo.Upsert(ctx, &judging.Scorecard{
		ID:      common.ID("card-1"),
		JudgeID: "judge-1",
		TeamID:  created.ID,
		Scores: map[string]float64{
			"innovation":   8,
			"execution":    7,
			"design":       6,
			"presentation": 9,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}))

	standings, err := judgingRepo.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	assert.Equal(t, created.ID, standings[0].TeamID)
	// 8*0.3 + 7*0.3 + 6*0.2 + 9*0.2, scaled to 0-100.
	assert.InDelta(t, 75.0, standings[0].AwardScore, 0.01)
}
