package postgres_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/ticketa/eventpay/internal/config"
	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/infrastructure/persistence/postgres"
)

type testDatabase struct {
	container testcontainers.Container
	db        *postgres.DB
}

func setupTestDatabase(t *testing.T) *testDatabase {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := &config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Name:            "testdb",
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := postgres.Connect(ctx, dbConfig, logger)
	require.NoError(t, err)

	require.NoError(t, runMigrations(ctx, db))

	t.Cleanup(func() {
		db.Close()
		_ = container.Terminate(context.Background())
	})

	return &testDatabase{container: container, db: db}
}

func runMigrations(ctx context.Context, db *postgres.DB) error {
	_, filename, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(filepath.Dir(filename)))))
	migrationPath := filepath.Join(root, "db", "migrations", "001_init.up.sql")

	migrationSQL, err := os.ReadFile(migrationPath)
	if err != nil {
		return fmt.Errorf("read migration file from %s: %w", migrationPath, err)
	}

	_, err = db.Pool.Exec(ctx, string(migrationSQL))
	if err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

func newPendingResource(t *testing.T, repo *postgres.ResourceRepository, kind domain.ResourceKind, eventID string) (*domain.PayableResource, string) {
	t.Helper()
	ctx := context.Background()

	r := &domain.PayableResource{
		ID:               uuid.New().String(),
		Kind:             kind,
		OwnerID:          "user-" + uuid.New().String(),
		OwnerEmail:       "owner@example.com",
		EventID:          eventID,
		AmountMinorUnits: 1000,
		Currency:         "NGN",
		Status:           domain.StatusDraft,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repo.Create(ctx, r))

	ref := domain.NewReference(kind, r.ID)
	applied, err := repo.MarkPendingPayment(ctx, r.ID, ref, "https://checkout.example.com/x", r.AmountMinorUnits, time.Now())
	require.NoError(t, err)
	require.True(t, applied)

	return r, ref
}

func TestResourceRepository_ConditionalComplete(t *testing.T) {
	td := setupTestDatabase(t)
	repo := postgres.NewResourceRepository(td.db)
	ctx := context.Background()

	r, ref := newPendingResource(t, repo, domain.KindListing, "")

	got, err := repo.GetByReference(ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, domain.StatusPendingPayment, got.Status)
	require.NotNil(t, got.ChargedAmountMinorUnits)
	assert.EqualValues(t, 1000, *got.ChargedAmountMinorUnits)

	applied, err := repo.CompleteIfUnapplied(ctx, r.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, applied)

	// Second attempt must lose the compare-and-set.
	applied, err = repo.CompleteIfUnapplied(ctx, r.ID, time.Now())
	require.NoError(t, err)
	assert.False(t, applied)

	got, err = repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.True(t, got.SideEffectsApplied)
	assert.NotNil(t, got.PaymentCompletedAt)
}

func TestResourceRepository_ConcurrentCompleteSingleWinner(t *testing.T) {
	td := setupTestDatabase(t)
	repo := postgres.NewResourceRepository(td.db)
	ctx := context.Background()

	r, _ := newPendingResource(t, repo, domain.KindListing, "")

	const attempts = 10
	var wg sync.WaitGroup
	wins := make(chan bool, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			applied, err := repo.CompleteIfUnapplied(ctx, r.ID, time.Now())
			assert.NoError(t, err)
			wins <- applied
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for w := range wins {
		if w {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one caller may win the conditional write")
}

func TestResourceRepository_RevertToDraft(t *testing.T) {
	td := setupTestDatabase(t)
	repo := postgres.NewResourceRepository(td.db)
	ctx := context.Background()

	r, ref := newPendingResource(t, repo, domain.KindRegistration, "evt-1")

	// A stale reference never clobbers the row.
	applied, err := repo.RevertToDraft(ctx, r.ID, "REG-some-other-ref")
	require.NoError(t, err)
	assert.False(t, applied)

	applied, err = repo.RevertToDraft(ctx, r.ID, ref)
	require.NoError(t, err)
	assert.True(t, applied)

	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got.Status)
	assert.Nil(t, got.PaymentReference)
	assert.Nil(t, got.RedirectURL)
	assert.Nil(t, got.ChargedAmountMinorUnits)

	// The reference index is freed as well.
	got, err = repo.GetByReference(ctx, ref)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEventRepository_AdmitAttendeeCommutative(t *testing.T) {
	td := setupTestDatabase(t)
	events := postgres.NewEventRepository(td.db)
	ctx := context.Background()

	eventID := uuid.New().String()
	_, err := td.db.Pool.Exec(ctx,
		`INSERT INTO events (id, title) VALUES ($1, $2)`, eventID, "Launch Party")
	require.NoError(t, err)

	const attempts = 10
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := events.AdmitAttendee(ctx, eventID, "user-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := events.AttendeeCount(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "repeated admission of one user must count once")

	admitted, err := events.AdmitAttendee(ctx, eventID, "user-2")
	require.NoError(t, err)
	assert.True(t, admitted)

	count, err = events.AttendeeCount(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
