package mongo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	mongoadapter "parcel-dispatch/internal/adapters/out/mongo"
	"parcel-dispatch/internal/core/domain/model/logentry"
	"parcel-dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	mongoOnce sync.Once
	mongoURI  string
	mongoErr  error
)

// mongoClient connects to a shared MongoDB container. Tests are skipped
// when no container runtime is available.
func mongoClient(t *testing.T) *mongo.Client {
	t.Helper()

	mongoOnce.Do(func() {
		mongoURI, mongoErr = startMongoContainer()
	})
	if mongoErr != nil {
		t.Skipf("skipping Mongo tests: %v", mongoErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	return client
}

func startMongoContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	container, err := testcontainers.Run(
		ctx, "mongo:7",
		testcontainers.WithExposedPorts("27017/tcp"),
		testcontainers.WithWaitStrategy(
			wait.ForListeningPort("27017/tcp").WithStartupTimeout(2*time.Minute),
		),
	)
	if err != nil {
		return "", fmt.Errorf("start mongo container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(context.Background())
		return "", fmt.Errorf("mongo host: %w", err)
	}
	port, err := container.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = container.Terminate(context.Background())
		return "", fmt.Errorf("mongo port: %w", err)
	}
	if host == "" || host == "localhost" {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port()), nil
}

func TestLogRepository_AppendAndList(t *testing.T) {
	ctx := t.Context()
	repo := mongoadapter.NewLogRepository(mongoClient(t), fmt.Sprintf("dispatch_%d", time.Now().UnixNano()))
	require.NoError(t, repo.EnsureIndexes(ctx))
	ts := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	for i, parcelID := range []string{"P-1", "P-2", "P-1"} {
		e, err := logentry.NewEntry("Orchestrator", "acquire_vehicle", logentry.LevelInfo,
			map[string]any{logentry.ParcelIDKey: parcelID, "attempt": i}, ts)
		require.NoError(t, err)

		stored, err := repo.Append(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), stored.ID())
	}

	all, err := repo.List(ctx, ports.LogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].ID())
	assert.True(t, ts.Equal(all[0].Timestamp()))

	forParcel, err := repo.List(ctx, ports.LogFilter{ParcelID: "P-1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, forParcel, 1)
	assert.Equal(t, int64(3), forParcel[0].ID())
	assert.InDelta(t, 2, forParcel[0].Detail()["attempt"], 0)
}

func TestLogRepository_ConcurrentAppendsGetDistinctIDs(t *testing.T) {
	ctx := t.Context()
	repo := mongoadapter.NewLogRepository(mongoClient(t), fmt.Sprintf("dispatch_%d", time.Now().UnixNano()))

	var wg sync.WaitGroup
	ids := make(chan int64, 20)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, _ := logentry.NewEntry("Orchestrator", "report_update", logentry.LevelInfo, nil, time.Now())
			stored, err := repo.Append(ctx, e)
			if assert.NoError(t, err) {
				ids <- stored.ID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 20)
}
