package cmd

import (
	"log/slog"
	"testing"
	"time"

	"parcel-dispatch/internal/pkg/codec"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := parseConfig(env(nil))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoreSQLite, cfg.AssignmentStore)
	assert.Equal(t, StoreSQLite, cfg.LogStore)
	assert.Equal(t, StoreMemory, cfg.VehicleStore)
	assert.Equal(t, 15*time.Minute, cfg.PlaceholderTTL)
	assert.Equal(t, codec.JSON, cfg.PeerCodec)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.True(t, cfg.Swagger)
	assert.Empty(t, cfg.VehicleSeed)
}

func TestParseConfig_Overrides(t *testing.T) {
	cfg, err := parseConfig(env(map[string]string{
		"HTTP_PORT":        "9090",
		"ASSIGNMENT_STORE": "Postgres",
		"LOG_STORE":        "mongo",
		"VEHICLE_STORE":    "redis",
		"CALL_TIMEOUT":     "2s",
		"PEER_CODEC":       "yaml",
		"LOG_LEVEL":        "debug",
		"VEHICLE_SEED":     "V-1, V-2=http://v2.local/notify,",
		"STORE_URL":        "http://store:8080",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, StorePostgres, cfg.AssignmentStore)
	assert.Equal(t, StoreMongo, cfg.LogStore)
	assert.Equal(t, StoreRedis, cfg.VehicleStore)
	assert.Equal(t, 2*time.Second, cfg.CallTimeout)
	assert.Equal(t, codec.YAML, cfg.PeerCodec)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []VehicleSeed{{ID: "V-1"}, {ID: "V-2", NotifyURL: "http://v2.local/notify"}}, cfg.VehicleSeed)
	assert.Equal(t, "http://store:8080", cfg.StoreURL)
	assert.True(t, cfg.usesStore(StorePostgres))
	assert.False(t, cfg.usesStore(StoreSQLite))
}

func TestParseConfig_ReportsEveryInvalidValue(t *testing.T) {
	_, err := parseConfig(env(map[string]string{
		"ASSIGNMENT_STORE": "mongo",
		"CALL_TIMEOUT":     "soon",
		"NOTIFY_TIMEOUT":   "-1s",
		"PEER_CODEC":       "xml",
	}))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.ErrorContains(t, err, "ASSIGNMENT_STORE")
	assert.ErrorContains(t, err, "CALL_TIMEOUT")
	assert.ErrorContains(t, err, "PEER_CODEC")
}
