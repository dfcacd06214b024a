package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	mongostore "parcel-dispatch/internal/adapters/out/mongo"
	redisstore "parcel-dispatch/internal/adapters/out/redis"
	"parcel-dispatch/internal/jobs"
	"parcel-dispatch/internal/observability"
	"parcel-dispatch/internal/pkg/callpolicy"
	"parcel-dispatch/internal/pkg/codec"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/joho/godotenv"
)

// Store backends selectable per repository.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreRedis    = "redis"
)

type Config struct {
	HTTPPort    string
	ServiceName string
	Environment string
	LogLevel    slog.Level
	Swagger     bool

	AssignmentStore       string
	LogStore              string
	VehicleStore          string
	AssignmentsSQLitePath string
	LogsSQLitePath        string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MongoURI      string
	MongoDatabase string

	VehicleSeed []VehicleSeed

	CallTimeout        time.Duration
	NotifyTimeout      time.Duration
	RequesterNotifyURL string
	VehicleNotifyURL   string

	PeerCodec   codec.Codec
	IDGenURL    string
	RegistryURL string
	StoreURL    string
	LogURL      string
	GatewayURL  string

	PlaceholderTTL           time.Duration
	PlaceholderSweepSchedule string

	OTelExporter string
	OTelEndpoint string
	OTelInsecure bool
}

// VehicleSeed is a vehicle registered at start-up unless already known.
type VehicleSeed struct {
	ID        string
	NotifyURL string
}

// LoadConfig reads .env when present and then the process environment.
// Malformed values are reported together.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errs.NewValueIsInvalidErrorWithCause(".env", err)
	}
	return parseConfig(os.Getenv)
}

func parseConfig(lookup func(string) string) (Config, error) {
	p := parser{lookup: lookup}

	cfg := Config{
		HTTPPort:    p.str("HTTP_PORT", "8080"),
		ServiceName: p.str("SERVICE_NAME", "parcel-dispatch"),
		Environment: p.str("ENVIRONMENT", "local"),
		LogLevel:    p.level("LOG_LEVEL", slog.LevelInfo),
		Swagger:     p.boolean("SWAGGER_ENABLED", true),

		AssignmentStore:       p.oneOf("ASSIGNMENT_STORE", StoreSQLite, StoreMemory, StoreSQLite, StorePostgres),
		LogStore:              p.oneOf("LOG_STORE", StoreSQLite, StoreMemory, StoreSQLite, StorePostgres, StoreMongo),
		VehicleStore:          p.oneOf("VEHICLE_STORE", StoreMemory, StoreMemory, StoreRedis, StorePostgres),
		AssignmentsSQLitePath: p.str("ASSIGNMENTS_SQLITE_PATH", "data/assignments.db"),
		LogsSQLitePath:        p.str("LOGS_SQLITE_PATH", "data/logs.db"),

		DBHost:     p.str("DB_HOST", "localhost"),
		DBPort:     p.str("DB_PORT", "5432"),
		DBUser:     p.str("DB_USER", "postgres"),
		DBPassword: p.str("DB_PASSWORD", ""),
		DBName:     p.str("DB_NAME", "dispatch"),
		DBSslMode:  p.str("DB_SSLMODE", "disable"),

		RedisAddr:     p.str("REDIS_ADDR", "localhost:6379"),
		RedisPassword: p.str("REDIS_PASSWORD", ""),
		RedisDB:       p.integer("REDIS_DB", 0),
		RedisPrefix:   p.str("REDIS_PREFIX", redisstore.DefaultPrefix),

		MongoURI:      p.str("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: p.str("MONGO_DATABASE", mongostore.DefaultDatabase),

		VehicleSeed: p.vehicles("VEHICLE_SEED"),

		CallTimeout:        p.duration("CALL_TIMEOUT", callpolicy.DefaultTimeout),
		NotifyTimeout:      p.duration("NOTIFY_TIMEOUT", callpolicy.DefaultTimeout),
		RequesterNotifyURL: p.str("REQUESTER_NOTIFY_URL", ""),
		VehicleNotifyURL:   p.str("VEHICLE_NOTIFY_URL", ""),

		PeerCodec:   p.codec("PEER_CODEC"),
		IDGenURL:    p.str("IDGEN_URL", ""),
		RegistryURL: p.str("REGISTRY_URL", ""),
		StoreURL:    p.str("STORE_URL", ""),
		LogURL:      p.str("LOG_URL", ""),
		GatewayURL:  p.str("GATEWAY_URL", ""),

		PlaceholderTTL:           p.duration("PLACEHOLDER_TTL", 15*time.Minute),
		PlaceholderSweepSchedule: p.str("PLACEHOLDER_SWEEP_SCHEDULE", jobs.DefaultExpirySchedule),

		OTelExporter: p.oneOf("OTEL_EXPORTER", observability.ExporterOTLP,
			observability.ExporterOTLP, observability.ExporterStdout, observability.ExporterNone),
		OTelEndpoint: p.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTelInsecure: p.boolean("OTEL_EXPORTER_OTLP_INSECURE", true),
	}

	return cfg, errors.Join(p.errs...)
}

// Observability returns the telemetry settings.
func (c Config) Observability() observability.Config {
	return observability.Config{
		ServiceName:  c.ServiceName,
		Environment:  c.Environment,
		Exporter:     c.OTelExporter,
		OTLPEndpoint: c.OTelEndpoint,
		OTLPInsecure: c.OTelInsecure,
		LogLevel:     c.LogLevel,
	}
}

func (c Config) usesStore(kind string) bool {
	return c.AssignmentStore == kind || c.LogStore == kind || c.VehicleStore == kind
}

type parser struct {
	lookup func(string) string
	errs   []error
}

func (p *parser) str(key, fallback string) string {
	if value := strings.TrimSpace(p.lookup(key)); value != "" {
		return value
	}
	return fallback
}

func (p *parser) oneOf(key, fallback string, allowed ...string) string {
	value := strings.ToLower(p.str(key, fallback))
	if !slices.Contains(allowed, value) {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key,
			errors.New("expected one of "+strings.Join(allowed, ", "))))
		return fallback
	}
	return value
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := p.str(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	if d <= 0 {
		p.errs = append(p.errs, errs.NewValueIsOutOfRangeError(key, d, time.Nanosecond, "unbounded"))
		return fallback
	}
	return d
}

func (p *parser) integer(key string, fallback int) int {
	raw := p.str(key, "")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return n
}

func (p *parser) boolean(key string, fallback bool) bool {
	raw := p.str(key, "")
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return b
}

func (p *parser) level(key string, fallback slog.Level) slog.Level {
	raw := p.str(key, "")
	if raw == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return fallback
	}
	return level
}

func (p *parser) codec(key string) codec.Codec {
	c, err := codec.ByName(p.str(key, ""))
	if err != nil {
		p.errs = append(p.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return codec.JSON
	}
	return c
}

// vehicles parses "V-1,V-2=http://v2.local/notify".
func (p *parser) vehicles(key string) []VehicleSeed {
	raw := p.str(key, "")
	if raw == "" {
		return nil
	}

	var seeds []VehicleSeed
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, url, _ := strings.Cut(item, "=")
		seeds = append(seeds, VehicleSeed{ID: strings.TrimSpace(id), NotifyURL: strings.TrimSpace(url)})
	}
	return seeds
}
