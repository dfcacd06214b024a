package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	httpin "parcel-dispatch/internal/adapters/in/http"
	"parcel-dispatch/internal/adapters/out/memory"
	mongostore "parcel-dispatch/internal/adapters/out/mongo"
	"parcel-dispatch/internal/adapters/out/peers"
	"parcel-dispatch/internal/adapters/out/postgres"
	"parcel-dispatch/internal/adapters/out/postgres/assignmentrepo"
	"parcel-dispatch/internal/adapters/out/postgres/logrepo"
	"parcel-dispatch/internal/adapters/out/postgres/vehiclerepo"
	redisstore "parcel-dispatch/internal/adapters/out/redis"
	"parcel-dispatch/internal/adapters/out/sqlite"
	"parcel-dispatch/internal/adapters/out/webhook"
	"parcel-dispatch/internal/core/application/collaborators"
	"parcel-dispatch/internal/core/application/usecases/commands"
	"parcel-dispatch/internal/core/application/usecases/queries"
	"parcel-dispatch/internal/core/domain/model/kernel"
	"parcel-dispatch/internal/core/domain/model/vehicle"
	"parcel-dispatch/internal/core/ports"
	"parcel-dispatch/internal/jobs"
	"parcel-dispatch/internal/observability"
	"parcel-dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// CompositionRoot owns the process-wide dependencies and builds handlers
// from them.
type CompositionRoot struct {
	config      Config
	logger      *slog.Logger
	instruments *observability.Instruments
	now         func() time.Time

	assignments ports.AssignmentRepository
	logs        ports.LogRepository
	vehicles    ports.VehicleRepository

	// local are the in-process collaborators exposed to peers; bound are
	// the ones the orchestrator calls, remote when a peer URL is set.
	local httpin.Collaborators
	bound commands.Collaborators

	updateReporter commands.UpdateReporter

	closers []func() error
}

func NewCompositionRoot(ctx context.Context, cfg Config, instruments *observability.Instruments) (*CompositionRoot, error) {
	logger := slog.Default()
	if instruments != nil && instruments.Logger != nil {
		logger = instruments.Logger
	}

	c := &CompositionRoot{
		config:      cfg,
		logger:      logger,
		instruments: instruments,
		now:         time.Now,
	}
	if err := c.openStores(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	if err := c.seedVehicles(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.bindCollaborators()
	return c, nil
}

func (c *CompositionRoot) openStores(ctx context.Context) error {
	cfg := c.config

	var gormDB *gorm.DB
	if cfg.usesStore(StorePostgres) {
		db, err := postgres.Open(ctx, postgres.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode))
		if err != nil {
			return err
		}
		c.closers = append(c.closers, func() error { return postgres.Close(db) })
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		gormDB = db
	}

	sqliteDBs := map[string]*sql.DB{}
	openSQLite := func(path string) (*sql.DB, error) {
		if db, ok := sqliteDBs[path]; ok {
			return db, nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		db, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, db.Close)
		sqliteDBs[path] = db
		return db, nil
	}

	switch cfg.AssignmentStore {
	case StoreSQLite:
		db, err := openSQLite(cfg.AssignmentsSQLitePath)
		if err != nil {
			return err
		}
		if c.assignments, err = sqlite.NewAssignmentRepository(ctx, db); err != nil {
			return err
		}
	case StorePostgres:
		c.assignments = assignmentrepo.NewGormAssignmentRepository(gormDB)
	default:
		c.assignments = memory.NewAssignmentRepository()
	}

	switch cfg.LogStore {
	case StoreSQLite:
		db, err := openSQLite(cfg.LogsSQLitePath)
		if err != nil {
			return err
		}
		if c.logs, err = sqlite.NewLogRepository(ctx, db); err != nil {
			return err
		}
	case StorePostgres:
		c.logs = logrepo.NewGormLogRepository(gormDB)
	case StoreMongo:
		client, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect to mongo: %w", err)
		}
		c.closers = append(c.closers, func() error { return client.Disconnect(context.Background()) })
		repo := mongostore.NewLogRepository(client, cfg.MongoDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		c.logs = repo
	default:
		c.logs = memory.NewLogRepository()
	}

	switch cfg.VehicleStore {
	case StoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c.closers = append(c.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		c.vehicles = redisstore.NewVehicleRepository(client, cfg.RedisPrefix)
	case StorePostgres:
		c.vehicles = vehiclerepo.NewGormVehicleRepository(gormDB)
	default:
		c.vehicles = memory.NewVehicleRepository()
	}

	return nil
}

// seedVehicles registers VEHICLE_SEED entries that the store does not know yet.
func (c *CompositionRoot) seedVehicles(ctx context.Context) error {
	for _, seed := range c.config.VehicleSeed {
		id, err := kernel.VehicleIDFromString(seed.ID)
		if err != nil {
			return err
		}

		_, err = c.vehicles.Get(ctx, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return err
		}

		v, err := vehicle.NewVehicle(id, seed.NotifyURL, true, c.now())
		if err != nil {
			return err
		}
		if err := c.vehicles.Save(ctx, v); err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "vehicle seeded", "component", "composition_root", "vehicle_id", id.String())
	}
	return nil
}

func (c *CompositionRoot) bindCollaborators() {
	cfg := c.config
	peerConfig := func(baseURL string) peers.Config {
		return peers.Config{BaseURL: baseURL, Codec: cfg.PeerCodec, Timeout: cfg.CallTimeout}
	}
	hook := webhook.NewClient(cfg.NotifyTimeout)

	var store ports.AssignmentStore = collaborators.NewAssignmentStore(c.assignments, c.now)
	c.local.AssignmentStore = store
	if cfg.StoreURL != "" {
		store = peers.NewAssignmentStoreClient(peerConfig(cfg.StoreURL))
	}
	c.bound.AssignmentStore = store

	c.local.IDGenerator = collaborators.NewIDGenerator(store, nil, c.logger)
	c.bound.IDGenerator = c.local.IDGenerator
	if cfg.IDGenURL != "" {
		c.bound.IDGenerator = peers.NewIDGeneratorClient(peerConfig(cfg.IDGenURL))
	}

	c.local.VehicleRegistry = collaborators.NewVehicleRegistry(c.vehicles, store, hook, cfg.VehicleNotifyURL, c.logger)
	c.bound.VehicleRegistry = c.local.VehicleRegistry
	if cfg.RegistryURL != "" {
		c.bound.VehicleRegistry = peers.NewVehicleRegistryClient(peerConfig(cfg.RegistryURL))
	}

	c.local.EventLog = collaborators.NewEventLog(c.logs, c.logger)
	c.bound.EventLog = c.local.EventLog
	if cfg.LogURL != "" {
		c.bound.EventLog = peers.NewEventLogClient(peerConfig(cfg.LogURL), c.logger)
	}

	c.local.NotificationGateway = collaborators.NewNotificationGateway(hook, cfg.RequesterNotifyURL, c.logger)
	c.bound.NotificationGateway = c.local.NotificationGateway
	if cfg.GatewayURL != "" {
		c.bound.NotificationGateway = peers.NewNotificationGatewayClient(peerConfig(cfg.GatewayURL))
	}

	c.updateReporter = observability.NewReportUpdate(
		commands.NewReportUpdateCommandHandler(c.bound, c.timeouts(), c.now, c.logger),
		observability.WithInstruments(c.instruments),
	)
}

func (c *CompositionRoot) timeouts() commands.Timeouts {
	return commands.Timeouts{Call: c.config.CallTimeout, Notify: c.config.NotifyTimeout}
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() httpin.AssignDeliveryHandler {
	return observability.NewAssignDelivery(
		commands.NewAssignDeliveryCommandHandler(c.bound, c.timeouts(), c.now, c.logger),
		observability.WithInstruments(c.instruments),
	)
}

func (c *CompositionRoot) CreateReportUpdateCommandHandler() commands.UpdateReporter {
	return c.updateReporter
}

func (c *CompositionRoot) CreateAcknowledgeNotificationCommandHandler() *commands.AcknowledgeNotificationCommandHandler {
	return commands.NewAcknowledgeNotificationCommandHandler(c.bound.EventLog, c.config.CallTimeout, c.now, c.logger)
}

func (c *CompositionRoot) CreateRegisterVehicleCommandHandler() commands.RegisterVehicleCommandHandler {
	return commands.NewRegisterVehicleCommandHandler(c.vehicles, c.now)
}

func (c *CompositionRoot) CreateExpirePlaceholdersCommandHandler() commands.ExpirePlaceholdersCommandHandler {
	return commands.NewExpirePlaceholdersCommandHandler(c.assignments, c.updateReporter, c.now, c.logger)
}

func (c *CompositionRoot) CreateGetAssignmentQueryHandler() queries.GetAssignmentQueryHandler {
	return queries.NewGetAssignmentQueryHandler(c.bound.AssignmentStore)
}

func (c *CompositionRoot) CreateListLogsQueryHandler() queries.ListLogsQueryHandler {
	return queries.NewListLogsQueryHandler(c.logs)
}

func (c *CompositionRoot) CreateListVehiclesQueryHandler() queries.ListVehiclesQueryHandler {
	return queries.NewListVehiclesQueryHandler(c.vehicles)
}

// NewRouter builds the echo instance with the public API and the peer
// endpoints of the local collaborators.
func (c *CompositionRoot) NewRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		AssignDelivery:  c.CreateAssignDeliveryCommandHandler(),
		ReportUpdate:    c.CreateReportUpdateCommandHandler(),
		Acknowledge:     c.CreateAcknowledgeNotificationCommandHandler(),
		RegisterVehicle: c.CreateRegisterVehicleCommandHandler(),
		GetAssignment:   c.CreateGetAssignmentQueryHandler(),
		ListLogs:        c.CreateListLogsQueryHandler(),
		ListVehicles:    c.CreateListVehiclesQueryHandler(),
	})

	return httpin.NewRouter(server, httpin.RouterConfig{
		Peer:    httpin.NewPeerServer(c.local),
		Swagger: c.config.Swagger,
		Logger:  c.logger,
	})
}

func (c *CompositionRoot) NewJobManager() *jobs.JobManager {
	expiry := jobs.NewPlaceholderExpiryJob(
		c.CreateExpirePlaceholdersCommandHandler(),
		c.config.PlaceholderSweepSchedule,
		c.config.PlaceholderTTL,
		c.logger,
	)
	return jobs.NewJobManager(expiry)
}

// Close releases stores in reverse open order.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}
