package jobs

import (
	"context"
	"log/slog"
	"time"

	"parcel-dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultExpirySchedule runs the sweep at the start of every minute.
const DefaultExpirySchedule = "0 * * * * *"

// DefaultExpiryBatchSize bounds the placeholders failed per run.
const DefaultExpiryBatchSize = 100

// PlaceholderExpirer is satisfied by commands.ExpirePlaceholdersCommandHandler.
type PlaceholderExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpirePlaceholdersCommand) (int, error)
}

// PlaceholderExpiryJob periodically fails placeholders that were never
// finalized. Overlapping runs are skipped.
type PlaceholderExpiryJob struct {
	handler   PlaceholderExpirer
	schedule  string
	ttl       time.Duration
	batchSize int
	timeout   time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewPlaceholderExpiryJob(
	handler PlaceholderExpirer,
	schedule string,
	ttl time.Duration,
	logger *slog.Logger,
) *PlaceholderExpiryJob {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "placeholder_expiry_job")

	return &PlaceholderExpiryJob{
		handler:   handler,
		schedule:  schedule,
		ttl:       ttl,
		batchSize: DefaultExpiryBatchSize,
		timeout:   time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		logger: logger,
	}
}

func (j *PlaceholderExpiryJob) Name() string {
	return "placeholder expiry"
}

// Start schedules the sweep. An unparsable schedule is reported here.
func (j *PlaceholderExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Placeholder expiry job started",
		"schedule", j.schedule, "ttl", j.ttl.String())
	return nil
}

// Stop waits for a running sweep to finish.
func (j *PlaceholderExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Placeholder expiry job stopped")
}

// Run performs a single sweep and returns the number of expired placeholders.
func (j *PlaceholderExpiryJob) Run(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	cmd, err := commands.NewExpirePlaceholdersCommand(j.ttl, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Placeholder expiry job misconfigured", "error", err)
		return 0
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Placeholder expiry job failed", "error", err, "expired", expired)
	}
	return expired
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
