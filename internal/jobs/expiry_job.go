package jobs

import (
	"context"
	"log/slog"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ExpireHandler is satisfied by commands.ExpireCallbacksCommandHandler.
type ExpireHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireCallbacksCommand) (int64, error)
}

// ExpiryJob periodically marks overdue pending callbacks as EXPIRED.
type ExpiryJob struct {
	handler  ExpireHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewExpiryJob(handler ExpireHandler, schedule string, logger *slog.Logger) *ExpiryJob {
	logger = logger.With("component", "expiry_job")
	return &ExpiryJob{
		handler:  handler,
		schedule: schedule,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Run performs one expiry pass and returns the number of callbacks expired.
func (j *ExpiryJob) Run(ctx context.Context) (int64, error) {
	n, err := j.handler.Handle(ctx, commands.NewExpireCallbacksCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Expiry job failed", "error", err)
	}
	return n, err
}

func (j *ExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Expiry job started", "schedule", j.schedule)
	return nil
}

func (j *ExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Expiry job stopped")
}
