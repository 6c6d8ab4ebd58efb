package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// SettleHandler is satisfied by commands.SettleCallbacksCommandHandler.
type SettleHandler interface {
	Handle(ctx context.Context, cmd commands.SettleCallbacksCommand) (commands.SettlementReport, error)
}

// SettlementJob periodically settles callbacks consumed more than grace ago.
type SettlementJob struct {
	handler  SettleHandler
	schedule string
	grace    time.Duration
	batch    int
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewSettlementJob(handler SettleHandler, schedule string, grace time.Duration, batch int, logger *slog.Logger) *SettlementJob {
	logger = logger.With("component", "settlement_job")
	return &SettlementJob{
		handler:  handler,
		schedule: schedule,
		grace:    grace,
		batch:    batch,
		cron:     newCron(logger),
		logger:   logger,
	}
}

// Run performs one settlement pass.
func (j *SettlementJob) Run(ctx context.Context) (commands.SettlementReport, error) {
	cmd, err := commands.NewSettleCallbacksCommand(j.grace, j.batch)
	if err != nil {
		return commands.SettlementReport{}, err
	}

	report, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Settlement job failed", "error", err)
	}
	return report, err
}

func (j *SettlementJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		_, _ = j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Settlement job started", "schedule", j.schedule, "grace", j.grace)
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *SettlementJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Settlement job stopped")
}

// newCron builds a seconds-resolution scheduler that skips a tick while the previous run is busy.
func newCron(logger *slog.Logger) *cron.Cron {
	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	return cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)),
	)
}
