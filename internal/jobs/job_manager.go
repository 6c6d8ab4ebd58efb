package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSettlementSchedule = "*/30 * * * * *"
	DefaultExpirySchedule     = "0 * * * * *"
	settlementBatch           = 100
)

// Schedules holds the cron expressions of the jobs. Empty fields use the defaults.
type Schedules struct {
	Settlement string
	Expiry     string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	settlementJob *SettlementJob
	expiryJob     *ExpiryJob
}

// NewJobManager creates a new job manager with all required jobs. Schedules are parsed up front
// so a typo fails at startup rather than at the first tick.
func NewJobManager(
	schedules Schedules,
	settle SettleHandler,
	expire ExpireHandler,
	settlementGrace time.Duration,
	logger *slog.Logger,
) (*JobManager, error) {
	if schedules.Settlement == "" {
		schedules.Settlement = DefaultSettlementSchedule
	}
	if schedules.Expiry == "" {
		schedules.Expiry = DefaultExpirySchedule
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, spec := range map[string]string{"SETTLEMENT_SCHEDULE": schedules.Settlement, "EXPIRY_SCHEDULE": schedules.Expiry} {
		if _, err := parser.Parse(spec); err != nil {
			return nil, fmt.Errorf("%s %q: %w", name, spec, err)
		}
	}

	return &JobManager{
		settlementJob: NewSettlementJob(settle, schedules.Settlement, settlementGrace, settlementBatch, logger),
		expiryJob:     NewExpiryJob(expire, schedules.Expiry, logger),
	}, nil
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.settlementJob.Start(); err != nil {
		return fmt.Errorf("failed to start settlement job: %w", err)
	}

	if err := jm.expiryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.settlementJob.Stop()
		return fmt.Errorf("failed to start expiry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.expiryJob.Stop()
	jm.settlementJob.Stop()
}
