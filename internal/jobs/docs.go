// Package jobs provides scheduled background tasks for the order workflow.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to keep the callback index healthy.
//
// # Available Jobs
//
// 1. SettlementJob - replays the follow-up of callbacks that were consumed but never settled,
// e.g. because the orchestrator was unreachable when the decision came in
// 2. ExpiryJob - marks pending callbacks past their deadline as EXPIRED
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager, err := jobs.NewJobManager(jobs.Schedules{
//		Settlement: "*/30 * * * * *",
//		Expiry:     "0 * * * * *",
//	}, SettleHandler, ExpireHandler, 30*time.Second, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions (with seconds). Neither job overlaps itself: a run
// that is still busy when the next tick fires makes that tick a no-op.
//
// # Error Handling
//
// Both jobs log failures and wait for their next tick. Settlement failures of individual
// callbacks are counted, not fatal.
package jobs
