// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. unpaid sweep - cancels PENDING_PAYMENT orders older than the payment timeout
// 2. delivery sweep - completes DELIVERY_IN_PROGRESS orders older than the delivery timeout
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(cfg, &sweepHandler, lock, m, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs share one scheduler and run on fixed intervals (cron.Every).
// The chain wraps every job in cron.SkipIfStillRunning, so a slow pass
// makes the scheduler skip ticks instead of running twice.
//
// # Replicas
//
// Before a pass the job takes a lease named after it from ports.SweepLock.
// If another replica holds it the pass is skipped and counted.
package jobs
