// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs run on github.com/robfig/cron/v3 with a seconds field, so schedules
// take six fields ("0 * * * * *") or a descriptor ("@every 30s").
//
// # Available Jobs
//
// PlaceholderExpiryJob fails pending placeholders older than the configured
// TTL. A run that aborts after the parcel id was generated leaves such a
// placeholder behind; the job routes each one through the status update
// workflow so the change is logged and relayed to the requester.
//
// # Usage
//
//	expiry := jobs.NewPlaceholderExpiryJob(expireHandler, "@every 1m", 15*time.Minute, logger)
//	manager := jobs.NewJobManager(expiry)
//	if err := manager.StartAll(); err != nil {
//		log.Fatal(err)
//	}
//	defer manager.StopAll()
//
// # Error Handling
//
// Sweep errors are logged and the next run proceeds normally. A sweep that
// is still running when the next tick fires causes that tick to be skipped.
package jobs
