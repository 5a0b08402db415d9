// Command cleanup returns stale claimed notifications to the queue and
// deletes sent notifications older than the retention period. It is
// intended to be invoked by an external cron job.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"os"

	"github.com/heartmarshall/legalpulse/internal/app"
)

func main() {
	os.Exit(app.RunJob(app.JobCleanup))
}
