// Command lifecycle evaluates every contract's expiry once and applies the
// resulting status transitions and auto-renewals.
//
// Exit codes: 0 = success or another run in progress, 1 = error.
package main

import (
	"os"

	"github.com/heartmarshall/legalpulse/internal/app"
)

func main() {
	os.Exit(app.RunJob(app.JobLifecycle))
}
