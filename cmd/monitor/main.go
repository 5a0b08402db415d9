// Command monitor runs one legal-change monitoring pass: pull feeds, store
// new laws, refresh contract embeddings, match laws against contracts and
// deliver instant alerts.
//
// Exit codes: 0 = success or another run in progress, 1 = error.
package main

import (
	"os"

	"github.com/heartmarshall/legalpulse/internal/app"
)

func main() {
	os.Exit(app.RunJob(app.JobMonitor))
}
