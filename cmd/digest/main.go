// Command digest delivers queued notifications for one digest mode.
//
// Usage:
//
//	digest -mode=daily
//
// Exit codes: 0 = success or another run in progress, 1 = error.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/heartmarshall/legalpulse/internal/app"
	"github.com/heartmarshall/legalpulse/internal/domain"
)

func main() {
	mode := flag.String("mode", "daily", "digest mode: instant, daily or weekly")
	flag.Parse()

	if !domain.DigestMode(*mode).IsValid() {
		fmt.Fprintf(os.Stderr, "unknown digest mode %q\n", *mode)
		os.Exit(1)
	}
	os.Exit(app.RunJob("digest-" + *mode))
}
