// Command chambolle decomposes fringe images, labels training sets and
// generates synthetic interferograms.
//
// Usage:
//
//	chambolle label --config run.yaml --version 1 --count 1000
//	chambolle decompose image.bmp --out ./out
//	chambolle generate --root ./data --count 500 --seed 7
//	chambolle backends
package main

import (
	"context"
	"os"
	"os/signal"
)

var version = "v0.1.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
