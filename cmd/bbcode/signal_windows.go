//go:build windows

package main

import (
	"context"
	"os"
	"os/signal"
)

// shutdownSignals end watch and serve sessions. Windows delivers only
// os.Interrupt to console programs.
var shutdownSignals = []os.Signal{os.Interrupt}

// notifyContext returns a context cancelled by the first shutdown signal.
// Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
