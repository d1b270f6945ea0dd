// Package async includes helpers for scheduling runnable, periodic functions.
package async

import (
	"context"
	"reflect"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "async")

// RunEvery runs the provided command periodically.
// It runs in a goroutine, and can be cancelled by finishing the supplied context.
func RunEvery(ctx context.Context, period time.Duration, f func()) {
	funcName := runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
	runEvery(ctx, period, funcName, f)
}

func runEvery(ctx context.Context, period time.Duration, name string, f func()) {
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				log.WithField("function", name).Trace("running")
				f()
			case <-ctx.Done():
				log.WithField("function", name).Debug("context is closed, exiting")
				return
			}
		}
	}()
}
