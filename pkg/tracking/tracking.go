// Package tracking reports unexpected errors and panics to Sentry.
//
// Every function is a no-op until Init succeeds with a non-empty DSN, so
// callers never need to check whether tracking is configured.
package tracking

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/shashiranjanraj/devburger/pkg/reqid"
)

var enabled atomic.Bool

// Init configures the Sentry client. An empty dsn leaves tracking disabled.
func Init(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("tracking: init: %w", err)
	}

	enabled.Store(true)
	return nil
}

// Enabled reports whether events are being sent.
func Enabled() bool { return enabled.Load() }

// CaptureException sends err tagged with the request id found in ctx.
func CaptureException(ctx context.Context, err error, tags map[string]string) {
	if !Enabled() || err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		if id := reqid.FromCtx(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}

// Recover reports a recovered panic value.
func Recover(ctx context.Context, v any) {
	if !Enabled() {
		return
	}
	hub := sentry.CurrentHub().Clone()
	if id := reqid.FromCtx(ctx); id != "" {
		hub.Scope().SetTag("request_id", id)
	}
	hub.RecoverWithContext(ctx, v)
}

// Flush waits up to timeout for buffered events to be delivered.
func Flush(timeout time.Duration) bool {
	if !Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
