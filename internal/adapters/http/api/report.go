package api

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/okian/synthorbit/pkg/logger"
)

// captureError sends a server-side failure to Sentry when a client is configured.
func captureError(ctx context.Context, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if id := logger.RequestID(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.CaptureException(err)
	})
}

// recoverPanic sends a recovered panic value to Sentry when a client is configured.
func recoverPanic(ctx context.Context, rec any) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		if id := logger.RequestID(ctx); id != "" {
			scope.SetTag("request_id", id)
		}
		hub.RecoverWithContext(ctx, rec)
	})
}
