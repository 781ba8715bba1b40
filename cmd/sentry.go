package main

import (
	"context"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/okian/synthorbit/internal/config"
	"github.com/okian/synthorbit/pkg/logger"
)

const sentryFlushTimeout = 2 * time.Second

// initSentry enables error reporting when a DSN is configured. The returned
// func flushes pending events and is safe to call either way.
func initSentry(ctx context.Context, c *config.Config) func() {
	log := logger.Get()
	if c.SentryDSN == "" {
		log.Debug(ctx, "sentry not configured")
		return func() {}
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.SentryDSN,
		Environment: c.Environment,
		Release:     "synthorbit@" + version,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	})
	if err != nil {
		log.Warn(ctx, "failed to initialize sentry", logger.Error(err))
		return func() {}
	}
	log.Info(ctx, "sentry initialized", logger.String("environment", c.Environment))
	return func() { sentry.Flush(sentryFlushTimeout) }
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization", "cookie", "x-api-key":
			filtered[k] = "[REDACTED]"
		default:
			filtered[k] = v
		}
	}
	return filtered
}
