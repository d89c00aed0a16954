package cache

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
)

// startSpan opens a span for a cache operation when the request carries a
// Sentry hub. Only the key prefix is recorded; wizard ids stay out of traces.
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, "cache.inmemory."+operation)
	if span == nil {
		return nil
	}
	span.Op = "cache." + operation
	span.Description = keyPrefix(key)
	span.SetData("cache.key_prefix", keyPrefix(key))
	return span
}

// finishSpan closes a span opened by startSpan; nil spans are ignored
func finishSpan(span *sentry.Span, hit *bool) {
	if span == nil {
		return
	}
	if hit != nil {
		span.SetData("cache.hit", *hit)
	}
	span.Status = sentry.SpanStatusOK
	span.Finish()
}

func keyPrefix(key string) string {
	if i := strings.LastIndex(key, ":"); i >= 0 {
		return key[:i]
	}
	return key
}
