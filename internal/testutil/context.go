package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout returns a context canceled at the given timeout or
// at test cleanup, whichever comes first.
func ContextWithTimeout(t testing.TB, duration time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), duration)
	t.Cleanup(cancel)
	return ctx
}

// ContextWithCancel returns a background context and its cancel func,
// the cancel also wired into test cleanup.
func ContextWithCancel(t testing.TB) (context.Context, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx, cancel
}
