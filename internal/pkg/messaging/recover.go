package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/stacktrace"
)

// callHandlerWithRecover shields the consume loop from handler
// panics, converting them into errors so one bad message cannot take
// the worker down.
func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		var logged any = string(stack)
		if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
			logged = paths
		}
		slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", logged)
		err = fmt.Errorf("pkgmessage: panic in %s handler: %v", kind, rvr)
	}()

	return fn()
}
