package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start brings up the API and SSE listeners and arms the signal
// handler. The returned channel closes once a termination signal has
// been received; callers then finish with Stop.
func (a *App) Start() <-chan struct{} {
	terminateChan := make(chan struct{})

	listen := func(name string, srv *http.Server) {
		slog.Info(name+" server listening", "address", srv.Addr)

		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			slog.Error("app: "+name+" server exited", "error", err)
			os.Exit(1)
		}
	}

	go listen("http", a.httpServer)
	go listen("sse", a.sseServer)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		defer signal.Stop(sigint)

		<-sigint

		if a.cancel != nil {
			a.cancel()
		}

		close(terminateChan)

		slog.Info("application gracefully shutdown")
	}()

	return terminateChan
}

// Serve drives the API server from an injected listener, which lets
// tests bind an ephemeral port.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- a.httpServer.Serve(l)
		close(errChan)
	}()

	return errChan
}

// Stop drains both servers, waits for background goroutines, and
// closes every registered resource in order.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "app: shutdown resource", "name", "HTTP Server", "error", err)
	}
	if err := a.sseServer.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "app: shutdown resource", "name", "SSE Server", "error", err)
	}

	slog.InfoContext(ctx, "waiting for background goroutines")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "app: background goroutines", "error", err)
	}
	slog.InfoContext(ctx, "background goroutines finished")

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "app: shutdown resource", "name", closer.name, "error", err)
		}
	}
}
