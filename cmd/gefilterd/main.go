// Command gefilterd serves view suggestions and saved filter configurations
// over the HTTP API used by the httpgateway package.
//
// The configuration file must use the local gateway mode. Suggestions come
// from its views section and are reloaded whenever the file changes;
// configurations are saved to storage.path, or kept in memory if it is empty.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinicius-lino-figueiredo/gefilter/adapter/config"
)

func main() {
	path := flag.String("config", "gefilter.yaml", "configuration file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *path, *addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path, addr string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		return err
	}
	log := cfg.Logger(os.Stderr)

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	w := config.NewWatcher(path, config.WithLogger(log.With(slog.String("component", "watcher"))))
	go func() {
		if err := w.Watch(ctx, svc.reload); err != nil {
			log.Error("config watcher failed", slog.Any("error", err))
		}
	}()

	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("stopped")
	return nil
}
