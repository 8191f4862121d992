package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robalyx/dolmetscher/internal/setup"
	"github.com/robalyx/dolmetscher/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Relay server timeouts.
const (
	ReadTimeout     = 5 * time.Second
	WriteTimeout    = 10 * time.Second
	ShutdownTimeout = 30 * time.Second
)

func relayCommand() *cli.Command {
	return &cli.Command{
		Name:  "relay",
		Usage: "Run the back-translation relay server",
		Action: appAction(telemetry.ServiceRelay, RelayLogDir,
			func(_ context.Context, _ *cli.Command, app *setup.App) error {
				addr := fmt.Sprintf("%s:%d", app.Config.Relay.Host, app.Config.Relay.Port)

				// Writes must outlast a full vendor round trip
				writeTimeout := max(WriteTimeout,
					time.Duration(app.Config.Relay.RequestTimeout)*time.Millisecond+ReadTimeout)

				srv := &http.Server{
					Addr:         addr,
					Handler:      app.NewRelayHandler(),
					ReadTimeout:  ReadTimeout,
					WriteTimeout: writeTimeout,
				}

				serveErr := make(chan error, 1)
				go func() {
					log.Printf("Relay server started on %s", addr)
					if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						app.Logger.Error("Failed to start server", zap.Error(err))
						serveErr <- err
					}
				}()

				stop := make(chan os.Signal, 1)
				signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
				defer signal.Stop(stop)

				select {
				case <-stop:
				case err := <-serveErr:
					return fmt.Errorf("relay server failed: %w", err)
				}

				app.Logger.Info("Shutting down relay server...")

				ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
				defer cancel()

				if err := srv.Shutdown(ctx); err != nil {
					app.Logger.Error("Server forced to shutdown", zap.Error(err))
				}

				app.Logger.Info("Server gracefully stopped")
				return nil
			}),
	}
}
