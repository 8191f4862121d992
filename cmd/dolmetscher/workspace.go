package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/robalyx/dolmetscher/internal/setup"
	"github.com/robalyx/dolmetscher/internal/setup/telemetry"
	"github.com/robalyx/dolmetscher/internal/tui"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func workspaceCommand() *cli.Command {
	return &cli.Command{
		Name:    "workspace",
		Aliases: []string{"tui"},
		Usage:   "Open the interactive translation workspace",
		Action: appAction(telemetry.ServiceWorkspace, WorkspaceLogDir,
			func(ctx context.Context, _ *cli.Command, app *setup.App) error {
				ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
				defer stop()

				if !app.Session.Configured(ctx) {
					app.Logger.Warn("No profile configured, translations will fail until one is added")
				}

				mgr := tui.NewManager(app.Logger)

				orch := app.NewOrchestrator(mgr.Notify)
				defer orch.Close()

				mgr.Attach(ctx, orch, app.Session, tui.Options{
					Personas:       app.Personas.List(),
					DefaultPersona: app.Config.Assistant.DefaultPersona,
					LogPath:        filepath.Join(app.LogManager.GetCurrentSessionDir(), "main.log"),
					Copy:           clipboard.WriteAll,
				})

				if err := mgr.Run(ctx); err != nil {
					app.Logger.Error("Workspace exited with error", zap.Error(err))
					return err
				}
				return nil
			}),
	}
}
