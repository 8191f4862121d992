package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/robalyx/dolmetscher/internal/setup"
	"github.com/robalyx/dolmetscher/internal/setup/telemetry"
	"github.com/urfave/cli/v3"
)

// Log directories per service.
const (
	CLILogDir       = "logs/cli_logs"
	WorkspaceLogDir = "logs/workspace_logs"
	RelayLogDir     = "logs/relay_logs"
)

var ErrNoInput = errors.New("no input text: pass it as arguments or on stdin")

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "dolmetscher",
		Usage: "Chinese to German translation assistant",
		Commands: []*cli.Command{
			translateCommand(),
			backCommand(),
			detectCommand(),
			convertCommand(),
			grammarCommand(),
			askCommand(),
			ocrCommand(),
			detranslateCommand(),
			personasCommand(),
			testCommand(),
			profileCommand(),
			glossaryCommand(),
			relayCommand(),
			workspaceCommand(),
		},
	}

	return app.Run(context.Background(), os.Args)
}

// appAction initializes the application for a command and cleans it up afterwards.
func appAction(
	serviceType telemetry.ServiceType, logDir string,
	fn func(ctx context.Context, c *cli.Command, app *setup.App) error,
) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		app, err := setup.InitializeApp(ctx, serviceType, logDir)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer app.Cleanup(ctx)

		return fn(ctx, c, app)
	}
}

// cliAction is appAction for the one-shot CLI commands.
func cliAction(fn func(ctx context.Context, c *cli.Command, app *setup.App) error) cli.ActionFunc {
	return appAction(telemetry.ServiceCLI, CLILogDir, fn)
}

// inputText returns the command arguments joined by spaces, or stdin when
// there are none.
func inputText(c *cli.Command) (string, error) {
	if c.Args().Len() > 0 {
		return strings.Join(c.Args().Slice(), " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", ErrNoInput
	}
	return text, nil
}
