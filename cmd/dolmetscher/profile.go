package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/setup"
	"github.com/urfave/cli/v3"
)

var ErrNoProfile = errors.New("expected a profile name or id")

func profileCommand() *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Manage API key profiles",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all profiles",
				Action: cliAction(func(ctx context.Context, _ *cli.Command, app *setup.App) error {
					profiles, err := app.Store.List(ctx)
					if err != nil {
						return err
					}

					currentID := ""
					if current, err := app.Store.Current(ctx); err == nil {
						currentID = current.ID
					}

					if len(profiles) == 0 {
						fmt.Println(mutedStyle.Render("暂无配置"))
						return nil
					}

					for _, p := range profiles {
						marker := " "
						if p.ID == currentID {
							marker = "*"
						}
						fmt.Printf("%s %-20s %s %s\n", marker, p.Name,
							mutedStyle.Render(p.ID),
							mutedStyle.Render(fmt.Sprintf("%d 词条", len(p.Vocabulary))))
					}
					return nil
				}),
			},
			{
				Name:      "add",
				Usage:     "Create a profile and select it",
				ArgsUsage: "NAME",
				Flags:     profileKeyFlags(true),
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					p, err := app.Store.Save(ctx, profile.SaveRequest{
						Name:            c.Args().First(),
						APIKey:          c.String("api-key"),
						SecondaryAPIKey: c.String("secondary-key"),
					})
					if err != nil {
						return explain(err)
					}

					if err := app.Store.Select(ctx, p.ID); err != nil {
						return err
					}

					printField("已保存", p.Name)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Update a profile",
				ArgsUsage: "PROFILE",
				Flags: append(profileKeyFlags(false), &cli.StringFlag{
					Name:  "name",
					Usage: "New profile name",
				}),
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					p, err := findProfile(ctx, app.Store, c.Args().First())
					if err != nil {
						return err
					}

					req := profile.SaveRequest{
						EditID:          p.ID,
						Name:            p.Name,
						APIKey:          p.APIKey,
						SecondaryAPIKey: p.SecondaryAPIKey,
					}
					if c.IsSet("name") {
						req.Name = c.String("name")
					}
					if c.IsSet("api-key") {
						req.APIKey = c.String("api-key")
					}
					if c.IsSet("secondary-key") {
						req.SecondaryAPIKey = c.String("secondary-key")
					}

					updated, err := app.Store.Save(ctx, req)
					if err != nil {
						return explain(err)
					}

					printField("已更新", updated.Name)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a profile",
				ArgsUsage: "PROFILE",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					p, err := findProfile(ctx, app.Store, c.Args().First())
					if err != nil {
						return err
					}

					if err := app.Store.Delete(ctx, p.ID); err != nil {
						return err
					}

					printField("已删除", p.Name)
					return nil
				}),
			},
			{
				Name:      "select",
				Usage:     "Make a profile current",
				ArgsUsage: "PROFILE",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					p, err := findProfile(ctx, app.Store, c.Args().First())
					if err != nil {
						return err
					}

					if err := app.Store.Select(ctx, p.ID); err != nil {
						return err
					}

					printField("当前配置", p.Name)
					return nil
				}),
			},
			{
				Name:  "export",
				Usage: "Export all profiles to a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (defaults to a dated file name)",
					},
				},
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					data, err := app.Store.Export(ctx)
					if err != nil {
						return explain(err)
					}

					path := c.String("output")
					if path == "" {
						path = profile.ExportFileName(time.Now())
					}

					if err := os.WriteFile(path, data, 0o600); err != nil {
						return fmt.Errorf("failed to write export: %w", err)
					}

					printField("已导出", path)
					return nil
				}),
			},
			{
				Name:      "import",
				Usage:     "Import profiles from a JSON file",
				ArgsUsage: "FILE",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					data, err := readFileArg(c)
					if err != nil {
						return err
					}

					result, err := app.Store.Import(ctx, data)
					if err != nil {
						return explain(err)
					}

					fmt.Printf("导入 %d 个配置，跳过 %d 个\n", result.Added, result.Skipped)
					return nil
				}),
			},
		},
	}
}

// profileKeyFlags returns the API key flags of the add and edit commands.
func profileKeyFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "api-key",
			Aliases:  []string{"k"},
			Usage:    "Primary API key",
			Required: required,
		},
		&cli.StringFlag{
			Name:  "secondary-key",
			Usage: "Translation vendor API key used for back-translation",
		},
	}
}

// findProfile returns the profile whose id or name is ref.
func findProfile(ctx context.Context, store *profile.Store, ref string) (*profile.Profile, error) {
	if ref == "" {
		return nil, ErrNoProfile
	}

	profiles, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range profiles {
		if p.ID == ref {
			return p, nil
		}
	}
	for _, p := range profiles {
		if p.Name == ref {
			return p, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", profile.ErrNotFound, ref)
}

// readFileArg reads the file named by the single command argument.
func readFileArg(c *cli.Command) ([]byte, error) {
	if c.Args().Len() != 1 {
		return nil, fmt.Errorf("%w: expected one file path", ErrNoInput)
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.Args().First(), err)
	}
	return data, nil
}
