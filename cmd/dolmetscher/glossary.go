package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/robalyx/dolmetscher/internal/glossary"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/setup"
	"github.com/urfave/cli/v3"
)

func glossaryCommand() *cli.Command {
	return &cli.Command{
		Name:    "glossary",
		Aliases: []string{"vocab"},
		Usage:   "Manage the glossary of the current profile",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List glossary entries",
				Action: cliAction(func(ctx context.Context, _ *cli.Command, app *setup.App) error {
					creds, err := credentials(ctx, app)
					if err != nil {
						return err
					}

					if len(creds.Glossary) == 0 {
						fmt.Println(mutedStyle.Render("词汇表为空"))
						return nil
					}

					printGlossary(creds.Glossary)
					return nil
				}),
			},
			{
				Name:      "add",
				Usage:     "Add or overwrite an entry",
				ArgsUsage: "CHINESE GERMAN",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					if c.Args().Len() != 2 {
						return fmt.Errorf("%w: expected a Chinese and a German term", ErrNoInput)
					}

					updated, err := app.Session.AddTerm(ctx, glossary.Entry{
						Chinese: c.Args().Get(0),
						German:  c.Args().Get(1),
					})
					if err != nil {
						return explain(err)
					}

					printGlossary(updated)
					return nil
				}),
			},
			{
				Name:      "remove",
				Usage:     "Remove an entry by its number in the list",
				ArgsUsage: "NUMBER",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					number, err := entryNumber(c.Args().First())
					if err != nil {
						return err
					}

					updated, err := app.Session.RemoveTerm(ctx, number-1)
					if err != nil {
						return explain(err)
					}

					printGlossary(updated)
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Replace an entry by its number in the list",
				ArgsUsage: "NUMBER CHINESE GERMAN",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					if c.Args().Len() != 3 {
						return fmt.Errorf("%w: expected an entry number, a Chinese and a German term", ErrNoInput)
					}

					number, err := entryNumber(c.Args().First())
					if err != nil {
						return err
					}

					updated, err := app.Session.UpdateTerm(ctx, number-1, glossary.Entry{
						Chinese: c.Args().Get(1),
						German:  c.Args().Get(2),
					})
					if err != nil {
						return explain(err)
					}

					printGlossary(updated)
					return nil
				}),
			},
			{
				Name:  "clear",
				Usage: "Remove all entries",
				Action: cliAction(func(ctx context.Context, _ *cli.Command, app *setup.App) error {
					if err := app.Session.ClearTerms(ctx); err != nil {
						return explain(err)
					}

					fmt.Println(mutedStyle.Render("词汇表已清空"))
					return nil
				}),
			},
			{
				Name:      "import",
				Usage:     "Merge entries from a JSON file",
				ArgsUsage: "FILE",
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					data, err := readFileArg(c)
					if err != nil {
						return err
					}

					result, err := app.Session.ImportTerms(ctx, data)
					if err != nil {
						return explain(err)
					}

					fmt.Printf("导入 %d 个词条，跳过 %d 个\n", result.Added, result.Skipped)
					return nil
				}),
			},
			{
				Name:  "export",
				Usage: "Export the glossary to a JSON file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file (defaults to a dated file name)",
					},
				},
				Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
					data, p, err := app.Session.ExportTerms(ctx)
					if err != nil {
						return explain(err)
					}

					path := c.String("output")
					if path == "" {
						path = profile.VocabularyFileName(p.Name, time.Now())
					}

					if err := os.WriteFile(path, data, 0o600); err != nil {
						return fmt.Errorf("failed to write glossary: %w", err)
					}

					printField("已导出", path)
					return nil
				}),
			},
		},
	}
}

func printGlossary(g glossary.Glossary) {
	for i, entry := range g {
		fmt.Printf("%3d. %s → %s\n", i+1, entry.Chinese, entry.German)
	}
}

// entryNumber parses the 1-based entry number shown by the list command.
func entryNumber(arg string) (int, error) {
	number, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid entry number %q: %w", arg, err)
	}
	return number, nil
}
