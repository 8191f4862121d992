package main

import (
	"context"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/robalyx/dolmetscher/internal/ai"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/health"
	"github.com/robalyx/dolmetscher/internal/profile"
	"github.com/robalyx/dolmetscher/internal/register"
	"github.com/robalyx/dolmetscher/internal/setup"
	"github.com/urfave/cli/v3"
)

// explain prefixes err with the operator message for it.
func explain(err error) error {
	return fmt.Errorf("%s: %w", ai.Describe(err), err)
}

// credentials returns the current profile's credentials.
func credentials(ctx context.Context, app *setup.App) (profile.Credentials, error) {
	creds, err := app.Session.Credentials(ctx)
	if err != nil {
		return profile.Credentials{}, explain(err)
	}
	return creds, nil
}

func translateCommand() *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Usage:     "Translate Chinese text into German",
		ArgsUsage: "[TEXT]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "persona",
				Aliases: []string{"p"},
				Usage:   "Translation persona (see the personas command)",
			},
			&cli.BoolFlag{
				Name:    "copy",
				Aliases: []string{"c"},
				Usage:   "Copy the source and the translation to the clipboard",
			},
			&cli.BoolFlag{
				Name:  "no-verify",
				Usage: "Skip the back-translation",
			},
		},
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			source, err := inputText(c)
			if err != nil {
				return err
			}

			creds, err := credentials(ctx, app)
			if err != nil {
				return err
			}

			personaID := c.String("persona")
			if personaID == "" {
				personaID = app.Config.Assistant.DefaultPersona
			}

			target, err := app.Translator.Translate(ctx, creds.Primary, personaID, source, creds.Glossary)
			if err != nil {
				return explain(err)
			}

			fmt.Println(target)
			if label := register.Detect(target).Label(); label != "" {
				printField("人称", label)
			}

			if !c.Bool("no-verify") {
				printBackTranslation(app.BackService.BackTranslate(ctx, backtranslate.Credentials{
					Primary: creds.Primary,
					Vendor:  creds.Secondary,
				}, target))
			}

			if c.Bool("copy") {
				if err := clipboard.WriteAll(source + "\n\n" + target); err != nil {
					return fmt.Errorf("failed to copy to clipboard: %w", err)
				}
				fmt.Println(mutedStyle.Render("已复制原文和译文"))
			}

			return nil
		}),
	}
}

func printBackTranslation(result backtranslate.Result) {
	if result.Degraded {
		printField("回译", errorStyle.Render(result.Text))
		return
	}
	printField("回译", result.Text+mutedStyle.Render(" ("+result.Source.String()+")"))
}

func backCommand() *cli.Command {
	return &cli.Command{
		Name:      "back",
		Usage:     "Back-translate German text into Chinese",
		ArgsUsage: "[TEXT]",
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			text, err := inputText(c)
			if err != nil {
				return err
			}

			// A missing profile still yields the sentinel text
			creds, _ := app.Session.Credentials(ctx)

			printBackTranslation(app.BackService.BackTranslate(ctx, backtranslate.Credentials{
				Primary: creds.Primary,
				Vendor:  creds.Secondary,
			}, text))
			return nil
		}),
	}
}

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:      "detect",
		Usage:     "Detect the form of address of German text",
		ArgsUsage: "[TEXT]",
		Action: func(_ context.Context, c *cli.Command) error {
			text, err := inputText(c)
			if err != nil {
				return err
			}

			reg := register.Detect(text)
			formal, informal := register.Counts(text)

			printField("人称", reg.Label())
			printField("register", reg.String())
			fmt.Println(mutedStyle.Render(fmt.Sprintf("Sie: %d, Du: %d", formal, informal)))
			return nil
		},
	}
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert German text to Du or Sie",
		ArgsUsage: "[TEXT]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "Target form of address (du or sie)",
				Required: true,
			},
		},
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			dir, err := ai.ParseDirection(c.String("to"))
			if err != nil {
				return err
			}

			text, err := inputText(c)
			if err != nil {
				return err
			}

			creds, err := credentials(ctx, app)
			if err != nil {
				return err
			}

			converted, err := app.Converter.Convert(ctx, creds.Primary, dir, text)
			if err != nil {
				return explain(err)
			}

			fmt.Println(converted)
			return nil
		}),
	}
}

func grammarCommand() *cli.Command {
	return &cli.Command{
		Name:      "grammar",
		Usage:     "Check German text for grammar and spelling mistakes",
		ArgsUsage: "[TEXT]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "chinese",
				Usage: "Chinese reference text",
			},
		},
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			text, err := inputText(c)
			if err != nil {
				return err
			}

			creds, err := credentials(ctx, app)
			if err != nil {
				return err
			}

			result, err := app.Grammar.Check(ctx, creds.Primary, text, c.String("chinese"))
			if err != nil {
				return explain(err)
			}

			printMarkdown(result)
			return nil
		}),
	}
}

func askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask a question about German language or life in Germany",
		ArgsUsage: "[QUESTION]",
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			question, err := inputText(c)
			if err != nil {
				return err
			}

			creds, err := credentials(ctx, app)
			if err != nil {
				return err
			}

			answer, err := app.Assistant.Ask(ctx, creds.Primary, question)
			if err != nil {
				return explain(err)
			}

			printMarkdown(answer)
			return nil
		}),
	}
}

func ocrCommand() *cli.Command {
	return &cli.Command{
		Name:      "ocr",
		Usage:     "Extract text from an image",
		ArgsUsage: "IMAGE",
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("%w: expected one image path", ErrNoInput)
			}

			image, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("failed to read image: %w", err)
			}

			creds, err := credentials(ctx, app)
			if err != nil {
				return err
			}

			text, err := app.OCR.Extract(ctx, creds.Primary, image)
			if err != nil {
				return explain(err)
			}

			fmt.Println(text)
			return nil
		}),
	}
}

func detranslateCommand() *cli.Command {
	return &cli.Command{
		Name:      "detranslate",
		Usage:     "Translate German text into Chinese",
		ArgsUsage: "[TEXT]",
		Action: cliAction(func(ctx context.Context, c *cli.Command, app *setup.App) error {
			text, err := inputText(c)
			if err != nil {
				return err
			}

			creds, err := credentials(ctx, app)
			if err != nil {
				return err
			}

			result, err := app.Reverse.Translate(ctx, creds.Primary, text)
			if err != nil {
				return explain(err)
			}

			fmt.Println(result.Translation)
			printField("检测语言", result.Language)
			if result.Class != ai.LanguageGerman {
				fmt.Println(errorStyle.Render("输入似乎不是德语"))
			}
			return nil
		}),
	}
}

func personasCommand() *cli.Command {
	return &cli.Command{
		Name:  "personas",
		Usage: "List the translation personas",
		Action: cliAction(func(_ context.Context, _ *cli.Command, app *setup.App) error {
			for _, p := range app.Personas.List() {
				marker := " "
				if p.ID == app.Config.Assistant.DefaultPersona {
					marker = "*"
				}
				fmt.Printf("%s %-16s %-10s %s\n", marker, p.ID, p.Name, mutedStyle.Render(p.Model))
			}
			return nil
		}),
	}
}

func testCommand() *cli.Command {
	return &cli.Command{
		Name:  "test",
		Usage: "Test the connection to the translation services",
		Action: cliAction(func(ctx context.Context, _ *cli.Command, app *setup.App) error {
			checker := health.NewChecker(app.Translator, app.BackService, app.Logger)

			results, err := checker.Check(ctx, app.Session)
			if err != nil {
				return explain(err)
			}

			failed := 0
			for _, r := range results {
				line := r.String()
				if !r.OK {
					failed++
					line = errorStyle.Render(line)
				}
				fmt.Println(line)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		}),
	}
}

