package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/powerwords/internal"
	"github.com/starford/powerwords/internal/apperr"
	pkgconfig "github.com/starford/powerwords/pkg/config"
)

func options(cmd *cli.Command) ([]internal.Option, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithFormat(cmd.String("format")),
		internal.WithDir(cmd.String("dir")),
		internal.WithVerbose(cmd.Bool("verbose")),
	}, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	opts, err := options(cmd)
	if err != nil {
		return err
	}
	if file := cmd.String("file"); file != "" {
		opts = append(opts, internal.WithResumeFile(file))
	}
	return internal.Run(ctx, opts...)
}

// withArg adapts a runner that takes one positional argument.
func withArg(name string, fn func(context.Context, string, ...internal.Option) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if cmd.Args().Len() != 1 {
			return apperr.Argument(name, fmt.Errorf("expected exactly one %s", name))
		}
		opts, err := options(cmd)
		if err != nil {
			return err
		}
		return fn(ctx, cmd.Args().First(), opts...)
	}
}

func main() {
	cmd := &cli.Command{
		Name:   "powerwords",
		Usage:  "Take timestamped session notes into a text file or a PDF",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Resume the session stored in a .txt or .pdf file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"F"},
				Usage:   "Output format for new sessions: text or pdf",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory new sessions are written to",
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "powerwords.yaml",
				Value:       "powerwords.yaml",
				Sources:     cli.EnvVars("POWERWORDS_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log debug output to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "sessions",
				Usage:     "List indexed sessions, or show one",
				ArgsUsage: "[PATH]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() > 0 {
						return withArg("PATH", internal.RunSession)(ctx, cmd)
					}
					opts, err := options(cmd)
					if err != nil {
						return err
					}
					return internal.RunSessions(ctx, opts...)
				},
			},
			{
				Name:      "search",
				Usage:     "Search indexed notes",
				ArgsUsage: "TERM",
				Action:    withArg("TERM", internal.RunSearch),
			},
			{
				Name:      "watch",
				Usage:     "Follow a session file as it grows",
				ArgsUsage: "PATH",
				Action:    withArg("PATH", internal.RunWatch),
			},
			{
				Name:      "render",
				Usage:     "Regenerate <stem>.pdf from a recovery log",
				ArgsUsage: "PATH.log",
				Action:    withArg("PATH", internal.RunRender),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		if apperr.IsArgument(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
