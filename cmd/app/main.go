package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/muninn/internal"
	"github.com/starford/muninn/internal/distill"
	"github.com/starford/muninn/internal/pack"
	pkgconfig "github.com/starford/muninn/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("vault") {
		cfg.Vault.Path = cmd.String("vault")
	}
	if cmd.IsSet("output") {
		cfg.Output.Path = cmd.String("output")
	}
	if cmd.IsSet("templates") {
		cfg.Templates.Path = cmd.String("templates")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func packCommand() *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "Assemble a context pack for a query",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "seed", Usage: "Seed note id for graph expansion (repeatable)"},
			&cli.IntFlag{Name: "hops", Usage: "Link expansion depth from the seeds"},
			&cli.IntFlag{Name: "recent-days", Usage: "Include notes updated within this many days (0 disables)"},
			&cli.IntFlag{Name: "topk", Usage: "Keep the top K keyword matches"},
			&cli.IntFlag{Name: "max-tokens", Usage: "Token budget for the pack"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := strings.TrimSpace(cmd.Args().First())
			if query == "" {
				return fmt.Errorf("a query is required: muninn pack \"your question\"")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			opts := pack.Options{
				Query:      query,
				Seeds:      cmd.StringSlice("seed"),
				Hops:       cfg.Pack.Hops,
				RecentDays: cfg.Pack.RecentDays,
				TopK:       cfg.Pack.TopK,
				MaxTokens:  cfg.Pack.MaxTokens,
			}
			if cmd.IsSet("hops") {
				opts.Hops = int(cmd.Int("hops"))
			}
			if cmd.IsSet("recent-days") {
				opts.RecentDays = int(cmd.Int("recent-days"))
			}
			if cmd.IsSet("topk") {
				opts.TopK = int(cmd.Int("topk"))
			}
			if cmd.IsSet("max-tokens") {
				opts.MaxTokens = int(cmd.Int("max-tokens"))
			}
			logger := internal.NewLogger(cfg.App.LogLevel.Level)
			_, err = internal.RunPack(cfg, logger, opts, os.Stdout)
			return err
		},
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a note from its type template",
		ArgsUsage: "<type> <title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "slug", Usage: "Slug override for the file name and id"},
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing note"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			noteType := cmd.Args().Get(0)
			title := cmd.Args().Get(1)
			if noteType == "" || title == "" {
				return fmt.Errorf("usage: muninn new <type> <title>")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunNew(cfg, noteType, title, cmd.String("slug"), cmd.Bool("force"), os.Stdout)
		},
	}
}

func distillCommand() *cli.Command {
	return &cli.Command{
		Name:  "distill",
		Usage: "Capture a conversation outcome as a log note (interactive without --topic)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "topic", Usage: "Topic of the conversation"},
			&cli.StringFlag{Name: "context", Usage: "Background context"},
			&cli.StringFlag{Name: "decisions", Usage: "Decisions made"},
			&cli.StringFlag{Name: "knowledge", Usage: "New knowledge or insights"},
			&cli.StringFlag{Name: "tasks", Usage: `Follow-up tasks (\n for line breaks)`},
			&cli.StringFlag{Name: "questions", Usage: "Open questions"},
			&cli.StringFlag{Name: "links", Usage: "Comma-separated related note ids"},
			&cli.BoolFlag{Name: "force", Usage: "Overwrite an existing log note"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			in := distill.Input{
				Topic:     cmd.String("topic"),
				Context:   cmd.String("context"),
				Decisions: cmd.String("decisions"),
				Knowledge: cmd.String("knowledge"),
				Tasks:     strings.ReplaceAll(cmd.String("tasks"), `\n`, "\n"),
				Questions: cmd.String("questions"),
			}
			for _, l := range strings.Split(cmd.String("links"), ",") {
				if l = strings.TrimSpace(l); l != "" {
					in.Links = append(in.Links, l)
				}
			}
			interactive := in.Topic == ""
			return internal.RunDistill(cfg, in, interactive, os.Stdin, os.Stdout, cmd.Bool("force"))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Serve the vault tools over MCP stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunMCP(ctx, internal.WithConfig(cfg))
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "muninn",
		Usage: "Plain-text knowledge vault with LLM context-pack assembly and conversation distillation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("MUNINN_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Path to the note vault directory",
				Sources: cli.EnvVars("MUNINN_VAULT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Usage:   "Directory context packs are written to",
				Sources: cli.EnvVars("MUNINN_OUTPUT"),
			},
			&cli.StringFlag{
				Name:    "templates",
				Usage:   "Directory of note templates overriding the built-ins",
				Sources: cli.EnvVars("MUNINN_TEMPLATES"),
			},
		},
		Commands: []*cli.Command{
			packCommand(),
			newCommand(),
			distillCommand(),
			mcpCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
