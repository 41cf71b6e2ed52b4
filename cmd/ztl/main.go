package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/kasten/internal"
	"github.com/starford/kasten/internal/apperr"
	"github.com/starford/kasten/internal/noteservice"
	pkgconfig "github.com/starford/kasten/pkg/config"
)

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed, color.Bold)
)

// loadConfig layers the config file, then --path/ZTL_PATH and --verbose,
// over the defaults and validates the result once.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	_, err := pkgconfig.LoadOptional(cmd.String("config"), cfg, func(c *internal.Config) {
		if path := cmd.String("path"); path != "" {
			c.Kasten.Path = path
		}
		if cmd.Bool("verbose") {
			c.App.LogLevel = slog.LevelDebug
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (optional)",
			Sources: cli.EnvVars("ZTL_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:        "path",
			Aliases:     []string{"p"},
			Usage:       "Kasten directory, overrides the config file",
			DefaultText: internal.DefaultKastenPath,
			Sources:     cli.EnvVars("ZTL_PATH"),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Log debug output to stderr",
		},
	}
}

// withService adapts a note service action into a cli action.
func withService(action internal.Action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return internal.Run(ctx, action, internal.WithConfig(cfg))
	}
}

func initAction(ctx context.Context, svc *noteservice.Service) error {
	if err := svc.Init(ctx); err != nil {
		return err
	}
	success.Fprintln(os.Stderr, "Initialized empty kasten")
	return nil
}

func newAction(cmd *cli.Command) internal.Action {
	return func(ctx context.Context, svc *noteservice.Service) error {
		id, err := svc.Create(ctx, cmd.Bool("no-parent"))
		if err != nil {
			return err
		}
		success.Fprintf(os.Stderr, "Created zettel %s\n", id)
		return nil
	}
}

func editAction(cmd *cli.Command) internal.Action {
	return func(ctx context.Context, svc *noteservice.Service) error {
		if arg := cmd.Args().First(); arg != "" {
			id, err := uuid.Parse(arg)
			if err != nil {
				return fmt.Errorf("invalid zettel id %q: %w", arg, err)
			}
			return svc.EditID(ctx, id)
		}
		_, err := svc.Edit(ctx)
		if errors.Is(err, apperr.ErrNothingSelected) {
			warning.Fprintln(os.Stderr, "Nothing selected")
			return nil
		}
		return err
	}
}

func showAction(cmd *cli.Command) internal.Action {
	return func(ctx context.Context, svc *noteservice.Service) error {
		arg := cmd.Args().First()
		if arg == "" {
			return errors.New("show: zettel id required")
		}
		id, err := uuid.Parse(arg)
		if err != nil {
			return fmt.Errorf("invalid zettel id %q: %w", arg, err)
		}
		return svc.Show(ctx, id, os.Stdout)
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "ztl",
		Usage: "Zettelkasten of linked notes kept in a plain directory",
		Flags: globalFlags(),
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create an empty kasten",
				Action: withService(initAction),
			},
			{
				Name:  "new",
				Usage: "Create a zettel, linked to parents chosen interactively",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-parent",
						Usage: "Create a root zettel without asking for parents",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withService(newAction(cmd))(ctx, cmd)
				},
			},
			{
				Name:      "edit",
				Usage:     "Edit a zettel chosen interactively or by id",
				ArgsUsage: "[id]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withService(editAction(cmd))(ctx, cmd)
				},
			},
			{
				Name:  "graph",
				Usage: "Print the link graph in Graphviz dot syntax",
				Action: withService(func(ctx context.Context, svc *noteservice.Service) error {
					return svc.Graph(ctx, os.Stdout)
				}),
			},
			{
				Name:  "list",
				Usage: "List all zettels, oldest first",
				Action: withService(func(ctx context.Context, svc *noteservice.Service) error {
					return svc.List(ctx, os.Stdout)
				}),
			},
			{
				Name:      "show",
				Usage:     "Print a zettel with its parents and children",
				ArgsUsage: "<id>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withService(showAction(cmd))(ctx, cmd)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		failure.Fprintln(os.Stderr, "error:", err)
		slog.Debug("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
