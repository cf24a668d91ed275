package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/funcgate/funcgate/config"
	"github.com/funcgate/funcgate/internal/shell"
	"github.com/funcgate/funcgate/util/conf"
	"github.com/funcgate/funcgate/util/logging"
)

var (
	appName  = "funcgate"
	appUsage = `A shim for running generic HTTP-handling applications as
cloud function invocation targets on arbitrary platforms.`
	rootApp = &cli.App{
		Name:            appName,
		Usage:           appUsage,
		HideHelpCommand: true,
		Args:            true,
		Flags: []cli.Flag{
			// general flags
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "set the log level. Options: debug, info, warn, error, panic, fatal.",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.PathFlag{
				Name:    "config",
				Usage:   "load configuration from this file (json or .env).",
				EnvVars: []string{"CONFIG_FILE"},
			},
			// function flags
			&cli.StringFlag{
				Name:     "target",
				Usage:    "the function entry point to serve.",
				Aliases:  []string{"t"},
				Category: "function",
				EnvVars:  []string{"FUNCTION_TARGET"},
			},
			&cli.StringFlag{
				Name:     "mode",
				Usage:    "where the wrapped handler comes from. Options: registry, proxy.",
				Aliases:  []string{"m"},
				Category: "function",
				EnvVars:  []string{"FUNCTION_MODE"},
			},
			&cli.StringFlag{
				Name:     "api-key",
				Usage:    "shared key required in the api-key header of http invocations.",
				Category: "function",
				EnvVars:  []string{"API_KEY"},
			},
			// upstream flags
			&cli.StringFlag{
				Name:     "command",
				Usage:    "the command to invoke in order to start the wrapped application process.",
				Aliases:  []string{"c"},
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_COMMAND"},
			},
			&cli.StringSliceFlag{
				Name:     "arg",
				Usage:    "additional arguments to pass to the wrapped application process.",
				Aliases:  []string{"a"},
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_ARGS"},
			},
			&cli.IntFlag{
				Name:     "upstream-port",
				Usage:    "fixed port the wrapped application listens on. Zero picks a free port per process.",
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_PORT"},
			},
			&cli.IntFlag{
				Name:     "min-procs",
				Usage:    "number of wrapped application processes to start eagerly.",
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_MIN_PROCS"},
			},
			&cli.IntFlag{
				Name:     "max-procs",
				Usage:    "maximum number of concurrent wrapped application processes.",
				Aliases:  []string{"n"},
				Category: "upstream",
				EnvVars:  []string{"UPSTREAM_MAX_PROCS"},
			},
		},
		Before: func(ctx *cli.Context) error {
			// create the logger
			log, err := createLogger(ctx)
			if err != nil {
				return err
			}

			// inject logger into cli context
			ctx.Context = logging.ContextWithLogger(ctx.Context, log)

			// parse config using defaults, file, env and cli flags
			cfg, err := conf.Parse[config.Config](conf.ParseOptions{
				Defaults: config.DefaultConfig,
				FileName: ctx.Path("config"),
				Cli:      ctx,
				CliMap:   rootFlagMap,
				Log:      log,
			})
			if err != nil {
				return err
			}

			// inject the config into the cli context
			ctx.Context = conf.ContextWithConfig(ctx.Context, cfg)

			return nil
		},
		After: func(ctx *cli.Context) error {
			log, err := logging.LoggerFromContext(ctx.Context)
			if err != nil {
				return err
			}

			log.Sync()

			return nil
		},
	}

	// rootFlagMap maps root-level cli flags to nested config keys.
	rootFlagMap = map[string]string{
		"target":        "function.target",
		"mode":          "function.mode",
		"api-key":       "auth.key",
		"command":       "upstream.command",
		"arg":           "upstream.arg",
		"upstream-port": "upstream.port",
		"min-procs":     "upstream.min_procs",
		"max-procs":     "upstream.max_procs",
	}
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:               "version",
		Usage:              "print the version",
		DisableDefaultText: true,
	}
}

type ExecuteParams struct {
	Version  string
	Compiled time.Time
}

func Execute(params ExecuteParams) {
	rootApp.Version = params.Version
	rootApp.Compiled = params.Compiled

	run(context.Background(), os.Args)
}

func run(ctx context.Context, args []string) {
	err := rootApp.RunContext(ctx, args)

	// if app exited without error, return
	if err == nil {
		return
	}

	// if app exited with an ExitError, exit with the given exit code
	if exitErr, ok := shell.AsExitError(err); ok {
		os.Exit(exitErr.ExitCode)
	}

	fmt.Fprintf(os.Stderr, "exit error: %s\n", err.Error())

	// otherwise, exit with exit code 1
	os.Exit(1)
}

func createLogger(ctx *cli.Context) (*zap.Logger, error) {
	level := getLogLevelFromCLI(ctx)
	format := getLogFormatFromCLI(ctx)

	var config zap.Config
	if format == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	config.InitialFields = map[string]any{
		"app": appName,
	}

	config.Level = level

	return config.Build()
}

func getLogFormatFromCLI(ctx *cli.Context) string {
	format := ctx.String("log-format")
	if format != "" {
		return format
	}

	return "production"
}

func getLogLevelFromCLI(ctx *cli.Context) zap.AtomicLevel {
	lvl := ctx.String("log-level")

	if atom, err := zap.ParseAtomicLevel(lvl); err == nil {
		return atom
	}

	return zap.NewAtomicLevelAt(zap.InfoLevel)
}
