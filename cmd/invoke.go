package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/funcgate/funcgate/adapter"
	"github.com/funcgate/funcgate/app"
	"github.com/funcgate/funcgate/config"
	"github.com/funcgate/funcgate/internal/metrics"
	"github.com/funcgate/funcgate/util/conf"
	"github.com/funcgate/funcgate/util/logging"
)

var (
	invokeCmdDescription = `The invoke command performs a single local invocation: it
reads an invocation payload from a file or stdin, dispatches
it to the configured function, and prints the reply to
stdout. This mirrors the invocation contract used by the
platform triggers and is meant for local development.`
	invokeCmd = &cli.Command{
		Name:        "invoke",
		Usage:       "Invoke the function once with a local payload.",
		Description: invokeCmdDescription,
		Action:      invokeAction,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read the invocation payload from this file instead of stdin.",
			},
		},
	}
)

func invokeAction(ctx *cli.Context) error {
	log, err := logging.LoggerFromContext(ctx.Context)
	if err != nil {
		return err
	}

	cfg, err := conf.GetConfigFromContext[config.Config](ctx.Context)
	if err != nil {
		return err
	}

	payload, err := readPayload(ctx.Path("file"))
	if err != nil {
		return err
	}

	inv, err := adapter.Decode(payload)
	if err != nil {
		if errors.Is(err, adapter.ErrMalformedInvocation) {
			return writeReply(ctx.App.Writer, adapter.ErrorReplyFor(err))
		}
		return err
	}

	handler, stop, err := app.BuildHandler(cfg, log)
	if err != nil {
		return err
	}
	defer stop(ctx.Context)

	a := adapter.New(adapter.Params{
		Handler: handler,
		Config:  cfg.Function,
		Metrics: metrics.New(),
		Log:     log,
	})

	return writeReply(ctx.App.Writer, a.Invoke(ctx.Context, inv))
}

func readPayload(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(path)
}

func writeReply(w io.Writer, reply adapter.Reply) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reply)
}

func init() {
	rootApp.Commands = append(rootApp.Commands, invokeCmd)
}
