package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xnacore/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "xnbtool",
		Usage: "Inspect and unpack XNB content containers and compiled effects",
		Flags: append(loggingFlags(), contentFlags()...),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			applyRootConfig(cmd, LoadConfig())
			level := logLevel
			if debug {
				level = "debug"
			}
			log := logger.ForFormat(logFormat, os.Stderr, logger.ParseLevel(level))
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			extractCmd(),
			effectCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
