package main

import "github.com/urfave/cli/v3"

var (
	contentRoot string
	logLevel    string
	logFormat   string
	debug       bool
	jsonOutput  bool
)

func contentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "content-root",
			Aliases:     []string{"root"},
			Usage:       "content root directory external references resolve against (default: the input file's directory)",
			Destination: &contentRoot,
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:        "json",
		Usage:       "print JSON instead of text",
		Destination: &jsonOutput,
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
