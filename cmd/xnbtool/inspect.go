package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xnacore/internal/content"
	"github.com/samcharles93/xnacore/internal/logger"
)

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show the header, type readers and root object of an XNB file",
		ArgsUsage: "<file.xnb>",
		Flags:     []cli.Flag{jsonFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			file := cmd.Args().First()
			if file == "" {
				return errors.New("inspect: missing input file")
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			m, asset, err := openContent(file, log)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			in, err := m.Inspect(asset, data)
			if err != nil {
				return err
			}
			return writeInspection(os.Stdout, in, jsonOutput)
		},
	}
}

func writeInspection(w io.Writer, in *content.Inspection, asJSON bool) error {
	if asJSON {
		b, err := json.MarshalIndent(in, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}

	profile := "Reach"
	if in.HiDef {
		profile = "HiDef"
	}
	fmt.Fprintf(w, "asset:        %s\n", in.Asset)
	fmt.Fprintf(w, "platform:     %s\n", in.Platform)
	fmt.Fprintf(w, "version:      %d (%s)\n", in.Version, profile)
	fmt.Fprintf(w, "compression:  %s", in.Compression)
	if in.Compression != "none" {
		fmt.Fprintf(w, " (ratio %.3f)", in.Ratio)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "file size:    %d bytes\n", in.FileSize)
	fmt.Fprintf(w, "payload size: %d bytes\n", in.PayloadSize)
	fmt.Fprintf(w, "blake3:       %s\n", in.Digest)
	fmt.Fprintf(w, "readers:      %d\n", len(in.Readers))
	for i, r := range in.Readers {
		fmt.Fprintf(w, "  [%d] %s (v%d)\n", i+1, r.Name, r.Version)
	}
	fmt.Fprintf(w, "shared:       %d\n", in.SharedResources)
	if in.RootType != "" {
		fmt.Fprintf(w, "root:         %s\n", in.RootType)
	}
	if in.DecodeError != "" {
		fmt.Fprintf(w, "decode error: %s\n", in.DecodeError)
	}
	return nil
}
