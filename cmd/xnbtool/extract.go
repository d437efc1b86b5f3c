package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/xnacore/internal/logger"
	"github.com/samcharles93/xnacore/pkg/xnb"
)

func extractCmd() *cli.Command {
	var (
		out    string
		rewrap bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Write the decompressed payload of an XNB file",
		ArgsUsage: "<file.xnb>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (default: input name with .bin, or .raw.xnb with --rewrap)",
				Destination: &out,
			},
			&cli.BoolFlag{
				Name:        "rewrap",
				Usage:       "write an uncompressed XNB container instead of the bare payload",
				Destination: &rewrap,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			file := cmd.Args().First()
			if file == "" {
				return errors.New("extract: missing input file")
			}
			suffix := ".bin"
			if rewrap {
				suffix = ".raw" + xnb.Extension
			}
			dst := outputPath(file, out, suffix)
			n, err := extract(file, dst, rewrap)
			if err != nil {
				return err
			}
			log.Info("extracted", "input", file, "output", dst, "bytes", n)
			return nil
		},
	}
}

// extract writes the payload of src to dst and returns the bytes written.
func extract(src, dst string, rewrap bool) (int, error) {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return 0, fmt.Errorf("extract: output %s would overwrite the input", dst)
	}
	f, err := xnb.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	data := f.Payload
	if rewrap {
		h := f.Header
		h.Flags &^= xnb.FlagCompressedLZX | xnb.FlagCompressedLZ4
		if data, err = xnb.Encode(h, f.Payload); err != nil {
			return 0, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return 0, err
	}
	return len(data), nil
}
