package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/urfave/cli/v3"

	"github.com/matchdayhq/matchday/pkg/analytics"
)

// ExportCommand creates the export command
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export click events as NDJSON, optionally zstd compressed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output file (defaults to stdout, .zst suffix enables compression)",
			},
			&cli.BoolFlag{
				Name:  "compress",
				Usage: "Compress the output with zstd",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			_, st, err := openStore(c.String("config"))
			if err != nil {
				return err
			}
			defer func() {
				if err := st.Close(); err != nil {
					fmt.Printf("Warning: failed to close store: %v\n", err)
				}
			}()

			output := c.String("output")
			compress := c.Bool("compress") || strings.HasSuffix(output, ".zst")

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if compress {
				zw, err := zstd.NewWriter(w)
				if err != nil {
					return fmt.Errorf("creating zstd writer: %w", err)
				}
				defer zw.Close()
				w = zw
			}

			count, err := analytics.ExportNDJSON(ctx, st, w)
			if err != nil {
				return fmt.Errorf("exporting click events: %w", err)
			}

			if output != "" {
				fmt.Printf("Exported %d click events to %s\n", count, output)
			}
			return nil
		},
	}
}
