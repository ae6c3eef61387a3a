package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show row counts for the search database",
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

			stats, err := st.Stats()
			if err != nil {
				return fmt.Errorf("reading stats: %w", err)
			}

			keys := make([]string, 0, len(stats))
			for k := range stats {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			for _, k := range keys {
				fmt.Printf("%-14s %v\n", k, stats[k])
			}
			return nil
		},
	}
}
