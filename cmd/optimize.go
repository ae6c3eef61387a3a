package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Optimize the database and reclaim disk space",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "vacuum",
				Usage: "Also run a full VACUUM (can take a while on large databases)",
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

			if err := st.Optimize(); err != nil {
				return fmt.Errorf("optimizing database: %w", err)
			}
			fmt.Println("Query planner statistics updated")

			if err := st.WALCheckpoint(); err != nil {
				return fmt.Errorf("checkpointing WAL: %w", err)
			}
			fmt.Println("WAL checkpointed")

			if c.Bool("vacuum") {
				if err := st.Vacuum(); err != nil {
					return fmt.Errorf("vacuuming database: %w", err)
				}
				fmt.Println("Database vacuumed")
			}

			return nil
		},
	}
}
