package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/matchdayhq/matchday/pkg/config"
	"github.com/matchdayhq/matchday/pkg/store"
)

// MigrateCommand creates the migrate command
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply pending database migrations",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "status",
				Usage: "Show migration status without applying anything",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			st, err := store.Open(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer func() {
				if err := st.Close(); err != nil {
					fmt.Printf("Warning: failed to close store: %v\n", err)
				}
			}()

			if c.Bool("status") {
				return printMigrationStatus(st)
			}

			if err := st.Migrate(); err != nil {
				return fmt.Errorf("applying migrations: %w", err)
			}

			fmt.Println("Migrations applied")
			return printMigrationStatus(st)
		},
	}
}

func printMigrationStatus(st *store.Store) error {
	status, err := st.MigrationStatus()
	if err != nil {
		return fmt.Errorf("reading migration status: %w", err)
	}

	fmt.Printf("Applied migrations: %d\n", len(status.Applied))
	for _, m := range status.Applied {
		applied := ""
		if m.AppliedAt != nil {
			applied = m.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Printf("  %03d %s (%s)\n", m.Version, m.Name, applied)
	}

	if len(status.Pending) > 0 {
		fmt.Printf("Pending migrations: %d\n", len(status.Pending))
		for _, m := range status.Pending {
			fmt.Printf("  %03d %s\n", m.Version, m.Name)
		}
	}

	return nil
}
