package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/matchdayhq/matchday/pkg/config"
)

// InitCommand creates the init command
func InitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a template configuration file",
		Action: func(ctx context.Context, c *cli.Command) error {
			configPath := c.String("config")

			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("config file already exists at %s", configPath)
			}

			if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}

			if err := config.SaveTemplateConfig(configPath); err != nil {
				return fmt.Errorf("writing template config: %w", err)
			}

			fmt.Printf("Created config file at %s\n", configPath)
			fmt.Println("Edit it to point at your database and locale dictionary, then run 'matchday serve'.")
			return nil
		},
	}
}
