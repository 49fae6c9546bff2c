package config

import (
	"context"
	"errors"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/urfave/cli/v3"
)

type ConfigCommandFactory struct{}

func NewConfigCommandFactory() *ConfigCommandFactory {
	return &ConfigCommandFactory{}
}

func (c *ConfigCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: t.GetMessage("config.usage", 0, nil),
		Commands: []*cli.Command{
			c.newShowCommand(t, cfg),
			c.newSetCommand(t, cfg),
		},
	}
}

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			if cfg.PathFile != "" {
				ui.PrintKeyValue(w, "file", cfg.PathFile)
			}

			rows := make([][]string, 0, len(config.Keys))
			for _, key := range config.Keys {
				value, _ := cfg.Get(key)
				if key == "github_token" {
					value = t.GetMessage("config.token_missing", 0, nil)
					if cfg.GitHubToken != "" {
						value = t.GetMessage("config.token_set", 0, nil)
					}
				}
				rows = append(rows, []string{key, value})
			}

			return ui.RenderTable(w, []string{
				t.GetMessage("table.key", 0, nil),
				t.GetMessage("table.value", 0, nil),
			}, rows)
		},
	}
}

func (c *ConfigCommandFactory) newSetCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     t.GetMessage("config.set_usage", 0, nil),
		ArgsUsage: "<key> <value>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return errors.New("expected <key> <value>, keys: " + strings.Join(config.Keys, ", "))
			}

			key := strings.ToLower(cmd.Args().Get(0))
			value := cmd.Args().Get(1)

			if _, ok := cfg.Get(key); !ok {
				return errors.New(t.GetMessage("config.unknown_key", 0, map[string]interface{}{
					"Key": key,
				}))
			}

			// Edit the file as written so environment overrides are not persisted.
			target, err := config.ReadFile(cfg.PathFile)
			if err != nil {
				return err
			}
			if err := target.Set(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(target); err != nil {
				return err
			}

			ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("config.saved", 0, map[string]interface{}{
				"Key": key,
			}))
			return nil
		},
	}
}
