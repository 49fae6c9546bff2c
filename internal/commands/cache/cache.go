package cache

import (
	"context"
	"fmt"

	"github.com/thomas-vilte/repocheck/internal/cache"
	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/urfave/cli/v3"
)

type CacheCommand struct {
	dir string
}

// NewCacheCommand manages the cache under dir, or cache.DefaultDir when dir
// is empty.
func NewCacheCommand(dir string) *CacheCommand {
	return &CacheCommand{dir: dir}
}

func (c *CacheCommand) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: t.GetMessage("cache.usage", 0, nil),
		Commands: []*cli.Command{
			{
				Name:  "clean",
				Usage: t.GetMessage("cache.clean_usage", 0, nil),
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "expired",
						Usage: t.GetMessage("cache.expired_flag", 0, nil),
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					dir := c.dir
					if dir == "" {
						var err error
						if dir, err = cache.DefaultDir(); err != nil {
							return fmt.Errorf(t.GetMessage("cache.error_init", 0, nil)+": %w", err)
						}
					}

					cacheService, err := cache.NewCache(dir, cfg.TTL())
					if err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_init", 0, nil)+": %w", err)
					}

					if cmd.Bool("expired") {
						if err := cacheService.CleanExpired(); err != nil {
							return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
						}
						ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("cache.expired_cleaned", 0, nil))
						return nil
					}

					if err := cacheService.Clean(); err != nil {
						return fmt.Errorf(t.GetMessage("cache.error_clean", 0, nil)+": %w", err)
					}

					ui.PrintSuccess(cmd.Root().Writer, t.GetMessage("cache.cleaned", 0, nil))
					return nil
				},
			},
		},
	}
}
