package branches

import (
	"context"
	"encoding/json"

	"github.com/thomas-vilte/repocheck/internal/commands/completion_helper"
	"github.com/thomas-vilte/repocheck/internal/commands/flags"
	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/thomas-vilte/repocheck/internal/validation"
	"github.com/urfave/cli/v3"
)

type BranchService interface {
	AuthorBranches(ctx context.Context, q models.RepositoryQuery) ([]string, error)
	CreateAuthorBranch(ctx context.Context, owner, repo, author, base string) (string, error)
}

// BranchServiceProvider builds the service lazily so commands that never
// reach GitHub do not need a client.
type BranchServiceProvider func(ctx context.Context) (BranchService, error)

type BranchesCommandFactory struct {
	provider BranchServiceProvider
}

func NewBranchesCommandFactory(provider BranchServiceProvider) *BranchesCommandFactory {
	return &BranchesCommandFactory{provider: provider}
}

func (f *BranchesCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "branches",
		Usage: t.GetMessage("branches.usage", 0, nil),
		Flags: append(flags.Repository(t),
			&cli.StringFlag{
				Name:  flags.Since,
				Usage: t.GetMessage("flag.since", 0, nil),
			},
			&cli.StringFlag{
				Name:  flags.Until,
				Usage: t.GetMessage("flag.until", 0, nil),
			},
			flags.JSONOutput(t),
		),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			q, err := validation.BranchesRequest{
				Repository: flags.RepositoryFrom(cmd),
				Since:      cmd.String(flags.Since),
				Until:      cmd.String(flags.Until),
			}.Query()
			if err != nil {
				return err
			}

			svc, err := f.provider(ctx)
			if err != nil {
				return err
			}

			spinner := ui.NewSmartSpinner(t.GetMessage("branches.usage", 0, nil))
			spinner.Start()
			branches, err := svc.AuthorBranches(ctx, q)
			spinner.Stop()
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if cmd.Bool(flags.JSON) {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(branches)
			}

			if len(branches) == 0 {
				ui.PrintWarning(w, t.GetMessage("branches.none", 0, map[string]interface{}{
					"Author": q.Author,
				}))
				return nil
			}

			ui.PrintInfo(w, t.GetMessage("branches.found", len(branches), map[string]interface{}{
				"Count":  len(branches),
				"Author": q.Author,
			}))
			return ui.RenderBranches(w, t, branches)
		},
	}
}
