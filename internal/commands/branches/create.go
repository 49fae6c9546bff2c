package branches

import (
	"context"

	"github.com/thomas-vilte/repocheck/internal/commands/completion_helper"
	"github.com/thomas-vilte/repocheck/internal/commands/flags"
	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/thomas-vilte/repocheck/internal/validation"
	"github.com/urfave/cli/v3"
)

type CreateBranchCommandFactory struct {
	provider BranchServiceProvider
}

func NewCreateBranchCommandFactory(provider BranchServiceProvider) *CreateBranchCommandFactory {
	return &CreateBranchCommandFactory{provider: provider}
}

func (f *CreateBranchCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "create-branch",
		Usage: t.GetMessage("create_branch.usage", 0, nil),
		Flags: append(flags.Repository(t),
			&cli.StringFlag{
				Name:    flags.Base,
				Aliases: []string{"b"},
				Usage:   t.GetMessage("flag.base", 0, nil),
			},
		),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := validation.CreateBranchRequest{
				Repository: flags.RepositoryFrom(cmd),
				Base:       cmd.String(flags.Base),
			}
			if err := req.Validate(); err != nil {
				return err
			}

			svc, err := f.provider(ctx)
			if err != nil {
				return err
			}

			branch, err := svc.CreateAuthorBranch(ctx, req.Owner, req.Repo, req.Author, req.Base)
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			if branch == "" {
				ui.PrintWarning(w, t.GetMessage("create_branch.unavailable", 0, map[string]interface{}{
					"Base": req.Base,
				}))
				return nil
			}

			ui.PrintSuccess(w, t.GetMessage("create_branch.created", 0, map[string]interface{}{
				"Branch": branch,
			}))
			return nil
		},
	}
}
