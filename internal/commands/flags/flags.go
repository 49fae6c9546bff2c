// Package flags holds the flags shared by the repository commands.
package flags

import (
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/validation"
	"github.com/urfave/cli/v3"
)

const (
	Owner   = "owner"
	Repo    = "repo"
	Author  = "author"
	Branch  = "branch"
	Base    = "base"
	Since   = "since"
	Until   = "until"
	SHA     = "sha"
	Path    = "path"
	Details = "details"
	JSON    = "json"
)

// Repository returns the owner, repo and author flags.
func Repository(t *i18n.Translations) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    Owner,
			Aliases: []string{"o"},
			Usage:   t.GetMessage("flag.owner", 0, nil),
		},
		&cli.StringFlag{
			Name:    Repo,
			Aliases: []string{"r"},
			Usage:   t.GetMessage("flag.repo", 0, nil),
		},
		&cli.StringFlag{
			Name:    Author,
			Aliases: []string{"a"},
			Usage:   t.GetMessage("flag.author", 0, nil),
		},
	}
}

func JSONOutput(t *i18n.Translations) cli.Flag {
	return &cli.BoolFlag{
		Name:  JSON,
		Usage: t.GetMessage("flag.json", 0, nil),
	}
}

// RepositoryFrom reads the flags registered by Repository.
func RepositoryFrom(cmd *cli.Command) validation.Repository {
	return validation.Repository{
		Owner:  cmd.String(Owner),
		Repo:   cmd.String(Repo),
		Author: cmd.String(Author),
	}
}
