package languages

import (
	"context"
	"encoding/json"

	"github.com/thomas-vilte/repocheck/internal/commands/flags"
	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/urfave/cli/v3"
)

type Lister interface {
	Languages() []models.Language
}

type LanguagesCommandFactory struct {
	lister Lister
	images map[models.Language]string
}

func NewLanguagesCommandFactory(lister Lister, images map[models.Language]string) *LanguagesCommandFactory {
	return &LanguagesCommandFactory{lister: lister, images: images}
}

type entry struct {
	Language models.Language `json:"language"`
	Image    string          `json:"image"`
}

func (f *LanguagesCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: t.GetMessage("languages.usage", 0, nil),
		Flags: []cli.Flag{flags.JSONOutput(t)},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			langs := f.lister.Languages()
			entries := make([]entry, 0, len(langs))
			for _, l := range langs {
				entries = append(entries, entry{Language: l, Image: f.images[l]})
			}

			w := cmd.Root().Writer
			if cmd.Bool(flags.JSON) {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			ui.PrintSectionBanner(w, t.GetMessage("languages.title", 0, nil))
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Language.String(), e.Image})
			}
			return ui.RenderTable(w, []string{
				t.GetMessage("table.language", 0, nil),
				t.GetMessage("table.image", 0, nil),
			}, rows)
		},
	}
}
