package evaluate

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/commands/completion_helper"
	"github.com/thomas-vilte/repocheck/internal/commands/flags"
	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/thomas-vilte/repocheck/internal/validation"
	"github.com/urfave/cli/v3"
)

type Evaluator interface {
	Evaluate(ctx context.Context, kind models.EvaluationKind, ref models.CommitReference, progress func(models.Progress)) (*models.Report, error)
	EvaluateLocal(ctx context.Context, kind models.EvaluationKind, path string, progress func(models.Progress)) (*models.Report, error)
}

type EvaluatorProvider func(ctx context.Context) (Evaluator, error)

// EvaluateCommandFactory builds compile, quality or tests depending on kind.
type EvaluateCommandFactory struct {
	kind     models.EvaluationKind
	provider EvaluatorProvider
}

func NewEvaluateCommandFactory(kind models.EvaluationKind, provider EvaluatorProvider) *EvaluateCommandFactory {
	return &EvaluateCommandFactory{kind: kind, provider: provider}
}

// CommandName maps an evaluation kind onto its CLI verb.
func CommandName(kind models.EvaluationKind) string {
	if kind == models.EvaluationCompilation {
		return "compile"
	}
	return string(kind)
}

func (f *EvaluateCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	name := CommandName(f.kind)

	return &cli.Command{
		Name:  name,
		Usage: t.GetMessage(name+".usage", 0, nil),
		Flags: append(flags.Repository(t),
			&cli.StringFlag{
				Name:    flags.Branch,
				Aliases: []string{"b"},
				Usage:   t.GetMessage("flag.branch", 0, nil),
			},
			&cli.StringFlag{
				Name:  flags.SHA,
				Usage: t.GetMessage("flag.sha", 0, nil),
			},
			&cli.StringFlag{
				Name:    flags.Path,
				Aliases: []string{"p"},
				Usage:   t.GetMessage("flag.path", 0, nil),
			},
			&cli.BoolFlag{
				Name:    flags.Details,
				Aliases: []string{"d"},
				Usage:   t.GetMessage("flag.details", 0, nil),
			},
			flags.JSONOutput(t),
		),
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return f.run(ctx, cmd, t)
		},
	}
}

func (f *EvaluateCommandFactory) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations) error {
	path := cmd.String(flags.Path)

	var ref models.CommitReference
	if path == "" {
		req := validation.CommitRequest{
			Repository: flags.RepositoryFrom(cmd),
			Branch:     cmd.String(flags.Branch),
		}
		if err := req.Validate(); err != nil {
			return err
		}
		ref = req.Reference()

		if sha := cmd.String(flags.SHA); sha != "" {
			if err := validation.SHA(sha); err != nil {
				return err
			}
			ref.SHA = sha
		}
	}

	evaluator, err := f.provider(ctx)
	if err != nil {
		return err
	}

	spinner := ui.NewSmartSpinner(t.GetMessage("evaluate.running", 0, map[string]interface{}{
		"Kind": string(f.kind),
	}))
	progress := func(p models.Progress) {
		spinner.UpdateMessage(t.GetMessage("progress."+string(p.Stage), 0, nil))
	}

	spinner.Start()
	var report *models.Report
	if path != "" {
		report, err = evaluator.EvaluateLocal(ctx, f.kind, path, progress)
	} else {
		report, err = evaluator.Evaluate(ctx, f.kind, ref, progress)
	}
	spinner.Stop()
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	if cmd.Bool(flags.JSON) {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	if report.Cached {
		ui.PrintInfo(w, t.GetMessage("evaluate.cached", 0, nil))
	}
	if report.Degraded {
		ui.PrintWarning(w, t.GetMessage("evaluate.degraded", len(report.Unevaluated), map[string]interface{}{
			"Count": len(report.Unevaluated),
			"Units": strings.Join(report.Unevaluated, ", "),
		}))
	}

	if cmd.Bool(flags.Details) {
		return ui.RenderReport(w, t, report)
	}

	_, _ = ui.ScoreColor(report.Score).Fprintln(w, t.GetMessage("evaluate.score", 0, map[string]interface{}{
		"Kind":  string(f.kind),
		"Score": report.Score,
	}))
	return nil
}
