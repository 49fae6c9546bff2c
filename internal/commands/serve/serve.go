package serve

import (
	"context"

	"github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/mcp"
	"github.com/urfave/cli/v3"
)

// Dependencies builds the services the MCP tools call into.
type Dependencies func(ctx context.Context) (mcp.BranchService, mcp.Evaluator, error)

// Starter runs the MCP server until the client goes away.
type Starter func(ctx context.Context, branches mcp.BranchService, evaluator mcp.Evaluator) error

type ServeCommandFactory struct {
	deps  Dependencies
	start Starter
}

func NewServeCommandFactory(deps Dependencies) *ServeCommandFactory {
	return &ServeCommandFactory{
		deps:  deps,
		start: mcp.StartMCPServer,
	}
}

// WithStarter replaces the stdio transport, mainly for tests.
func (f *ServeCommandFactory) WithStarter(start Starter) *ServeCommandFactory {
	f.start = start
	return f
}

func (f *ServeCommandFactory) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: t.GetMessage("serve.usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			branches, evaluator, err := f.deps(ctx)
			if err != nil {
				return err
			}

			logger.Info(ctx, "starting MCP server on stdio")
			return f.start(ctx, branches, evaluator)
		},
	}
}
