package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/thomas-vilte/repocheck/internal/cache"
	"github.com/thomas-vilte/repocheck/internal/checkout"
	"github.com/thomas-vilte/repocheck/internal/cli/registry"
	"github.com/thomas-vilte/repocheck/internal/commands/branches"
	cachecmd "github.com/thomas-vilte/repocheck/internal/commands/cache"
	configcmd "github.com/thomas-vilte/repocheck/internal/commands/config"
	"github.com/thomas-vilte/repocheck/internal/commands/evaluate"
	"github.com/thomas-vilte/repocheck/internal/commands/languages"
	"github.com/thomas-vilte/repocheck/internal/commands/serve"
	cfg "github.com/thomas-vilte/repocheck/internal/config"
	"github.com/thomas-vilte/repocheck/internal/container"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/i18n"
	"github.com/thomas-vilte/repocheck/internal/language"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/mcp"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/process"
	"github.com/thomas-vilte/repocheck/internal/services"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
	"github.com/thomas-vilte/repocheck/internal/toolchain/dotnet"
	"github.com/thomas-vilte/repocheck/internal/toolchain/java"
	"github.com/thomas-vilte/repocheck/internal/toolchain/python"
	"github.com/thomas-vilte/repocheck/internal/ui"
	"github.com/thomas-vilte/repocheck/internal/vcs/github"
	"github.com/thomas-vilte/repocheck/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, translations, err := initializeApp()
	if err != nil {
		log.Fatalf("error starting repocheck: %v", err)
	}

	if err := app.Run(ctx, os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		stop()
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	configPath := os.Getenv("REPOCHECK_CONFIG")
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("could not get the user home directory: %w", err)
		}
		configPath = homeDir
	}

	cfgApp, err := cfg.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfg.GetLocaleConfig(cfgApp.Language), "")
	if err != nil {
		return nil, nil, fmt.Errorf("error loading translations: %w", err)
	}

	runner := process.NewExecRunner()
	docker := container.NewDockerService(runner, container.WithTimeout(cfgApp.Timeout()))

	strategies, images, err := newStrategies(docker, cfgApp)
	if err != nil {
		return nil, nil, err
	}

	mode, _ := checkout.ParseMode(strings.ToLower(cfgApp.CheckoutMode))
	checkouts := checkout.NewService(runner, cfgApp.WorkDir, checkout.WithMode(mode))

	githubClient := sync.OnceValues(func() (*github.GitHubClient, error) {
		client, err := github.NewGitHubClient(cfgApp.GitHubToken, cfgApp.GitHubBaseURL)
		if err != nil {
			return nil, err
		}
		client.SetWorkers(cfgApp.Workers)
		return client, nil
	})

	newEvaluator := func(ctx context.Context) (*services.EvaluationService, error) {
		client, err := githubClient()
		if err != nil {
			return nil, err
		}

		opts := []services.EvaluationOption{
			services.WithCommitResolver(client),
			services.WithPreparer(checkouts),
			services.WithDetector(language.NewExtensionDetector()),
			services.WithStrategies(strategies),
		}
		if resultCache := newResultCache(ctx, cfgApp); resultCache != nil {
			opts = append(opts, services.WithResultCache(resultCache))
		}
		return services.NewEvaluationService(opts...), nil
	}

	newAccounts := func(ctx context.Context) (*services.AccountService, error) {
		client, err := githubClient()
		if err != nil {
			return nil, err
		}
		return services.NewAccountService(client), nil
	}

	branchProvider := func(ctx context.Context) (branches.BranchService, error) {
		accounts, err := newAccounts(ctx)
		if err != nil {
			return nil, err
		}
		return accounts, nil
	}

	createBranchProvider := func(ctx context.Context) (branches.BranchService, error) {
		if cfgApp.GitHubToken == "" {
			return nil, domainErrors.ErrTokenMissing
		}
		return branchProvider(ctx)
	}

	evaluatorProvider := func(ctx context.Context) (evaluate.Evaluator, error) {
		evaluator, err := newEvaluator(ctx)
		if err != nil {
			return nil, err
		}
		return evaluator, nil
	}

	serveDeps := func(ctx context.Context) (mcp.BranchService, mcp.Evaluator, error) {
		accounts, err := newAccounts(ctx)
		if err != nil {
			return nil, nil, err
		}
		evaluator, err := newEvaluator(ctx)
		if err != nil {
			return nil, nil, err
		}
		return accounts, evaluator, nil
	}

	registerCommand := registry.NewRegistry(cfgApp, translations)

	factories := map[string]registry.CommandFactory{
		"branches":      branches.NewBranchesCommandFactory(branchProvider),
		"create-branch": branches.NewCreateBranchCommandFactory(createBranchProvider),
		"compile":       evaluate.NewEvaluateCommandFactory(models.EvaluationCompilation, evaluatorProvider),
		"quality":       evaluate.NewEvaluateCommandFactory(models.EvaluationQuality, evaluatorProvider),
		"tests":         evaluate.NewEvaluateCommandFactory(models.EvaluationTests, evaluatorProvider),
		"serve":         serve.NewServeCommandFactory(serveDeps),
		"languages":     languages.NewLanguagesCommandFactory(strategies, images),
		"cache":         cachecmd.NewCacheCommand(""),
		"config":        configcmd.NewConfigCommandFactory(),
	}
	for name, factory := range factories {
		if err := registerCommand.Register(name, factory); err != nil {
			return nil, nil, fmt.Errorf("error registering command '%s': %w", name, err)
		}
	}

	commands := registerCommand.CreateCommands()

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	return &cli.Command{
		Name:    "repocheck",
		Usage:   translations.GetMessage("app_usage", 0, nil),
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flag.debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flag.verbose", 0, nil),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Value: string(logger.FormatPretty),
				Usage: translations.GetMessage("flag.log_format", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			// stdout carries results and the MCP protocol, logs go to stderr.
			logger.Initialize(os.Stderr, logger.Format(cmd.String("log-format")), cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
		Commands:              commands,
		EnableShellCompletion: true,
	}, translations, nil
}

// newStrategies registers one strategy per supported language and returns
// the image each one runs in.
func newStrategies(runner container.Runner, cfgApp *cfg.Config) (*toolchain.Registry, map[models.Language]string, error) {
	all := []toolchain.Strategy{
		dotnet.New(runner, toolchain.Settings{Image: cfgApp.Images.DotNet, Workers: cfgApp.Workers}),
		python.New(runner, toolchain.Settings{Image: cfgApp.Images.Python, Workers: cfgApp.Workers}),
		java.New(runner, toolchain.Settings{Image: cfgApp.Images.Java, Workers: cfgApp.Workers}),
	}

	images := map[models.Language]string{
		models.LanguageCSharp: firstNonEmpty(cfgApp.Images.DotNet, dotnet.DefaultImage),
		models.LanguagePython: firstNonEmpty(cfgApp.Images.Python, python.DefaultImage),
		models.LanguageJava:   firstNonEmpty(cfgApp.Images.Java, java.DefaultImage),
	}

	strategies := toolchain.NewRegistry()
	for _, s := range all {
		if err := strategies.Register(s); err != nil {
			return nil, nil, err
		}
	}
	return strategies, images, nil
}

func newResultCache(ctx context.Context, cfgApp *cfg.Config) *cache.Cache {
	if cfgApp.TTL() == 0 {
		return nil
	}

	dir, err := cache.DefaultDir()
	if err != nil {
		logger.Warn(ctx, "result cache disabled", "error", err)
		return nil
	}

	resultCache, err := cache.NewCache(dir, cfgApp.TTL())
	if err != nil {
		logger.Warn(ctx, "result cache disabled", "error", err)
		return nil
	}
	return resultCache
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
