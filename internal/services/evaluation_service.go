package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/thomas-vilte/repocheck/internal/checkout"
	domainErrors "github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/language"
	"github.com/thomas-vilte/repocheck/internal/logger"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/scoring"
	"github.com/thomas-vilte/repocheck/internal/toolchain"
)

// commitResolver finds the commit an evaluation runs against.
type commitResolver interface {
	LastCommitByAuthor(ctx context.Context, owner, repo, branch, author string) (string, error)
}

// strategyRegistry picks the strategy for a detected language.
type strategyRegistry interface {
	Get(lang models.Language) (toolchain.Strategy, error)
}

// resultCache stores finished reports by commit.
type resultCache interface {
	Key(parts ...string) string
	Get(hash string) (json.RawMessage, bool, error)
	Set(hash string, response interface{}) error
}

// EvaluationService resolves, materializes, detects and scores one commit
// per call.
type EvaluationService struct {
	resolver   commitResolver
	checkouts  checkout.Preparer
	detector   language.Detector
	strategies strategyRegistry
	cache      resultCache
}

type EvaluationOption func(*EvaluationService)

func WithCommitResolver(r commitResolver) EvaluationOption {
	return func(s *EvaluationService) {
		s.resolver = r
	}
}

func WithPreparer(p checkout.Preparer) EvaluationOption {
	return func(s *EvaluationService) {
		s.checkouts = p
	}
}

func WithDetector(d language.Detector) EvaluationOption {
	return func(s *EvaluationService) {
		s.detector = d
	}
}

func WithStrategies(r strategyRegistry) EvaluationOption {
	return func(s *EvaluationService) {
		s.strategies = r
	}
}

// WithResultCache enables report caching keyed by kind, owner, repo and SHA.
func WithResultCache(c resultCache) EvaluationOption {
	return func(s *EvaluationService) {
		s.cache = c
	}
}

func NewEvaluationService(opts ...EvaluationOption) *EvaluationService {
	s := &EvaluationService{
		detector: language.NewExtensionDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseKind maps a CLI or tool name onto an evaluation kind.
func ParseKind(s string) (models.EvaluationKind, bool) {
	switch models.EvaluationKind(strings.ToLower(strings.TrimSpace(s))) {
	case models.EvaluationCompilation:
		return models.EvaluationCompilation, true
	case models.EvaluationQuality:
		return models.EvaluationQuality, true
	case models.EvaluationTests:
		return models.EvaluationTests, true
	default:
		return "", false
	}
}

func (s *EvaluationService) VerifyCompilation(ctx context.Context, ref models.CommitReference) (int, error) {
	return s.score(ctx, models.EvaluationCompilation, ref)
}

func (s *EvaluationService) VerifyQuality(ctx context.Context, ref models.CommitReference) (int, error) {
	return s.score(ctx, models.EvaluationQuality, ref)
}

func (s *EvaluationService) VerifyTests(ctx context.Context, ref models.CommitReference) (int, error) {
	return s.score(ctx, models.EvaluationTests, ref)
}

func (s *EvaluationService) score(ctx context.Context, kind models.EvaluationKind, ref models.CommitReference) (int, error) {
	report, err := s.Evaluate(ctx, kind, ref, nil)
	if err != nil {
		return scoring.MinScore, err
	}
	return report.Score, nil
}

// Evaluate scores ref for kind. When ref.SHA is empty the author's newest
// commit on ref.Branch is used; no commit aborts with ErrNoCommitForAuthor
// before anything is cloned or run.
func (s *EvaluationService) Evaluate(ctx context.Context, kind models.EvaluationKind, ref models.CommitReference, progress func(models.Progress)) (*models.Report, error) {
	ctx = logger.With(ctx, "kind", kind, "owner", ref.Owner, "repo", ref.Repo, "branch", ref.Branch)
	log := logger.FromContext(ctx)

	if _, ok := ParseKind(string(kind)); !ok {
		return nil, domainErrors.ErrInvalidRequest.WithContext("reason", "unknown evaluation kind "+string(kind))
	}

	if ref.SHA == "" {
		emit(progress, models.ProgressResolve, ref.Author)

		sha, err := s.resolver.LastCommitByAuthor(ctx, ref.Owner, ref.Repo, ref.Branch, ref.Author)
		if err != nil {
			log.Error("failed to resolve last commit", "error", err)
			return nil, err
		}
		if sha == "" {
			log.Warn("no commit by author on branch", "author", ref.Author)
			return nil, domainErrors.ErrNoCommitForAuthor.
				WithContext("author", ref.Author).
				WithContext("branch", ref.Branch)
		}
		ref.SHA = sha
	}

	key := ""
	if s.cache != nil {
		key = s.cache.Key(string(kind), ref.Owner, ref.Repo, ref.SHA)
		if report, ok := s.cached(ctx, key); ok {
			report.Owner = ref.Owner
			report.Repo = ref.Repo
			report.Branch = ref.Branch
			report.SHA = ref.SHA
			emit(progress, models.ProgressComplete, ref.SHA)
			return report, nil
		}
	}

	emit(progress, models.ProgressPrepare, ref.SHA)
	co, err := s.checkouts.Prepare(ctx, ref)
	if err != nil {
		log.Error("failed to prepare checkout", "error", err, "sha", ref.SHA)
		return nil, err
	}
	defer co.Release()

	report, err := s.run(ctx, kind, co.Path, progress)
	if err != nil {
		return nil, err
	}

	report.Owner = ref.Owner
	report.Repo = ref.Repo
	report.Branch = ref.Branch
	report.SHA = ref.SHA

	switch {
	case s.cache == nil:
	case report.Degraded:
		log.Info("not caching a degraded report", "sha", ref.SHA, "units", report.Unevaluated)
	default:
		if err := s.cache.Set(key, report); err != nil {
			log.Warn("failed to cache report", "error", err)
		}
	}

	log.Info("evaluation finished", "sha", ref.SHA, "language", report.Language, "score", report.Score)
	return report, nil
}

// EvaluateLocal scores an existing directory without touching GitHub or git.
func (s *EvaluationService) EvaluateLocal(ctx context.Context, kind models.EvaluationKind, path string, progress func(models.Progress)) (*models.Report, error) {
	if _, ok := ParseKind(string(kind)); !ok {
		return nil, domainErrors.ErrInvalidRequest.WithContext("reason", "unknown evaluation kind "+string(kind))
	}
	if strings.TrimSpace(path) == "" {
		return nil, domainErrors.ErrEmptyRepositoryPath
	}

	ctx = logger.With(ctx, "kind", kind, "path", path)
	return s.run(ctx, kind, path, progress)
}

func (s *EvaluationService) run(ctx context.Context, kind models.EvaluationKind, path string, progress func(models.Progress)) (*models.Report, error) {
	log := logger.FromContext(ctx)

	emit(progress, models.ProgressDetect, path)
	lang, err := s.detector.Detect(ctx, path)
	if err != nil {
		return nil, err
	}

	strategy, err := s.strategies.Get(lang)
	if err != nil {
		log.Warn("no strategy for language", "language", lang)
		return nil, err
	}

	emit(progress, models.ProgressExecute, string(lang))
	report := &models.Report{Kind: kind, Language: lang}

	ctx, failures := toolchain.TrackFailures(ctx)

	switch kind {
	case models.EvaluationCompilation:
		result, err := strategy.Builder.Build(ctx, path)
		if err != nil && !stderrors.Is(err, domainErrors.ErrNoProjectFile) {
			return nil, err
		}
		report.Build = &result
		report.Score = scoring.Build(result)

	case models.EvaluationQuality:
		diags, err := strategy.Analyzer.Analyze(ctx, path)
		if stderrors.Is(err, domainErrors.ErrNoProjectFile) {
			log.Warn("nothing to analyze", "error", err)
			report.Score = scoring.MinScore
			break
		}
		if err != nil {
			return nil, err
		}
		counts := models.CountDiagnostics(diags)
		report.Diagnostics = diags
		report.Counts = &counts
		report.Score = scoring.Quality(diags)

	case models.EvaluationTests:
		outcomes, err := strategy.Tester.Test(ctx, path)
		if stderrors.Is(err, domainErrors.ErrNoProjectFile) {
			log.Warn("nothing to test", "error", err)
			report.Score = scoring.MinScore
			break
		}
		if err != nil {
			return nil, err
		}
		report.Tests = outcomes
		report.Passed, report.Failed = models.CountOutcomes(outcomes)
		report.Score = scoring.Tests(outcomes)
	}

	if failures.Any() {
		report.Degraded = true
		report.Unevaluated = failures.Units()
		log.Warn("some units could not be evaluated", "units", report.Unevaluated)
	}

	emit(progress, models.ProgressComplete, string(lang))
	return report, nil
}

func (s *EvaluationService) cached(ctx context.Context, key string) (*models.Report, bool) {
	raw, ok, err := s.cache.Get(key)
	if err != nil {
		logger.Warn(ctx, "failed to read cached report", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var report models.Report
	if err := json.Unmarshal(raw, &report); err != nil {
		logger.Warn(ctx, "discarding unreadable cached report", "error", err)
		return nil, false
	}
	report.Cached = true
	logger.Debug(ctx, "report served from cache", "sha", report.SHA)
	return &report, true
}

func emit(progress func(models.Progress), stage models.ProgressStage, detail string) {
	if progress != nil {
		progress(models.Progress{Stage: stage, Detail: detail})
	}
}
