package toolchain

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/models"
)

// Builder verifies that a checkout compiles.
type Builder interface {
	Build(ctx context.Context, repoPath string) (models.BuildResult, error)
}

// Analyzer runs static analysis over a checkout.
type Analyzer interface {
	Analyze(ctx context.Context, repoPath string) ([]models.Diagnostic, error)
}

// Tester runs the test suite of a checkout.
type Tester interface {
	Test(ctx context.Context, repoPath string) ([]models.TestOutcome, error)
}

// Strategy groups the three capabilities for one language.
type Strategy struct {
	Language models.Language
	Builder  Builder
	Analyzer Analyzer
	Tester   Tester
}

// Registry maps a detected language to its strategy.
type Registry struct {
	mu         sync.RWMutex
	strategies map[models.Language]Strategy
}

func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[models.Language]Strategy),
	}
}

// Register adds s. Every capability must be set and a language can only be
// registered once.
func (r *Registry) Register(s Strategy) error {
	if s.Language == "" || s.Language == models.LanguageUnknown {
		return errors.ErrInvalidConfig.WithContext("reason", "strategy language is not set")
	}
	if s.Builder == nil || s.Analyzer == nil || s.Tester == nil {
		return errors.ErrInvalidConfig.WithContext("reason", fmt.Sprintf("strategy for %s is incomplete", s.Language))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.strategies[s.Language]; exists {
		return errors.ErrInvalidConfig.WithContext("reason", fmt.Sprintf("strategy for %s already registered", s.Language))
	}
	r.strategies[s.Language] = s
	return nil
}

// Get returns the strategy for lang or errors.ErrUnsupportedLanguage.
func (r *Registry) Get(lang models.Language) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.strategies[lang]
	if !ok {
		return Strategy{}, errors.ErrUnsupportedLanguage.WithContext("language", string(lang))
	}
	return s, nil
}

// Languages lists the registered languages in lexical order.
func (r *Registry) Languages() []models.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()

	langs := make([]models.Language, 0, len(r.strategies))
	for l := range r.strategies {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}
