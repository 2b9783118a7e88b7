package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"namereg/internal/domain"
	"namereg/internal/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSuggestionCount is how many alternatives are generated per conflict.
const DefaultSuggestionCount = 10

const minSuffixLen = 2

// RandomSource yields alphanumeric text used as name suffix material.
type RandomSource interface {
	Draw() (string, error)
}

// UUIDSource draws the hex digits of a random UUID.
type UUIDSource struct{}

// Draw implements RandomSource.
func (UUIDSource) Draw() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}

// GenerateCandidates builds count alternatives for base. Candidate i is base, an
// underscore, and the first min(2+i, L) characters of a fresh draw of length L.
func GenerateCandidates(base string, count int, source RandomSource) ([]string, error) {
	candidates := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, err := source.Draw()
		if err != nil {
			return nil, fmt.Errorf("draw %d: %w", i, err)
		}
		if len(text) < minSuffixLen {
			return nil, fmt.Errorf("%w: draw %d yielded %d characters, need at least %d",
				apperrors.ErrInternal, i, len(text), minSuffixLen)
		}
		suffix := text[:min(minSuffixLen+i, len(text))]
		candidates = append(candidates, base+"_"+suffix)
	}
	return candidates, nil
}

// ExistenceChecker answers whether a name is already registered.
type ExistenceChecker interface {
	NameExists(ctx context.Context, account, candidate string) (bool, error)
}

// SuggestionEngine proposes free alternatives for a taken name.
type SuggestionEngine struct {
	checker ExistenceChecker
	source  RandomSource
	count   int
	logger  *zap.Logger
}

// NewSuggestionEngine creates an engine generating count candidates per call.
func NewSuggestionEngine(checker ExistenceChecker, source RandomSource, count int, logger *zap.Logger) *SuggestionEngine {
	if count <= 0 {
		count = DefaultSuggestionCount
	}
	if source == nil {
		source = UUIDSource{}
	}
	return &SuggestionEngine{
		checker: checker,
		source:  source,
		count:   count,
		logger:  logger.Named("SuggestionEngine"),
	}
}

// Suggest returns the generated candidates that are not registered, in generation
// order. Any failure yields an empty list, which means "no suggestions", not
// "everything is taken".
func (e *SuggestionEngine) Suggest(ctx context.Context, account, base string) (result []string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Suggestion generation panicked", zap.Any("panic", r))
			result = nil
		}
	}()

	candidates, err := GenerateCandidates(base, e.count, e.source)
	if err != nil {
		e.logger.Warn("Candidate generation failed", zap.String("base", base), zap.Error(err))
		return nil
	}

	exists := make([]bool, len(candidates))
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		go func(index int, name string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					errs[index] = fmt.Errorf("%w: existence check panicked: %v", apperrors.ErrInternal, r)
				}
			}()
			exists[index], errs[index] = e.checker.NameExists(ctx, account, name)
		}(i, candidate)
	}
	wg.Wait()

	free := make([]string, 0, len(candidates))
	for i, candidate := range candidates {
		if errs[i] != nil {
			e.logger.Warn("Existence check failed, dropping all suggestions",
				zap.String("candidate", candidate), zap.Error(errs[i]))
			return nil
		}
		if !exists[i] {
			free = append(free, candidate)
		}
	}

	if len(free) == 0 {
		e.logger.Info("No free alternative found",
			zap.String("base", base), zap.Error(domain.ErrSuggestionExhausted))
	}
	e.logger.Debug("Suggestions ready",
		zap.String("base", base), zap.Int("generated", len(candidates)), zap.Int("free", len(free)))
	return free
}
