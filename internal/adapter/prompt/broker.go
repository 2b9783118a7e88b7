package prompt

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	domainService "namereg/internal/domain/service"
	"namereg/internal/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.Prompter = (*Broker)(nil)

// Prompt is a conflict prompt waiting for an answer from a remote UI.
type Prompt struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Requested  string   `json:"requested"`
	Candidates []string `json:"candidates"`
}

type answer struct {
	choice string
	ok     bool
}

type pending struct {
	prompt Prompt
	reply  chan answer
}

// Broker parks a conflict prompt until the UI selects a candidate or dismisses
// it over HTTP. At most one prompt is open at a time.
type Broker struct {
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	current *pending
}

// NewBroker creates a broker whose prompts are dismissed after timeout; zero
// waits until the caller's context ends.
func NewBroker(timeout time.Duration, logger *zap.Logger) *Broker {
	return &Broker{
		timeout: timeout,
		logger:  logger.Named("PromptBroker"),
	}
}

// Choose implements domainService.Prompter.
func (b *Broker) Choose(ctx context.Context, requested string, candidates []string) (string, bool) {
	p := &pending{
		prompt: Prompt{
			ID:         uuid.NewString(),
			Title:      fmt.Sprintf("Name %s does already exist", requested),
			Requested:  requested,
			Candidates: append([]string(nil), candidates...),
		},
		reply: make(chan answer, 1),
	}

	b.mu.Lock()
	b.current = p
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		if b.current == p {
			b.current = nil
		}
		b.mu.Unlock()
	}()

	b.logger.Info("Conflict prompt opened", zap.String("id", p.prompt.ID), zap.Strings("candidates", candidates))

	var expired <-chan time.Time
	if b.timeout > 0 {
		timer := time.NewTimer(b.timeout)
		defer timer.Stop()
		expired = timer.C
	}

	select {
	case a := <-p.reply:
		return a.choice, a.ok
	case <-expired:
		b.logger.Info("Conflict prompt expired", zap.String("id", p.prompt.ID))
		return "", false
	case <-ctx.Done():
		return "", false
	}
}

// Pending returns the open prompt, if any.
func (b *Broker) Pending() (Prompt, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Prompt{}, false
	}
	return b.current.prompt, true
}

func (b *Broker) resolve(id string, a answer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil || b.current.prompt.ID != id {
		return fmt.Errorf("%w: no open prompt with id %q", apperrors.ErrNotFound, id)
	}
	if a.ok && !slices.Contains(b.current.prompt.Candidates, a.choice) {
		return fmt.Errorf("%w: %q is not one of the suggested names", apperrors.ErrInvalidInput, a.choice)
	}
	b.current.reply <- a
	b.current = nil
	return nil
}

// Select answers prompt id with choice.
func (b *Broker) Select(id, choice string) error {
	return b.resolve(id, answer{choice: choice, ok: true})
}

// Dismiss closes prompt id without a choice.
func (b *Broker) Dismiss(id string) error {
	return b.resolve(id, answer{})
}
