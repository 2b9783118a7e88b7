package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"namereg/internal/config"
	"namereg/internal/domain"
	"namereg/internal/domain/entity"
	"namereg/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orchestratorFixture struct {
	provider *stubProvider
	contract *stubRegistry
	prompter *stubPrompter
	client   *Client
}

func newOrchestratorFixture(t *testing.T, activeChain string) *orchestratorFixture {
	t.Helper()
	f := &orchestratorFixture{
		provider: newStubProvider(activeChain, "0xaaa"),
		contract: newStubRegistry(),
		prompter: &stubPrompter{},
	}
	cfg := config.Config{
		Registry:   config.RegistryConfig{ChainID: "5"},
		Suggestion: config.SuggestionConfig{Count: 3},
	}
	f.client = NewClient(cfg, Deps{
		Provider:  f.provider,
		Contract:  f.contract,
		ChainRepo: &stubChainRepo{},
		Store:     newMapStore(),
		Prompter:  f.prompter,
		Source:    &seqSource{draws: []string{"a1b2c3d4"}},
	}, zap.NewNop())
	f.client.Session.Connect(context.Background())
	return f
}

func (f *orchestratorFixture) submit(t *testing.T, name string) entity.Outcome {
	t.Helper()
	out, err := f.client.Orchestrator.Submit(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, entity.StateIdle, f.client.Orchestrator.State())
	assert.True(t, f.client.Orchestrator.Ready())
	return out
}

func TestOrchestrator_FreeNameIsConfirmed(t *testing.T) {
	f := newOrchestratorFixture(t, "5")

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateConfirmed, out.Final)
	assert.Equal(t, []entity.RegistrationState{
		entity.StateNetworkChecking,
		entity.StateExistenceChecking,
		entity.StateSubmitting,
		entity.StateConfirmed,
	}, out.Trace)
	assert.Equal(t, "0xabc", out.TxHash)
	assert.Equal(t, []string{"alice"}, f.contract.submissions())
	assert.Equal(t, "alice", f.client.Display.Current().Name)
}

func TestOrchestrator_SwitchesNetworkBeforeChecking(t *testing.T) {
	f := newOrchestratorFixture(t, "1")

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateConfirmed, out.Final)
	assert.Equal(t, []string{"0x5"}, f.provider.switches())
	assert.Equal(t, "5", f.client.Session.Snapshot().ChainID)
}

func TestOrchestrator_RejectedSwitchIsNetworkInvalid(t *testing.T) {
	f := newOrchestratorFixture(t, "1")
	f.provider.switchErr = errStub
	checked := false
	f.contract.onExists = func(string) { checked = true }

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateNetworkInvalid, out.Final)
	assert.Equal(t, []entity.RegistrationState{
		entity.StateNetworkChecking,
		entity.StateNetworkInvalid,
	}, out.Trace)
	assert.False(t, checked)
	assert.Empty(t, f.contract.submissions())
}

func TestOrchestrator_TakenNameSelectionBecomesPending(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.taken["alice"] = true
	f.contract.taken["alice_a1b"] = true
	f.prompter.choice, f.prompter.ok = "alice_a1b2", true

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateIdle, out.Final)
	assert.Equal(t, []entity.RegistrationState{
		entity.StateNetworkChecking,
		entity.StateExistenceChecking,
		entity.StateConflictResolving,
		entity.StateIdle,
	}, out.Trace)
	assert.Equal(t, []string{"alice_a1", "alice_a1b2"}, out.Suggestions)
	assert.Equal(t, "alice_a1b2", out.PendingName)
	assert.Equal(t, "alice", f.prompter.requested)
	assert.Equal(t, out.Suggestions, f.prompter.offered)
	assert.Empty(t, f.contract.submissions())
}

func TestOrchestrator_TakenNameDismissed(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.taken["alice"] = true

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateCancelled, out.Final)
	assert.Equal(t, 1, f.prompter.calls)
	assert.Empty(t, out.PendingName)
	assert.Empty(t, f.contract.submissions())
}

func TestOrchestrator_NoSuggestionsCancelsWithoutPrompt(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.allTaken = true

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateCancelled, out.Final)
	assert.Empty(t, out.Suggestions)
	assert.Zero(t, f.prompter.calls)
}

func TestOrchestrator_ExistenceCheckFailure(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.existsErr = errStub

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateFailed, out.Final)
	assert.Empty(t, f.contract.submissions())
}

func TestOrchestrator_RevertedWriteFails(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.receipt.Status = 0

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateFailed, out.Final)
	assert.Empty(t, out.TxHash)
	assert.Equal(t, "", f.client.Display.Current().Name)
}

func TestOrchestrator_AccountChangeDuringCheckHalts(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.onExists = func(string) {
		f.client.Session.Apply(entity.SessionEvent{Kind: entity.EventAccountsChanged, Accounts: []string{"0xbbb"}})
	}

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateNetworkInvalid, out.Final)
	assert.Empty(t, f.contract.submissions())
}

func TestOrchestrator_ChainChangeDuringCheckHalts(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.onExists = func(string) {
		f.client.Session.Apply(entity.SessionEvent{Kind: entity.EventChainChanged, ChainID: "1"})
	}

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateNetworkInvalid, out.Final)
	assert.Empty(t, f.contract.submissions())
}

func TestOrchestrator_NoAccount(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.client.Session.Apply(entity.SessionEvent{Kind: entity.EventAccountsChanged})

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateNetworkInvalid, out.Final)
}

func TestOrchestrator_EmptyNameRejected(t *testing.T) {
	f := newOrchestratorFixture(t, "5")

	_, err := f.client.Orchestrator.Submit(context.Background(), "  ")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Equal(t, entity.StateIdle, f.client.Orchestrator.State())
}

func TestOrchestrator_BusyWhileInFlight(t *testing.T) {
	f := newOrchestratorFixture(t, "5")

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	f.contract.onExists = func(string) {
		once.Do(func() { close(entered) })
		<-release
	}

	done := make(chan entity.Outcome, 1)
	go func() {
		out, _ := f.client.Orchestrator.Submit(context.Background(), "alice")
		done <- out
	}()

	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the existence check")
	}

	assert.False(t, f.client.Orchestrator.Ready())
	assert.Equal(t, entity.StateExistenceChecking, f.client.Orchestrator.State())

	_, err := f.client.Orchestrator.Submit(context.Background(), "bob")
	assert.ErrorIs(t, err, domain.ErrBusy)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	close(release)
	out := <-done
	assert.Equal(t, entity.StateConfirmed, out.Final)
	assert.Equal(t, []string{"alice"}, f.contract.submissions())
	assert.True(t, f.client.Orchestrator.Ready())
}

func TestOrchestrator_PanicResetsToIdle(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.onExists = func(string) { panic("registry exploded") }

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateFailed, out.Final)

	f.contract.onExists = nil
	out = f.submit(t, "alice")
	assert.Equal(t, entity.StateConfirmed, out.Final)
}

func TestOrchestrator_ProviderGoneDuringConfirmation(t *testing.T) {
	f := newOrchestratorFixture(t, "5")
	f.contract.setErr = fmt.Errorf("waiting for receipt of 0xabc: %w", domain.ErrProviderUnavailable)

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateFailed, out.Final)

	f.contract.setErr = nil
	out = f.submit(t, "alice")
	assert.Equal(t, entity.StateConfirmed, out.Final)
}

func TestOrchestrator_SwitchRefreshesDisplay(t *testing.T) {
	f := newOrchestratorFixture(t, "1")
	f.client.Display.Refresh(context.Background())
	require.Equal(t, "1", f.client.Display.Current().ChainID)
	f.contract.receipt.Status = 0

	out := f.submit(t, "alice")

	assert.Equal(t, entity.StateFailed, out.Final)
	assert.Equal(t, "5", f.client.Display.Current().ChainID)
}
