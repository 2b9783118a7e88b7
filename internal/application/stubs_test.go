package application

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"namereg/internal/domain/entity"
	domainService "namereg/internal/domain/service"
	"namereg/internal/pkg/apperrors"
)

var errStub = errors.New("stub failure")

type stubProvider struct {
	mu sync.Mutex

	accounts    []string
	accountsErr error
	chainID     string
	chainErr    error
	switchErr   error
	switched    []string
	balance     *big.Int
	events      chan entity.SessionEvent

	// stayOnSwitch makes SwitchChain succeed without moving the chain.
	stayOnSwitch bool
}

var _ domainService.Provider = (*stubProvider)(nil)

func newStubProvider(chainID string, accounts ...string) *stubProvider {
	return &stubProvider{
		chainID:  chainID,
		accounts: accounts,
		balance:  big.NewInt(0),
		events:   make(chan entity.SessionEvent, 8),
	}
}

func (p *stubProvider) RequestAccounts(context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.accountsErr != nil {
		return nil, p.accountsErr
	}
	return append([]string(nil), p.accounts...), nil
}

func (p *stubProvider) ChainID(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, p.chainErr
}

func (p *stubProvider) SwitchChain(_ context.Context, chainIDHex string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.switched = append(p.switched, chainIDHex)
	if p.switchErr != nil {
		return p.switchErr
	}
	if p.stayOnSwitch {
		return nil
	}
	id, err := entity.NormalizeChainID(chainIDHex)
	if err != nil {
		return err
	}
	p.chainID = id
	return nil
}

func (p *stubProvider) Call(context.Context, string, string, []byte) ([]byte, error) {
	return nil, apperrors.ErrInternal
}

func (p *stubProvider) SendTransaction(context.Context, string, string, []byte) (string, error) {
	return "", apperrors.ErrInternal
}

func (p *stubProvider) TransactionReceipt(context.Context, string) (*domainService.Receipt, error) {
	return nil, nil
}

func (p *stubProvider) Balance(context.Context, string) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance, nil
}

func (p *stubProvider) Events() <-chan entity.SessionEvent {
	return p.events
}

func (p *stubProvider) switches() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.switched...)
}

type stubRegistry struct {
	mu sync.Mutex

	names     map[string]string
	taken     map[string]bool
	allTaken  bool
	existsErr error
	receipt   *domainService.Receipt
	setErr    error
	submitted []string

	// onExists runs inside every existence check.
	onExists func(name string)
}

var _ domainService.NameRegistry = (*stubRegistry)(nil)

func newStubRegistry() *stubRegistry {
	return &stubRegistry{
		names:   make(map[string]string),
		taken:   make(map[string]bool),
		receipt: &domainService.Receipt{TxHash: "0xabc", Status: 1},
	}
}

func (r *stubRegistry) Address() string {
	return "0x000000000000000000000000000000000000beef"
}

func (r *stubRegistry) ReadName(_ context.Context, _ domainService.Provider, from string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.names[from], nil
}

func (r *stubRegistry) IsNameExists(_ context.Context, _ domainService.Provider, _, name string) (bool, error) {
	if r.onExists != nil {
		r.onExists(name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.existsErr != nil {
		return false, r.existsErr
	}
	return r.allTaken || r.taken[name], nil
}

func (r *stubRegistry) SetName(_ context.Context, _ domainService.Provider, from, name string) (*domainService.Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, name)
	if r.setErr != nil {
		return nil, r.setErr
	}
	if r.receipt != nil && r.receipt.Status == 1 {
		r.names[from] = name
		r.taken[name] = true
	}
	return r.receipt, nil
}

func (r *stubRegistry) submissions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.submitted...)
}

type stubChainRepo struct {
	chains []entity.ChainInfo
	err    error
	calls  int
}

func (r *stubChainRepo) GetAllChains(context.Context) ([]entity.ChainInfo, error) {
	r.calls++
	return r.chains, r.err
}

type mapStore struct {
	mu     sync.Mutex
	chains map[string]entity.ChainInfo
}

func newMapStore() *mapStore {
	return &mapStore{chains: make(map[string]entity.ChainInfo)}
}

func (s *mapStore) Replace(chains []entity.ChainInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains = make(map[string]entity.ChainInfo, len(chains))
	for _, c := range chains {
		s.chains[c.ChainID] = c
	}
}

func (s *mapStore) Get(chainID string) (entity.ChainInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.chains[chainID]
	return c, ok
}

func (s *mapStore) Names() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.chains))
	for id, c := range s.chains {
		out[id] = c.DisplayName
	}
	return out
}

type stubPrompter struct {
	choice    string
	ok        bool
	calls     int
	requested string
	offered   []string
}

func (p *stubPrompter) Choose(_ context.Context, requested string, candidates []string) (string, bool) {
	p.calls++
	p.requested = requested
	p.offered = append([]string(nil), candidates...)
	return p.choice, p.ok
}

// seqSource hands out fixed draws in order.
type seqSource struct {
	mu    sync.Mutex
	draws []string
	next  int
	err   error
}

func (s *seqSource) Draw() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	d := s.draws[s.next%len(s.draws)]
	s.next++
	return d, nil
}
