package application

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"namereg/internal/domain/entity"

	"github.com/ethereum/go-ethereum/params"
	"go.uber.org/zap"
)

// DisplayRefresher keeps the header values (network, balance, name) in line with
// chain state.
type DisplayRefresher struct {
	session  *Session
	catalog  *ChainCatalog
	registry *RegistryClient
	logger   *zap.Logger

	mu    sync.RWMutex
	state entity.DisplayState
}

// NewDisplayRefresher creates a refresher with blank display state.
func NewDisplayRefresher(session *Session, catalog *ChainCatalog, registry *RegistryClient, logger *zap.Logger) *DisplayRefresher {
	return &DisplayRefresher{
		session:  session,
		catalog:  catalog,
		registry: registry,
		logger:   logger.Named("DisplayRefresher"),
	}
}

// Current returns the last computed display state.
func (d *DisplayRefresher) Current() entity.DisplayState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Refresh recomputes the display state from the session and the chain. When the
// session moved while reads were in flight the result is dropped, since the
// event that moved it schedules its own refresh.
func (d *DisplayRefresher) Refresh(ctx context.Context) entity.DisplayState {
	version := d.session.Version()
	snap := d.session.Snapshot()

	var next entity.DisplayState
	if snap.ProviderPresent {
		account, _ := snap.Account()
		next = entity.DisplayState{
			Network: d.catalog.Lookup(snap.ChainID),
			Balance: d.balance(ctx, account, snap.ChainID),
			Name:    d.registry.ReadName(ctx, account),
			Account: account,
			ChainID: snap.ChainID,
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.session.Version() != version {
		d.logger.Debug("Session changed during refresh, keeping previous display state")
		return d.state
	}
	d.state = next
	d.logger.Debug("Display refreshed",
		zap.String("network", next.Network),
		zap.String("balance", next.Balance),
		zap.String("name", next.Name))
	return next
}

func (d *DisplayRefresher) balance(ctx context.Context, account, chainID string) string {
	p := d.session.Provider()
	if p == nil || account == "" {
		return ""
	}
	wei, err := p.Balance(ctx, account)
	if err != nil {
		d.logger.Warn("Balance lookup failed", zap.String("account", account), zap.Error(err))
		return ""
	}
	amount := FormatEther(wei)
	if info, ok := d.catalog.Info(chainID); ok && info.CurrencySymbol != "" {
		return amount + " " + info.CurrencySymbol
	}
	return amount
}

// FormatEther renders a wei amount in ether without rounding.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	s := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
