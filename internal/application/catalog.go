package application

import (
	"context"
	"fmt"
	"sync"

	"namereg/internal/domain"
	"namereg/internal/domain/entity"
	domainRepo "namereg/internal/domain/repository"

	"go.uber.org/zap"
)

// ChainCatalog maps chain ids to display names. It loads its source once per
// session; a failed load leaves it empty for the rest of the session.
type ChainCatalog struct {
	repo   domainRepo.ChainRepository
	store  domainRepo.CatalogStore
	logger *zap.Logger
	once   sync.Once
}

// NewChainCatalog creates a catalog reading from repo and indexing into store.
func NewChainCatalog(repo domainRepo.ChainRepository, store domainRepo.CatalogStore, logger *zap.Logger) *ChainCatalog {
	return &ChainCatalog{
		repo:   repo,
		store:  store,
		logger: logger.Named("ChainCatalog"),
	}
}

// Load fetches the chain list on first use and returns the chain id to display
// name mapping. Later calls return what the first call indexed.
func (c *ChainCatalog) Load(ctx context.Context) map[string]string {
	c.once.Do(func() {
		chains, err := c.repo.GetAllChains(ctx)
		if err != nil {
			c.logger.Warn("Chain catalog unavailable, network names will be blank",
				zap.Error(fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)))
			c.store.Replace(nil)
			return
		}
		c.store.Replace(chains)
		c.logger.Info("Chain catalog loaded", zap.Int("count", len(chains)))
	})
	return c.store.Names()
}

// Lookup returns the display name for chainID, or "" when unknown.
func (c *ChainCatalog) Lookup(chainID string) string {
	info, _ := c.Info(chainID)
	return info.DisplayName
}

// Info returns the full catalog entry for chainID.
func (c *ChainCatalog) Info(chainID string) (entity.ChainInfo, bool) {
	if chainID == "" {
		return entity.ChainInfo{}, false
	}
	return c.store.Get(chainID)
}
