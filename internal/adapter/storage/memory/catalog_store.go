package memory

import (
	"fmt"

	"namereg/internal/domain/entity"
	domainRepo "namereg/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.CatalogStore = (*CatalogStore)(nil)

const chainKeyPrefix = "chain_"

// CatalogStore implements domainRepo.CatalogStore on top of go-cache. Entries never
// expire: the catalog is loaded once and lives as long as the session.
type CatalogStore struct {
	cache  *cache.Cache
	logger *zap.Logger
}

// NewCatalogStore creates an empty catalog store.
func NewCatalogStore(logger *zap.Logger) *CatalogStore {
	return &CatalogStore{
		cache:  cache.New(cache.NoExpiration, 0),
		logger: logger.Named("MemoryCatalogStore"),
	}
}

// Replace drops whatever is indexed and indexes chains. A later entry with the same
// chain id wins.
func (s *CatalogStore) Replace(chains []entity.ChainInfo) {
	s.cache.Flush()
	for _, c := range chains {
		s.cache.Set(chainKeyPrefix+c.ChainID, c, cache.NoExpiration)
	}
	s.logger.Debug("Catalog indexed", zap.Int("count", s.cache.ItemCount()))
}

// Get returns the entry for chainID.
func (s *CatalogStore) Get(chainID string) (entity.ChainInfo, bool) {
	key := chainKeyPrefix + chainID
	x, found := s.cache.Get(key)
	if !found {
		return entity.ChainInfo{}, false
	}
	info, ok := x.(entity.ChainInfo)
	if !ok {
		s.logger.Warn("Catalog data type mismatch for key",
			zap.String("key", key), zap.String("type", fmt.Sprintf("%T", x)))
		return entity.ChainInfo{}, false
	}
	return info, true
}

// Names returns the chain id to display name mapping.
func (s *CatalogStore) Names() map[string]string {
	items := s.cache.Items()
	names := make(map[string]string, len(items))
	for _, item := range items {
		if info, ok := item.Object.(entity.ChainInfo); ok {
			names[info.ChainID] = info.DisplayName
		}
	}
	return names
}
