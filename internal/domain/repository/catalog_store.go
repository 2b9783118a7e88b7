package repository

import "namereg/internal/domain/entity"

// CatalogStore indexes chain metadata by decimal chain id.
type CatalogStore interface {
	// Replace swaps the indexed contents for chains.
	Replace(chains []entity.ChainInfo)

	// Get returns the entry for chainID, if indexed.
	Get(chainID string) (entity.ChainInfo, bool)

	// Names returns the chain id to display name mapping.
	Names() map[string]string
}
