package repository

import (
	"context"

	"namereg/internal/domain/entity"
)

// ChainRepository defines the interface for accessing chain metadata.
type ChainRepository interface {
	// GetAllChains retrieves the list of all chains from the underlying data source.
	GetAllChains(ctx context.Context) ([]entity.ChainInfo, error)
}
