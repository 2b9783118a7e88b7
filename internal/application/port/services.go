package port

import (
	"context"

	"namereg/internal/domain/entity"
)

// Registration is the submit side of the presentation boundary.
type Registration interface {
	Submit(ctx context.Context, name string) (entity.Outcome, error)
	State() entity.RegistrationState
	Ready() bool
}

// Display is the read side of the presentation boundary.
type Display interface {
	Current() entity.DisplayState
	Refresh(ctx context.Context) entity.DisplayState
}

// Catalog resolves chain ids to display names.
type Catalog interface {
	Lookup(chainID string) string
}
