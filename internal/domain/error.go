package domain

import (
	"errors"
	"fmt"

	"namereg/internal/pkg/apperrors"
)

var (
	// ErrProviderUnavailable means no wallet provider is attached to the session.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")

	// ErrNetworkMismatch means the active chain differs from the registry chain and could not be switched.
	ErrNetworkMismatch = errors.New("active network does not match registry network")

	// ErrRegistryUnbound means there is no registry binding for the current session state.
	ErrRegistryUnbound = errors.New("registry binding unavailable")

	// ErrConflictExists means the requested name is already registered.
	ErrConflictExists = errors.New("name already registered")

	// ErrSuggestionExhausted means no free alternative could be generated.
	ErrSuggestionExhausted = errors.New("no alternative names available")

	// ErrTransactionRejected means the wallet or node declined the write, or it did not confirm.
	ErrTransactionRejected = errors.New("transaction rejected")

	// ErrCatalogUnavailable means the chain list could not be fetched.
	ErrCatalogUnavailable = errors.New("chain catalog unavailable")

	// ErrUserRejected means the user declined a wallet request.
	ErrUserRejected = errors.New("request rejected by user")

	// ErrBusy means a registration is already in flight for this session.
	ErrBusy = fmt.Errorf("%w: registration already in progress", apperrors.ErrConflict)
)
