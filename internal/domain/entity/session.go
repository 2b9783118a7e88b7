package entity

// SessionState is the wallet-side state of one session.
type SessionState struct {
	ProviderPresent bool
	Accounts        []string
	ChainID         string
}

// Account returns the acting identity, the first authorized account.
func (s SessionState) Account() (string, bool) {
	if len(s.Accounts) == 0 {
		return "", false
	}
	return s.Accounts[0], true
}

// Clone returns a copy that shares no backing array with s.
func (s SessionState) Clone() SessionState {
	c := s
	if s.Accounts != nil {
		c.Accounts = append([]string(nil), s.Accounts...)
	}
	return c
}

// SessionEventKind enumerates the ways session state can change.
type SessionEventKind int

const (
	// EventAccountsChanged carries a new authorized account list.
	EventAccountsChanged SessionEventKind = iota + 1
	// EventChainChanged carries a new active chain id.
	EventChainChanged
	// EventProviderDetached marks the provider as gone.
	EventProviderDetached
)

func (k SessionEventKind) String() string {
	switch k {
	case EventAccountsChanged:
		return "accountsChanged"
	case EventChainChanged:
		return "chainChanged"
	case EventProviderDetached:
		return "providerDetached"
	default:
		return "unknown"
	}
}

// SessionEvent is a typed change pushed by the provider or produced by reconciliation.
type SessionEvent struct {
	Kind     SessionEventKind
	Accounts []string
	ChainID  string
}

// RegistryBinding is the (chain, contract) pair that makes registry operations valid.
type RegistryBinding struct {
	ChainID string
	Address string
}

// BindingFor returns the registry binding for state, or false when the active chain
// is not the registry chain or no provider is attached.
func BindingFor(state SessionState, requiredChainID, address string) (RegistryBinding, bool) {
	if !state.ProviderPresent || state.ChainID == "" || requiredChainID == "" {
		return RegistryBinding{}, false
	}
	if state.ChainID != requiredChainID {
		return RegistryBinding{}, false
	}
	return RegistryBinding{ChainID: requiredChainID, Address: address}, true
}
