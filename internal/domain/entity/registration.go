package entity

// RegistrationState is a node of the registration state machine.
type RegistrationState string

const (
	StateIdle              RegistrationState = "idle"
	StateNetworkChecking   RegistrationState = "network_checking"
	StateNetworkInvalid    RegistrationState = "network_invalid"
	StateExistenceChecking RegistrationState = "existence_checking"
	StateSubmitting        RegistrationState = "submitting"
	StateConflictResolving RegistrationState = "conflict_resolving"
	StateConfirmed         RegistrationState = "confirmed"
	StateCancelled         RegistrationState = "cancelled"
	StateFailed            RegistrationState = "failed"
)

// Outcome reports how one submission ended.
type Outcome struct {
	// Final is the last state entered before returning to idle.
	Final RegistrationState `json:"final"`
	// Trace lists every state entered, in order, starting after idle.
	Trace []RegistrationState `json:"trace"`
	// Requested is the name the user submitted.
	Requested string `json:"requested"`
	// Suggestions are the alternatives presented when the name was taken.
	Suggestions []string `json:"suggestions,omitempty"`
	// PendingName is the alternative the user picked; it must be resubmitted.
	PendingName string `json:"pendingName,omitempty"`
	// TxHash is set when the write was confirmed.
	TxHash string `json:"txHash,omitempty"`
}

// DisplayState is what the presentation layer shows in its header.
type DisplayState struct {
	Network string `json:"network" yaml:"network"`
	Balance string `json:"balance" yaml:"balance"`
	Name    string `json:"name" yaml:"name"`
	Account string `json:"account" yaml:"account"`
	ChainID string `json:"chainId" yaml:"chainId"`
}
