package wallet

import (
	"encoding/json"
	"fmt"

	"namereg/internal/domain"
	"namereg/internal/pkg/apperrors"
)

// UserRejectedCode is the EIP-1193 error code for a request the user declined.
const UserRejectedCode = 4001

type request struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// message is anything the bridge sends: a response (ID set) or a notification (Method set).
type message struct {
	ID      *uint64         `json:"id,omitempty"`
	Jsonrpc string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object returned by the wallet.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// Unwrap classifies wallet errors for errors.Is checks upstream. A declined
// request also matches domain.ErrUserRejected.
func (e *RPCError) Unwrap() []error {
	if e.Code == UserRejectedCode {
		return []error{apperrors.ErrExternalServiceFailure, domain.ErrUserRejected}
	}
	return []error{apperrors.ErrExternalServiceFailure}
}

// validate checks the envelope of a response. A missing result is read as null.
func (m *message) validate() error {
	if m.Jsonrpc != "2.0" {
		return fmt.Errorf("%w: unexpected jsonrpc version %q", apperrors.ErrExternalServiceFailure, m.Jsonrpc)
	}
	if m.Error != nil {
		return m.Error
	}
	return nil
}
