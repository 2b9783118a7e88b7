package wallet

import (
	"fmt"
	"testing"

	"namereg/internal/domain"
	"namereg/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Validate(t *testing.T) {
	ok := &message{Jsonrpc: "2.0"}
	assert.NoError(t, ok.validate())

	wrongVersion := &message{Jsonrpc: "1.0"}
	assert.ErrorIs(t, wrongVersion.validate(), apperrors.ErrExternalServiceFailure)

	rpcErr := &message{Jsonrpc: "2.0", Error: &RPCError{Code: -32000, Message: "execution reverted"}}
	err := rpcErr.validate()
	assert.EqualError(t, err, "json-rpc error -32000: execution reverted")
	assert.ErrorIs(t, err, apperrors.ErrExternalServiceFailure)
	assert.NotErrorIs(t, err, domain.ErrUserRejected)
}

func TestRPCError_UserRejected(t *testing.T) {
	err := fmt.Errorf("switch: %w", &RPCError{Code: UserRejectedCode, Message: "User rejected the request."})

	assert.ErrorIs(t, err, domain.ErrUserRejected)
	assert.ErrorIs(t, err, apperrors.ErrExternalServiceFailure)
}
