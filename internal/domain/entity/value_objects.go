package entity

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// NormalizeChainID converts a chain id reported as "0x"-prefixed hex or as a decimal
// string into its canonical decimal form, the key used by the chain catalog.
func NormalizeChainID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("chain id cannot be empty")
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok || n.Sign() < 0 {
		return "", fmt.Errorf("invalid chain id '%s'", raw)
	}
	return n.String(), nil
}

// ChainIDToHex renders a decimal chain id the way wallet_switchEthereumChain expects it.
func ChainIDToHex(chainID string) (string, error) {
	dec, err := NormalizeChainID(chainID)
	if err != nil {
		return "", err
	}
	n, _ := new(big.Int).SetString(dec, 10)
	return hexutil.EncodeBig(n), nil
}
