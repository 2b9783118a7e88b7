package chainlist_dto

import "encoding/json"

// ChainRaw is one entry of the chains.json list. Only the fields the client
// displays are decoded; everything else in the entry is ignored.
type ChainRaw struct {
	Name      string      `json:"name"`
	ShortName string      `json:"shortName"`
	ChainID   json.Number `json:"chainId"`
	Currency  CurrencyRaw `json:"nativeCurrency"`
}

// CurrencyRaw defines the native currency details of a chain from raw data.
type CurrencyRaw struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}
