package entity

// ChainInfo is the part of a chain list entry the client displays.
type ChainInfo struct {
	ChainID        string
	DisplayName    string
	ShortName      string
	CurrencySymbol string
}
