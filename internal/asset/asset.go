package asset

import "github.com/fd1az/smart-router/internal/safemath"

// MaxDecimals is the largest exponent whose unit still fits in a uint64.
const MaxDecimals = 19

// Asset is the metadata of an SPL token. Its identity is the mint; the
// symbol is display metadata only.
type Asset struct {
	mint     Pubkey
	symbol   string
	name     string
	decimals uint8
}

// NewAsset creates a new Asset with the given parameters.
func NewAsset(mint Pubkey, symbol string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > MaxDecimals {
		panic("asset: decimals exceed uint64 range")
	}

	return &Asset{
		mint:     mint,
		symbol:   symbol,
		decimals: decimals,
	}
}

// NewAssetWithName creates a new Asset with a human-readable name.
func NewAssetWithName(mint Pubkey, symbol, name string, decimals uint8) *Asset {
	a := NewAsset(mint, symbol, decimals)
	a.name = name
	return a
}

// Mint returns the token mint address.
func (a *Asset) Mint() Pubkey {
	return a.mint
}

// Symbol returns the ticker symbol (e.g., "SOL", "USDC").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name, falling back to the symbol.
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// Unit returns the number of atoms in one whole token, 10^decimals.
func (a *Asset) Unit() uint64 {
	u, err := safemath.Pow10(a.decimals)
	if err != nil {
		// NewAsset bounds decimals, so this is unreachable.
		panic(err)
	}
	return u
}

// String returns a human-readable representation.
func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by mint.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.mint == other.mint
}
