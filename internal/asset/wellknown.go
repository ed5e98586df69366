package asset

// Well-known mainnet mints
const (
	MintWrappedSOL = "So11111111111111111111111111111111111111112"
	MintUSDC       = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// Well-known Assets (pre-created instances)
var (
	SOL  = NewAssetWithName(MustParsePubkey(MintWrappedSOL), "SOL", "Wrapped SOL", 9)
	USDC = NewAssetWithName(MustParsePubkey(MintUSDC), "USDC", "USD Coin", 6)
)

// DefaultRegistry returns a registry pre-populated with well-known assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(SOL)
	_ = r.Register(USDC)
	return r
}
