package asset

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-router/internal/safemath"
)

// Common errors
var (
	ErrNilAsset        = errors.New("asset: nil asset")
	ErrNegativeAmount  = errors.New("asset: negative amount")
	ErrAssetMismatch   = errors.New("asset: cannot operate on different assets")
	ErrTooManyDecimals = errors.New("asset: too many decimal places for asset")
	ErrAmountTooLarge  = errors.New("asset: amount exceeds u64 atoms")
)

// Amount is an immutable quantity of an asset in its smallest unit. SPL
// balances are u64, so the raw value is a uint64 and arithmetic is checked.
type Amount struct {
	raw   uint64
	asset *Asset
}

// NewAmount creates an Amount from raw atoms.
func NewAmount(asset *Asset, raw uint64) Amount {
	if asset == nil {
		panic(ErrNilAsset)
	}
	return Amount{raw: raw, asset: asset}
}

// Zero creates a zero Amount for the given asset.
func Zero(asset *Asset) Amount {
	return NewAmount(asset, 0)
}

// Raw returns the amount in atoms.
func (a Amount) Raw() uint64 {
	return a.raw
}

// Asset returns the asset this amount is denominated in.
func (a Amount) Asset() *Asset {
	return a.asset
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.raw == 0
}

// Add adds two amounts of the same asset.
func (a Amount) Add(b Amount) (Amount, error) {
	if err := a.checkSameAsset(b); err != nil {
		return Amount{}, err
	}
	sum, err := safemath.Add(a.raw, b.raw)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(a.asset, sum), nil
}

// Sub subtracts b from a (same asset only).
func (a Amount) Sub(b Amount) (Amount, error) {
	if err := a.checkSameAsset(b); err != nil {
		return Amount{}, err
	}
	diff, err := safemath.Sub(a.raw, b.raw)
	if err != nil {
		return Amount{}, err
	}
	return NewAmount(a.asset, diff), nil
}

// Cmp compares two amounts of the same asset.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (a Amount) Cmp(b Amount) (int, error) {
	if err := a.checkSameAsset(b); err != nil {
		return 0, err
	}
	switch {
	case a.raw < b.raw:
		return -1, nil
	case a.raw > b.raw:
		return 1, nil
	default:
		return 0, nil
	}
}

// -----------------------------------------------------------------------------
// Boundary Functions (decimal conversion - CLI/display only)
// -----------------------------------------------------------------------------

// ToDecimal converts the amount to decimal.Decimal for display.
func (a Amount) ToDecimal() decimal.Decimal {
	if a.asset == nil {
		return decimal.Zero
	}
	return AtomsToDecimal(a.raw, a.asset.Decimals())
}

// AtomsToDecimal scales raw atoms down by decimals.
func AtomsToDecimal(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}

// ParseDecimal creates an Amount from a decimal value.
// This is a BOUNDARY function - use for parsing user input.
func ParseDecimal(asset *Asset, d decimal.Decimal) (Amount, error) {
	if asset == nil {
		return Amount{}, ErrNilAsset
	}
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	scaled := d.Shift(int32(asset.Decimals()))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, ErrTooManyDecimals
	}

	bi := scaled.BigInt()
	if !bi.IsUint64() {
		return Amount{}, ErrAmountTooLarge
	}

	return NewAmount(asset, bi.Uint64()), nil
}

// ParseString creates an Amount from a string decimal value.
func ParseString(asset *Asset, s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("asset: invalid decimal string: %w", err)
	}
	return ParseDecimal(asset, d)
}

// String returns a human-readable representation (e.g., "1.5 SOL").
func (a Amount) String() string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().String(), a.asset.Symbol())
}

// StringFixed returns a string with fixed decimal places.
func (a Amount) StringFixed(places int32) string {
	if a.asset == nil {
		return "0 ???"
	}
	return fmt.Sprintf("%s %s", a.ToDecimal().StringFixed(places), a.asset.Symbol())
}

func (a Amount) checkSameAsset(b Amount) error {
	if a.asset == nil || b.asset == nil {
		return ErrNilAsset
	}
	if !a.asset.Equals(b.asset) {
		return fmt.Errorf("%w: %s vs %s", ErrAssetMismatch, a.asset.Symbol(), b.asset.Symbol())
	}
	return nil
}
