// Package asset provides a type-safe model for SPL token assets.
// The core works in raw integer atoms; decimal.Decimal is only used at
// boundaries (CLI input, display).
package asset

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeyLength is the size of a Solana account address.
const PubkeyLength = 32

// Pubkey is a Solana account address.
type Pubkey [PubkeyLength]byte

// ParsePubkey decodes a base58 address.
func ParsePubkey(s string) (Pubkey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("asset: invalid base58 pubkey %q: %w", s, err)
	}
	if len(raw) != PubkeyLength {
		return Pubkey{}, fmt.Errorf("asset: pubkey %q decodes to %d bytes, want %d", s, len(raw), PubkeyLength)
	}
	var pk Pubkey
	copy(pk[:], raw)
	return pk, nil
}

// MustParsePubkey is ParsePubkey for well-known constants.
func MustParsePubkey(s string) Pubkey {
	pk, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// PubkeyFromBytes copies a 32-byte slice.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	if len(b) != PubkeyLength {
		return Pubkey{}, fmt.Errorf("asset: pubkey needs %d bytes, got %d", PubkeyLength, len(b))
	}
	var pk Pubkey
	copy(pk[:], b)
	return pk, nil
}

// String returns the base58 form.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

// IsZero reports whether p is the all-zero address.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// MarshalText implements encoding.TextMarshaler.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	pk, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*p = pk
	return nil
}
