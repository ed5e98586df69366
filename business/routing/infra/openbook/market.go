// Package openbook decodes OpenBook (Serum v3) market and slab accounts.
// Each side of the book is a critbit tree whose leaves carry a 128-bit key
// with the limit price in its upper 64 bits.
package openbook

import (
	"bytes"
	"encoding/binary"

	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
)

var (
	accountHead = []byte("serum")
	accountTail = []byte("padding")
)

// MarketSize is the byte width of a market account.
const MarketSize = 388

// Account flags.
const (
	FlagInitialized uint64 = 1 << 0
	FlagMarket      uint64 = 1 << 1
	FlagBids        uint64 = 1 << 5
	FlagAsks        uint64 = 1 << 6
	FlagDisabled    uint64 = 1 << 7
)

const (
	offAccountFlags = 5
	offCoinMint     = 53
	offPcMint       = 85
	offBids         = 285
	offAsks         = 317
	offCoinLotSize  = 349
	offPcLotSize    = 357
	offFeeRateBps   = 365
)

// Market is the subset of the market state the router needs.
type Market struct {
	Flags       uint64
	CoinMint    asset.Pubkey
	PcMint      asset.Pubkey
	Bids        asset.Pubkey
	Asks        asset.Pubkey
	CoinLotSize uint64
	PcLotSize   uint64
	FeeRateBps  uint64
}

// checkFraming verifies the head and tail padding every account carries.
func checkFraming(b []byte, what string) error {
	if len(b) < len(accountHead)+len(accountTail) {
		return apperror.Decoding("openbook %s is %d bytes", what, len(b))
	}
	if !bytes.Equal(b[:len(accountHead)], accountHead) {
		return apperror.Decoding("openbook %s has a bad head", what)
	}
	if !bytes.Equal(b[len(b)-len(accountTail):], accountTail) {
		return apperror.Decoding("openbook %s has a bad tail", what)
	}
	return nil
}

func readPubkey(b []byte, off int) asset.Pubkey {
	var p asset.Pubkey
	copy(p[:], b[off:off+32])
	return p
}

// DecodeMarket reads a market account.
func DecodeMarket(b []byte) (*Market, error) {
	if len(b) != MarketSize {
		return nil, apperror.Decoding("openbook market is %d bytes, want %d", len(b), MarketSize)
	}
	if err := checkFraming(b, "market"); err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	m := &Market{
		Flags:       le.Uint64(b[offAccountFlags:]),
		CoinMint:    readPubkey(b, offCoinMint),
		PcMint:      readPubkey(b, offPcMint),
		Bids:        readPubkey(b, offBids),
		Asks:        readPubkey(b, offAsks),
		CoinLotSize: le.Uint64(b[offCoinLotSize:]),
		PcLotSize:   le.Uint64(b[offPcLotSize:]),
		FeeRateBps:  le.Uint64(b[offFeeRateBps:]),
	}

	if m.Flags&(FlagInitialized|FlagMarket) != FlagInitialized|FlagMarket {
		return nil, apperror.Decoding("openbook account flags %#x are not an initialized market", m.Flags)
	}
	if m.CoinLotSize == 0 || m.PcLotSize == 0 {
		return nil, apperror.Decoding("openbook market has zero lot size")
	}

	return m, nil
}
