// Package phoenix decodes Phoenix market accounts: a fixed header followed
// by a FIFO market whose bid and ask ladders are red-black trees keyed by
// (price in ticks, order sequence number).
package phoenix

import (
	"encoding/binary"

	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
)

// HeaderSize is the byte width of the market header.
const HeaderSize = 576

// Header field offsets.
const (
	offBidsSize                = 16
	offAsksSize                = 24
	offNumSeats                = 32
	offBaseDecimals            = 40
	offBaseMint                = 48
	offBaseLotSize             = 112
	offQuoteDecimals           = 120
	offQuoteMint               = 128
	offQuoteLotSize            = 192
	offTickSizeInQuoteAtoms    = 200
	offRawBaseUnitsPerBaseUnit = 312
)

// Body field offsets, relative to the end of the header.
const (
	offBaseLotsPerBaseUnit = 256
	offTickSize            = 264
	offSequenceNumber      = 272
	offTakerFeeBps         = 280
	offBidsTree            = 304
)

const (
	treeHeaderSize   = 32
	orderNodeSize    = 64
	traderNodeSize   = 144
	registerLeft     = 0
	offPriceInTicks  = 16
	offOrderSequence = 24
	offTraderIndex   = 32
	offNumBaseLots   = 40
)

// SizeParams selects one of the market layouts compiled into the program.
type SizeParams struct {
	BidsSize uint64
	AsksSize uint64
	NumSeats uint64
}

// supportedSizes lists every market shape the program can dispatch to.
var supportedSizes = map[SizeParams]struct{}{
	{512, 512, 128}:    {},
	{512, 512, 1025}:   {},
	{512, 512, 1153}:   {},
	{1024, 1024, 128}:  {},
	{1024, 1024, 2049}: {},
	{1024, 1024, 2177}: {},
	{2048, 2048, 128}:  {},
	{2048, 2048, 4097}: {},
	{2048, 2048, 4225}: {},
	{4096, 4096, 128}:  {},
	{4096, 4096, 8193}: {},
	{4096, 4096, 8321}: {},
}

func treeSize(nodes, nodeSize uint64) uint64 {
	return treeHeaderSize + nodes*nodeSize
}

// BodySize is the byte width of the market body for p.
func (p SizeParams) BodySize() uint64 {
	return offBidsTree +
		treeSize(p.BidsSize, orderNodeSize) +
		treeSize(p.AsksSize, orderNodeSize) +
		treeSize(p.NumSeats, traderNodeSize)
}

func (p SizeParams) asksOffset() uint64 {
	return offBidsTree + treeSize(p.BidsSize, orderNodeSize)
}

// Header is the subset of the market header the router needs.
type Header struct {
	Size SizeParams

	BaseMint      asset.Pubkey
	BaseDecimals  uint32
	BaseLotSize   uint64
	QuoteMint     asset.Pubkey
	QuoteDecimals uint32
	QuoteLotSize  uint64

	TickSizeInQuoteAtomsPerBaseUnit uint64
	RawBaseUnitsPerBaseUnit         uint32
}

func parseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, apperror.Decoding("phoenix market is %d bytes, header needs %d", len(b), HeaderSize)
	}

	le := binary.LittleEndian
	h := Header{
		Size: SizeParams{
			BidsSize: le.Uint64(b[offBidsSize:]),
			AsksSize: le.Uint64(b[offAsksSize:]),
			NumSeats: le.Uint64(b[offNumSeats:]),
		},
		BaseDecimals:                    le.Uint32(b[offBaseDecimals:]),
		BaseLotSize:                     le.Uint64(b[offBaseLotSize:]),
		QuoteDecimals:                   le.Uint32(b[offQuoteDecimals:]),
		QuoteLotSize:                    le.Uint64(b[offQuoteLotSize:]),
		TickSizeInQuoteAtomsPerBaseUnit: le.Uint64(b[offTickSizeInQuoteAtoms:]),
		RawBaseUnitsPerBaseUnit:         le.Uint32(b[offRawBaseUnitsPerBaseUnit:]),
	}
	copy(h.BaseMint[:], b[offBaseMint:offBaseMint+32])
	copy(h.QuoteMint[:], b[offQuoteMint:offQuoteMint+32])

	if _, ok := supportedSizes[h.Size]; !ok {
		return Header{}, apperror.Decoding("phoenix market size params %d/%d/%d not supported",
			h.Size.BidsSize, h.Size.AsksSize, h.Size.NumSeats)
	}
	if h.BaseLotSize == 0 || h.QuoteLotSize == 0 {
		return Header{}, apperror.Decoding("phoenix market has zero lot size")
	}
	if h.RawBaseUnitsPerBaseUnit == 0 {
		// Older markets leave the field unset; it means one.
		h.RawBaseUnitsPerBaseUnit = 1
	}

	return h, nil
}
