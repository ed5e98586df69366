package phoenix

import (
	"encoding/binary"

	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/safemath"
)

// Market is a decoded Phoenix market snapshot.
type Market struct {
	Address asset.Pubkey
	Header  Header

	BaseLotsPerBaseUnit uint64
	// TickSize is quote lots per base unit per tick.
	TickSize       uint64
	SequenceNumber uint64
	TakerFeeBps    uint64

	BestBid *RestingOrder
	BestAsk *RestingOrder
}

// Decode reads a market account. A side with no resting orders decodes to
// a nil best order.
func Decode(data []byte) (*Market, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if need := h.Size.BodySize(); uint64(len(body)) < need {
		return nil, apperror.Decoding("phoenix market body is %d bytes, layout %d/%d/%d needs %d",
			len(body), h.Size.BidsSize, h.Size.AsksSize, h.Size.NumSeats, need)
	}

	le := binary.LittleEndian
	m := &Market{
		Header:              h,
		BaseLotsPerBaseUnit: le.Uint64(body[offBaseLotsPerBaseUnit:]),
		TickSize:            le.Uint64(body[offTickSize:]),
		SequenceNumber:      le.Uint64(body[offSequenceNumber:]),
		TakerFeeBps:         le.Uint64(body[offTakerFeeBps:]),
	}

	if m.BestBid, err = newLadder(body, offBidsTree, h.Size.BidsSize, "bid").first(); err != nil {
		return nil, err
	}
	if m.BestAsk, err = newLadder(body, h.Size.asksOffset(), h.Size.AsksSize, "ask").first(); err != nil {
		return nil, err
	}

	return m, nil
}

// Normalize converts a price in ticks to quote atoms per base unit:
// ticks × tickSize × quoteLotSize ÷ rawBaseUnitsPerBaseUnit, with a 128-bit
// intermediate.
func Normalize(ticks, tickSize, quoteLotSize uint64, rawBaseUnitsPerBaseUnit uint32) (uint64, error) {
	return safemath.Chain(safemath.NewU128(ticks)).
		Mul(tickSize).
		Mul(quoteLotSize).
		Div(uint64(rawBaseUnitsPerBaseUnit)).
		Uint64()
}

func (m *Market) level(o *RestingOrder) (*domain.Level, error) {
	if o == nil {
		return nil, nil
	}
	price, err := Normalize(o.PriceInTicks, m.TickSize, m.Header.QuoteLotSize, m.Header.RawBaseUnitsPerBaseUnit)
	if err != nil {
		return nil, err
	}
	return &domain.Level{Native: o.PriceInTicks, Price: domain.NormalizedPrice(price)}, nil
}

// Book converts the snapshot to normalized form.
func (m *Market) Book() (domain.Book, error) {
	bid, err := m.level(m.BestBid)
	if err != nil {
		return domain.Book{}, err
	}
	ask, err := m.level(m.BestAsk)
	if err != nil {
		return domain.Book{}, err
	}

	return domain.Book{
		Venue:        domain.VenuePhoenix,
		Market:       m.Address,
		BestBid:      bid,
		BestAsk:      ask,
		BaseLotSize:  m.Header.BaseLotSize,
		QuoteLotSize: m.Header.QuoteLotSize,
	}, nil
}
