package openbook

import (
	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/safemath"
)

// Venue reads one OpenBook market and its two slabs.
type Venue struct {
	market   asset.Pubkey
	bids     asset.Pubkey
	asks     asset.Pubkey
	baseUnit uint64
}

// NewVenue returns a Venue. baseUnit is base atoms per whole base token.
func NewVenue(market, bids, asks asset.Pubkey, baseUnit uint64) *Venue {
	return &Venue{market: market, bids: bids, asks: asks, baseUnit: baseUnit}
}

func (v *Venue) ID() domain.VenueID { return domain.VenueOpenBook }

// Accounts lists market, bids and asks, in the order Decode expects them.
func (v *Venue) Accounts() []asset.Pubkey {
	return []asset.Pubkey{v.market, v.bids, v.asks}
}

// Normalize converts a limit price in quote lots per base lot to quote
// atoms per whole base unit: raw × pcLotSize × baseUnit ÷ coinLotSize.
func Normalize(raw, pcLotSize, baseUnit, coinLotSize uint64) (uint64, error) {
	return safemath.Chain(safemath.NewU128(raw)).
		Mul(pcLotSize).
		Mul(baseUnit).
		Div(coinLotSize).
		Uint64()
}

// Decode builds the book. Bids keep their best price at the maximum key and
// asks at the minimum key.
func (v *Venue) Decode(accounts [][]byte) (domain.Book, error) {
	if len(accounts) != 3 {
		return domain.Book{}, apperror.Decoding("openbook expects 3 accounts, got %d", len(accounts))
	}

	m, err := DecodeMarket(accounts[0])
	if err != nil {
		return domain.Book{}, err
	}
	if m.Bids != v.bids || m.Asks != v.asks {
		return domain.Book{}, apperror.Decoding("openbook market %s does not own slabs %s/%s", v.market, v.bids, v.asks)
	}

	bids, err := DecodeSlab(accounts[1], FlagBids)
	if err != nil {
		return domain.Book{}, err
	}
	asks, err := DecodeSlab(accounts[2], FlagAsks)
	if err != nil {
		return domain.Book{}, err
	}

	bestBid, err := bids.Max()
	if err != nil {
		return domain.Book{}, err
	}
	bestAsk, err := asks.Min()
	if err != nil {
		return domain.Book{}, err
	}

	book := domain.Book{
		Venue:        domain.VenueOpenBook,
		Market:       v.market,
		BaseLotSize:  m.CoinLotSize,
		QuoteLotSize: m.PcLotSize,
	}
	if book.BestBid, err = v.level(bestBid, m); err != nil {
		return domain.Book{}, err
	}
	if book.BestAsk, err = v.level(bestAsk, m); err != nil {
		return domain.Book{}, err
	}

	return book, nil
}

func (v *Venue) level(l *Leaf, m *Market) (*domain.Level, error) {
	if l == nil {
		return nil, nil
	}
	price, err := Normalize(l.Price(), m.PcLotSize, v.baseUnit, m.CoinLotSize)
	if err != nil {
		return nil, err
	}
	return &domain.Level{Native: l.Price(), Price: domain.NormalizedPrice(price)}, nil
}
