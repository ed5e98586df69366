package domain

import "github.com/fd1az/smart-router/internal/asset"

// NormalizedPrice is quote atoms per one whole base unit. Prices from
// different venues compare directly.
type NormalizedPrice uint64

// Level is the top of one side of a book. Native is the venue's own price
// encoding (ticks, or quote lots per base lot) and is what an order's limit
// is expressed in.
type Level struct {
	Native uint64
	Price  NormalizedPrice
}

// Book is a decoded snapshot of one venue. A nil BestBid or BestAsk means
// that side is empty; zero is a valid price and never means absence.
// Crossed books are possible and are not rejected here.
type Book struct {
	Venue   VenueID
	Market  asset.Pubkey
	BestBid *Level
	BestAsk *Level

	// BaseLotSize is base atoms per base lot.
	BaseLotSize uint64
	// QuoteLotSize is quote atoms per quote lot.
	QuoteLotSize uint64
}

// Best returns the level a taker on side trades against: the ask for a
// buy, the bid for a sell.
func (b Book) Best(side Side) *Level {
	if side == Buy {
		return b.BestAsk
	}
	return b.BestBid
}

// TwoSided reports whether both sides of the book are present.
func (b Book) TwoSided() bool {
	return b.BestBid != nil && b.BestAsk != nil
}
