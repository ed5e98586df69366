package domain

import (
	"github.com/fd1az/smart-router/internal/apperror"
)

// Decision is the venue chosen for one request and the level it was
// chosen on.
type Decision struct {
	Venue VenueID
	Side  Side
	// Price is the normalized price that won the comparison.
	Price NormalizedPrice
	// Limit is the same price in the venue's native encoding.
	Limit uint64
	Book  Book
}

// Engine picks the venue with the better price for a side.
type Engine struct {
	// Default wins exact ties.
	Default VenueID
	// RequireTwoSided disqualifies any venue missing either side, not just
	// the side being taken.
	RequireTwoSided bool
}

// NewEngine returns an Engine that breaks ties in favour of def.
func NewEngine(def VenueID, requireTwoSided bool) Engine {
	return Engine{Default: def, RequireTwoSided: requireTwoSided}
}

// Decide compares asks for a buy (lower wins) and bids for a sell (higher
// wins). A venue without the needed side is skipped. Equal prices go to
// the default venue; among non-default venues the earlier book wins.
// With no qualifying venue it fails with PRICE_ERROR.
func (e Engine) Decide(side Side, books ...Book) (Decision, error) {
	if side != Buy && side != Sell {
		return Decision{}, apperror.Validation(apperror.CodeInvalidInput, "unknown side "+side.String())
	}

	var (
		best  *Level
		owner Book
	)

	for _, b := range books {
		if e.RequireTwoSided && !b.TwoSided() {
			continue
		}
		lvl := b.Best(side)
		if lvl == nil {
			continue
		}

		if best == nil || e.better(side, lvl, b.Venue, best, owner.Venue) {
			best = lvl
			owner = b
		}
	}

	if best == nil {
		return Decision{}, apperror.New(apperror.CodePriceError,
			apperror.WithContextf("no venue quotes the %s side", takenSide(side)))
	}

	return Decision{
		Venue: owner.Venue,
		Side:  side,
		Price: best.Price,
		Limit: best.Native,
		Book:  owner,
	}, nil
}

func (e Engine) better(side Side, cand *Level, candVenue VenueID, cur *Level, curVenue VenueID) bool {
	if cand.Price == cur.Price {
		return candVenue == e.Default && curVenue != e.Default
	}
	if side == Buy {
		return cand.Price < cur.Price
	}
	return cand.Price > cur.Price
}

func takenSide(side Side) string {
	if side == Buy {
		return "ask"
	}
	return "bid"
}
