package domain

import (
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/safemath"
)

// Balances are the trader's base and quote token balances, in atoms.
type Balances struct {
	Base  uint64
	Quote uint64
}

// Outcome is the measured result of one routed order. Filled false is the
// NoFill outcome: the IOC order executed nothing, which is not an error.
type Outcome struct {
	RequestID string
	Venue     VenueID
	Side      Side
	Filled    bool
	// Skipped is set when the order floored to zero lots and no venue was
	// invoked.
	Skipped bool

	// BaseAmount is base atoms bought or sold.
	BaseAmount uint64
	// QuoteAmount is quote atoms spent or received.
	QuoteAmount uint64
	// Price is the realized price, QuoteAmount per whole base unit.
	Price NormalizedPrice

	Before Balances
	After  Balances
}

// NoFill builds the outcome for an order that executed nothing.
func NoFill(venue VenueID, side Side, before, after Balances) Outcome {
	return Outcome{Venue: venue, Side: side, Before: before, After: after}
}

// ComputeOutcome derives the fill from balances read around the venue call.
// A buy filled iff the base balance grew; a sell filled iff the quote
// balance grew. Any inconsistent counter-movement is a MATH_ERROR.
func ComputeOutcome(venue VenueID, side Side, baseUnit uint64, before, after Balances) (Outcome, error) {
	var (
		base, quote uint64
		err         error
	)

	switch side {
	case Buy:
		if after.Base <= before.Base {
			return NoFill(venue, side, before, after), nil
		}
		base = after.Base - before.Base
		if quote, err = safemath.Sub(before.Quote, after.Quote); err != nil {
			return Outcome{}, err
		}
		if quote == 0 {
			return Outcome{}, counterMovement(side, before, after)
		}
	default:
		if after.Quote <= before.Quote {
			return NoFill(venue, side, before, after), nil
		}
		quote = after.Quote - before.Quote
		if base, err = safemath.Sub(before.Base, after.Base); err != nil {
			return Outcome{}, err
		}
		if base == 0 {
			return Outcome{}, counterMovement(side, before, after)
		}
	}

	price, err := safemath.MulDiv(quote, baseUnit, base)
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Venue:       venue,
		Side:        side,
		Filled:      true,
		BaseAmount:  base,
		QuoteAmount: quote,
		Price:       NormalizedPrice(price),
		Before:      before,
		After:       after,
	}, nil
}

func counterMovement(side Side, before, after Balances) error {
	return apperror.New(apperror.CodeMathError,
		apperror.WithContextf("%s filled without paying: base %d->%d, quote %d->%d",
			side, before.Base, after.Base, before.Quote, after.Quote))
}
