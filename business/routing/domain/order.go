package domain

import (
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/safemath"
)

// OrderRequest is the immediate-or-cancel order handed to the venue
// invocation service.
type OrderRequest struct {
	ClientOrderID string
	Venue         VenueID
	Market        asset.Pubkey
	Side          Side
	TimeInForce   TimeInForce

	// LimitPrice is in the venue's native price encoding.
	LimitPrice      uint64
	NormalizedLimit NormalizedPrice

	// BaseLots is the maximum base quantity, in lots.
	BaseLots    uint64
	BaseLotSize uint64
	// QuoteLots caps the quote spent by a buy, in lots.
	QuoteLots uint64
	// QuoteAtoms caps the quote spent by a buy, in atoms, for venues that
	// take the budget unlotted.
	QuoteAtoms uint64
}

// Empty reports whether lot flooring left nothing to trade.
func (o OrderRequest) Empty() bool {
	return o.BaseLots == 0
}

// BaseAtoms is the maximum base quantity in atoms.
func (o OrderRequest) BaseAtoms() (uint64, error) {
	return safemath.Mul(o.BaseLots, o.BaseLotSize)
}

// Size builds the order for a decision. amount is quote atoms to spend on
// a buy or base atoms to sell on a sell; baseUnit is atoms per whole base
// token. Quantities floor to whole lots and any remainder below one lot is
// dropped.
func Size(d Decision, amount, baseUnit uint64) (OrderRequest, error) {
	if amount == 0 {
		return OrderRequest{}, apperror.Validation(apperror.CodeAmountIsZero, "requested amount is zero")
	}

	order := OrderRequest{
		Venue:           d.Venue,
		Market:          d.Book.Market,
		Side:            d.Side,
		TimeInForce:     ImmediateOrCancel,
		LimitPrice:      d.Limit,
		NormalizedLimit: d.Price,
		BaseLotSize:     d.Book.BaseLotSize,
	}

	switch d.Side {
	case Buy:
		baseAtoms, err := safemath.MulDiv(amount, baseUnit, uint64(d.Price))
		if err != nil {
			return OrderRequest{}, err
		}
		if order.BaseLots, err = safemath.Div(baseAtoms, d.Book.BaseLotSize); err != nil {
			return OrderRequest{}, err
		}
		if order.QuoteLots, err = safemath.Div(amount, d.Book.QuoteLotSize); err != nil {
			return OrderRequest{}, err
		}
		order.QuoteAtoms = amount
	case Sell:
		var err error
		if order.BaseLots, err = safemath.Div(amount, d.Book.BaseLotSize); err != nil {
			return OrderRequest{}, err
		}
	default:
		return OrderRequest{}, apperror.Validation(apperror.CodeInvalidInput, "unknown side "+d.Side.String())
	}

	return order, nil
}
