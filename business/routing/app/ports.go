// Package app contains the routing orchestrator and its port definitions.
package app

import (
	"context"

	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/asset"
)

// Venue decodes one order-book venue. Adding a venue means adding an
// implementation, never branching on venue identity in shared code.
type Venue interface {
	ID() domain.VenueID

	// Accounts lists the accounts Decode needs, in the order it needs them.
	Accounts() []asset.Pubkey

	// Decode builds a book from the data of Accounts. A side with no
	// resting orders is nil in the result, not an error.
	Decode(accounts [][]byte) (domain.Book, error)
}

// MarketReader fetches raw account data.
type MarketReader interface {
	// ReadAccounts fetches every key in one read so all venues are decoded
	// from the same snapshot. A missing account is an error.
	ReadAccounts(ctx context.Context, keys []asset.Pubkey) ([][]byte, error)
}

// BalanceReader reads token balances.
type BalanceReader interface {
	// Balances returns the atoms held by each token account, in order, all
	// from one snapshot.
	Balances(ctx context.Context, accounts []asset.Pubkey) ([]uint64, error)
}

// VenueInvoker places orders.
type VenueInvoker interface {
	// Invoke submits the order and reports whether the call itself
	// succeeded. It says nothing about how much filled.
	Invoke(ctx context.Context, order domain.OrderRequest) error
}

// PriceSnapshot is the top of book seen by one request.
type PriceSnapshot struct {
	RequestID string
	Side      domain.Side
	Books     []domain.Book
}

// Sink receives flat diagnostic records, one price snapshot and one result
// per request.
type Sink interface {
	RecordPrices(ctx context.Context, snap PriceSnapshot) error
	RecordFill(ctx context.Context, out domain.Outcome) error
	RecordNoFill(ctx context.Context, out domain.Outcome) error
}
