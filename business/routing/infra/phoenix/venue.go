package phoenix

import (
	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
)

// Venue reads one Phoenix market.
type Venue struct {
	market asset.Pubkey
}

// NewVenue returns a Venue for the market account at market.
func NewVenue(market asset.Pubkey) *Venue {
	return &Venue{market: market}
}

func (v *Venue) ID() domain.VenueID { return domain.VenuePhoenix }

// Accounts lists the accounts Decode expects, in order.
func (v *Venue) Accounts() []asset.Pubkey {
	return []asset.Pubkey{v.market}
}

// Decode builds the book from the account data fetched for Accounts.
func (v *Venue) Decode(accounts [][]byte) (domain.Book, error) {
	if len(accounts) != 1 {
		return domain.Book{}, apperror.Decoding("phoenix expects 1 account, got %d", len(accounts))
	}

	m, err := Decode(accounts[0])
	if err != nil {
		return domain.Book{}, err
	}
	m.Address = v.market

	return m.Book()
}
