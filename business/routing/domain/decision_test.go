package domain

import (
	"math/rand"
	"testing"

	"github.com/fd1az/smart-router/internal/apperror"
)

func lvl(p uint64) *Level {
	return &Level{Native: p, Price: NormalizedPrice(p)}
}

func book(v VenueID, bid, ask *Level) Book {
	return Book{Venue: v, BestBid: bid, BestAsk: ask, BaseLotSize: 1, QuoteLotSize: 1}
}

func TestEngine_Decide(t *testing.T) {
	engine := NewEngine(VenuePhoenix, false)

	tests := []struct {
		name      string
		side      Side
		books     []Book
		wantVenue VenueID
		wantPrice NormalizedPrice
		wantCode  apperror.Code
	}{
		{
			name:      "buy_takes_lower_ask",
			side:      Buy,
			books:     []Book{book(VenuePhoenix, lvl(90), lvl(100)), book(VenueOpenBook, lvl(90), lvl(95))},
			wantVenue: VenueOpenBook,
			wantPrice: 95,
		},
		{
			name:      "sell_takes_higher_bid",
			side:      Sell,
			books:     []Book{book(VenuePhoenix, lvl(49), lvl(60)), book(VenueOpenBook, lvl(51), lvl(60))},
			wantVenue: VenueOpenBook,
			wantPrice: 51,
		},
		{
			name:      "tie_goes_to_default_venue",
			side:      Sell,
			books:     []Book{book(VenuePhoenix, lvl(50), lvl(60)), book(VenueOpenBook, lvl(50), lvl(60))},
			wantVenue: VenuePhoenix,
			wantPrice: 50,
		},
		{
			name:      "tie_goes_to_default_regardless_of_order",
			side:      Buy,
			books:     []Book{book(VenueOpenBook, nil, lvl(60)), book(VenuePhoenix, nil, lvl(60))},
			wantVenue: VenuePhoenix,
			wantPrice: 60,
		},
		{
			name:      "zero_price_is_a_real_quote",
			side:      Buy,
			books:     []Book{book(VenuePhoenix, nil, lvl(1)), book(VenueOpenBook, nil, lvl(0))},
			wantVenue: VenueOpenBook,
			wantPrice: 0,
		},
		{
			name:      "missing_side_is_skipped",
			side:      Buy,
			books:     []Book{book(VenuePhoenix, lvl(10), nil), book(VenueOpenBook, nil, lvl(500))},
			wantVenue: VenueOpenBook,
			wantPrice: 500,
		},
		{
			name:      "crossed_book_still_decides",
			side:      Sell,
			books:     []Book{book(VenuePhoenix, lvl(120), lvl(100)), book(VenueOpenBook, lvl(90), lvl(95))},
			wantVenue: VenuePhoenix,
			wantPrice: 120,
		},
		{
			name:     "no_venue_quotes_side",
			side:     Sell,
			books:    []Book{book(VenuePhoenix, nil, lvl(1)), book(VenueOpenBook, nil, lvl(2))},
			wantCode: apperror.CodePriceError,
		},
		{
			name:     "no_books",
			side:     Buy,
			wantCode: apperror.CodePriceError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := engine.Decide(tt.side, tt.books...)
			if tt.wantCode != "" {
				if !apperror.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Venue != tt.wantVenue {
				t.Errorf("expected venue %s, got %s", tt.wantVenue, d.Venue)
			}
			if d.Price != tt.wantPrice {
				t.Errorf("expected price %d, got %d", tt.wantPrice, d.Price)
			}
			if d.Side != tt.side {
				t.Errorf("expected side %s, got %s", tt.side, d.Side)
			}
		})
	}
}

func TestEngine_DecideConfiguredDefault(t *testing.T) {
	engine := NewEngine(VenueOpenBook, false)

	d, err := engine.Decide(Buy, book(VenuePhoenix, nil, lvl(7)), book(VenueOpenBook, nil, lvl(7)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Venue != VenueOpenBook {
		t.Errorf("expected openbook to win the tie, got %s", d.Venue)
	}
}

func TestEngine_DecideRequireTwoSided(t *testing.T) {
	engine := NewEngine(VenuePhoenix, true)

	// Phoenix has the better ask but no bids.
	d, err := engine.Decide(Buy, book(VenuePhoenix, nil, lvl(90)), book(VenueOpenBook, lvl(80), lvl(95)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Venue != VenueOpenBook {
		t.Errorf("expected openbook, got %s", d.Venue)
	}

	_, err = engine.Decide(Buy, book(VenuePhoenix, nil, lvl(90)), book(VenueOpenBook, lvl(80), nil))
	if !apperror.HasCode(err, apperror.CodePriceError) {
		t.Errorf("expected PRICE_ERROR, got %v", err)
	}
}

func TestEngine_DecideKeepsNativeLimit(t *testing.T) {
	engine := NewEngine(VenuePhoenix, false)
	ask := &Level{Native: 4321, Price: 95_000_000}

	d, err := engine.Decide(Buy, book(VenueOpenBook, nil, ask))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Limit != 4321 {
		t.Errorf("expected native limit 4321, got %d", d.Limit)
	}
	if d.Book.Venue != VenueOpenBook {
		t.Errorf("expected decision to carry the chosen book")
	}
}

func TestEngine_DecideProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	engine := NewEngine(VenuePhoenix, false)

	optional := func() *Level {
		if rng.Intn(5) == 0 {
			return nil
		}
		return lvl(uint64(rng.Intn(20)))
	}

	for i := 0; i < 2000; i++ {
		a := book(VenuePhoenix, optional(), optional())
		b := book(VenueOpenBook, optional(), optional())
		side := Side(rng.Intn(2))

		d, err := engine.Decide(side, a, b)
		pa, pb := a.Best(side), b.Best(side)

		if pa == nil && pb == nil {
			if !apperror.HasCode(err, apperror.CodePriceError) {
				t.Fatalf("case %d: expected PRICE_ERROR, got %v", i, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}

		var want VenueID
		switch {
		case pb == nil:
			want = VenuePhoenix
		case pa == nil:
			want = VenueOpenBook
		case pa.Price == pb.Price:
			want = VenuePhoenix
		case side == Buy && pb.Price < pa.Price, side == Sell && pb.Price > pa.Price:
			want = VenueOpenBook
		default:
			want = VenuePhoenix
		}
		if d.Venue != want {
			t.Fatalf("case %d: side %s phoenix=%v openbook=%v: expected %s, got %s",
				i, side, pa, pb, want, d.Venue)
		}
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{in: "buy", want: Buy},
		{in: " SELL ", want: Sell},
		{in: "bid", want: Buy},
		{in: "ask", want: Sell},
		{in: "hold", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSide(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
