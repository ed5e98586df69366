package domain

import (
	"testing"

	"github.com/fd1az/smart-router/internal/apperror"
)

func TestComputeOutcome(t *testing.T) {
	const sol = 1_000_000_000

	tests := []struct {
		name       string
		side       Side
		before     Balances
		after      Balances
		wantFilled bool
		wantBase   uint64
		wantQuote  uint64
		wantPrice  NormalizedPrice
		wantCode   apperror.Code
	}{
		{
			name:       "buy_filled",
			side:       Buy,
			before:     Balances{Base: 0, Quote: 300_000_000},
			after:      Balances{Base: 2 * sol, Quote: 0},
			wantFilled: true,
			wantBase:   2 * sol,
			wantQuote:  300_000_000,
			wantPrice:  150_000_000,
		},
		{
			name:       "sell_filled",
			side:       Sell,
			before:     Balances{Base: sol, Quote: 0},
			after:      Balances{Base: sol / 2, Quote: 75_000_000},
			wantFilled: true,
			wantBase:   sol / 2,
			wantQuote:  75_000_000,
			wantPrice:  150_000_000,
		},
		{
			name:   "buy_unchanged_is_no_fill",
			side:   Buy,
			before: Balances{Base: 5, Quote: 10},
			after:  Balances{Base: 5, Quote: 10},
		},
		{
			name:   "sell_unchanged_is_no_fill",
			side:   Sell,
			before: Balances{Base: 5, Quote: 10},
			after:  Balances{Base: 5, Quote: 10},
		},
		{
			name:   "buy_base_decreased_is_no_fill",
			side:   Buy,
			before: Balances{Base: 5, Quote: 10},
			after:  Balances{Base: 4, Quote: 10},
		},
		{
			name:     "buy_with_quote_increase_is_math_error",
			side:     Buy,
			before:   Balances{Base: 0, Quote: 10},
			after:    Balances{Base: 1, Quote: 11},
			wantCode: apperror.CodeMathError,
		},
		{
			name:     "buy_without_quote_spent_is_math_error",
			side:     Buy,
			before:   Balances{Base: 0, Quote: 1_000_000},
			after:    Balances{Base: 5_000, Quote: 1_000_000},
			wantCode: apperror.CodeMathError,
		},
		{
			name:     "sell_without_base_spent_is_math_error",
			side:     Sell,
			before:   Balances{Base: 1, Quote: 0},
			after:    Balances{Base: 1, Quote: 5},
			wantCode: apperror.CodeMathError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ComputeOutcome(VenuePhoenix, tt.side, sol, tt.before, tt.after)
			if tt.wantCode != "" {
				if !apperror.HasCode(err, tt.wantCode) {
					t.Fatalf("expected %s, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Filled != tt.wantFilled {
				t.Fatalf("expected filled=%v, got %v", tt.wantFilled, out.Filled)
			}
			if out.BaseAmount != tt.wantBase || out.QuoteAmount != tt.wantQuote {
				t.Errorf("expected base=%d quote=%d, got base=%d quote=%d",
					tt.wantBase, tt.wantQuote, out.BaseAmount, out.QuoteAmount)
			}
			if out.Price != tt.wantPrice {
				t.Errorf("expected price %d, got %d", tt.wantPrice, out.Price)
			}
			if out.Venue != VenuePhoenix || out.Side != tt.side {
				t.Errorf("outcome lost venue or side: %+v", out)
			}
		})
	}
}
