package asset_test

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
)

func TestAmount_Basic(t *testing.T) {
	oneSOL := asset.NewAmount(asset.SOL, 1_000_000_000)

	if oneSOL.IsZero() {
		t.Error("expected non-zero amount")
	}

	if !oneSOL.ToDecimal().Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", oneSOL.ToDecimal().String())
	}

	if oneSOL.String() != "1 SOL" {
		t.Errorf("expected '1 SOL', got '%s'", oneSOL.String())
	}
}

func TestAmount_Add(t *testing.T) {
	a := asset.NewAmount(asset.USDC, 1_500_000)
	b := asset.NewAmount(asset.USDC, 2_500_000)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Raw() != 4_000_000 {
		t.Errorf("expected 4000000, got %d", sum.Raw())
	}
}

func TestAmount_AddOverflow(t *testing.T) {
	a := asset.NewAmount(asset.USDC, math.MaxUint64)
	_, err := a.Add(asset.NewAmount(asset.USDC, 1))
	if apperror.GetCode(err) != apperror.CodeMathError {
		t.Errorf("expected MATH_ERROR, got %v", err)
	}
}

func TestAmount_CannotMixAssets(t *testing.T) {
	sol := asset.NewAmount(asset.SOL, 1)
	usdc := asset.NewAmount(asset.USDC, 1)

	if _, err := sol.Add(usdc); !errors.Is(err, asset.ErrAssetMismatch) {
		t.Errorf("expected ErrAssetMismatch, got %v", err)
	}
	if _, err := sol.Cmp(usdc); err == nil {
		t.Error("expected error comparing different assets")
	}
}

func TestAmount_Sub(t *testing.T) {
	three := asset.NewAmount(asset.SOL, 3)
	one := asset.NewAmount(asset.SOL, 1)

	diff, err := three.Sub(one)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff.Raw() != 2 {
		t.Errorf("expected 2, got %d", diff.Raw())
	}

	if _, err := one.Sub(three); apperror.GetCode(err) != apperror.CodeMathError {
		t.Errorf("expected MATH_ERROR on underflow, got %v", err)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		asset   *asset.Asset
		in      string
		want    uint64
		wantErr error
	}{
		{name: "whole_usdc", asset: asset.USDC, in: "125", want: 125_000_000},
		{name: "fractional_sol", asset: asset.SOL, in: "0.5", want: 500_000_000},
		{name: "too_many_decimals", asset: asset.USDC, in: "0.0000001", wantErr: asset.ErrTooManyDecimals},
		{name: "negative", asset: asset.USDC, in: "-1", wantErr: asset.ErrNegativeAmount},
		{name: "exceeds_u64", asset: asset.SOL, in: "100000000000", wantErr: asset.ErrAmountTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asset.ParseString(tt.asset, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Raw() != tt.want {
				t.Errorf("got %d, want %d", got.Raw(), tt.want)
			}
		})
	}
}

func TestAtomsToDecimal(t *testing.T) {
	got := asset.AtomsToDecimal(95_500_000, 6)
	if !got.Equal(decimal.RequireFromString("95.5")) {
		t.Errorf("expected 95.5, got %s", got)
	}
}
