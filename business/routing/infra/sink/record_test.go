package sink

import (
	"context"
	"errors"
	"testing"

	"github.com/fd1az/smart-router/business/routing/app"
	"github.com/fd1az/smart-router/business/routing/domain"
)

type captureWriter struct {
	records []Record
	err     error
}

func (w *captureWriter) Write(ctx context.Context, r Record) error {
	w.records = append(w.records, r)
	return w.err
}

func snapshot() app.PriceSnapshot {
	return app.PriceSnapshot{
		RequestID: "req-1",
		Side:      domain.Buy,
		Books: []domain.Book{
			{
				Venue:   domain.VenuePhoenix,
				BestBid: &domain.Level{Price: 149_000_000},
				BestAsk: &domain.Level{Price: 150_000_000},
			},
			{
				Venue:   domain.VenueOpenBook,
				BestAsk: &domain.Level{Price: 0},
			},
		},
	}
}

func TestPricesRecord(t *testing.T) {
	r := PricesRecord(snapshot())

	want := map[string]string{
		"request_id":   "req-1",
		"side":         "buy",
		"phoenix_ask":  "150000000",
		"phoenix_bid":  "149000000",
		"openbook_ask": "0",
		"openbook_bid": "none",
	}
	if r.Kind != KindPrices {
		t.Errorf("expected kind %s, got %s", KindPrices, r.Kind)
	}
	for k, v := range want {
		if got := r.Get(k); got != v {
			t.Errorf("%s: expected %q, got %q", k, v, got)
		}
	}
}

func TestFillRecords(t *testing.T) {
	out := domain.Outcome{
		RequestID:   "req-2",
		Venue:       domain.VenueOpenBook,
		Side:        domain.Buy,
		Filled:      true,
		BaseAmount:  2_000_000_000,
		QuoteAmount: 300_000_000,
		Price:       150_000_000,
	}

	fill := FillRecord(out)
	if fill.Get("amount") != "2000000000" || fill.Get("spend") != "300000000" || fill.Get("price") != "150000000" {
		t.Errorf("unexpected fill record %+v", fill)
	}

	noFill := NoFillRecord(out)
	if noFill.Kind != KindNoFill || noFill.Get("result") != "fail" || noFill.Get("side") != "buy" {
		t.Errorf("unexpected nofill record %+v", noFill)
	}
	if noFill.Get("reason") != "no_liquidity" {
		t.Errorf("expected no_liquidity reason, got %q", noFill.Get("reason"))
	}

	out.Skipped = true
	if got := NoFillRecord(out).Get("reason"); got != "below_one_lot" {
		t.Errorf("expected below_one_lot reason, got %q", got)
	}

	m := fill.Map()
	if m["kind"] != KindFill || m["venue"] != "openbook" {
		t.Errorf("unexpected map %v", m)
	}
}

func TestFillRecord_SellReportsProceeds(t *testing.T) {
	out := domain.Outcome{
		Venue:       domain.VenuePhoenix,
		Side:        domain.Sell,
		Filled:      true,
		BaseAmount:  500_000_000,
		QuoteAmount: 75_000_000,
		Price:       150_000_000,
	}

	r := FillRecord(out)
	if r.Get("proceeds") != "75000000" {
		t.Errorf("expected proceeds 75000000, got %q", r.Get("proceeds"))
	}
	if r.Get("spend") != "" {
		t.Errorf("sell must not report spend, got %q", r.Get("spend"))
	}
}

func TestSink_FansOutAndJoinsErrors(t *testing.T) {
	ok := &captureWriter{}
	bad := &captureWriter{err: errors.New("down")}
	s := New(bad, ok)

	err := s.RecordPrices(context.Background(), snapshot())
	if err == nil {
		t.Fatal("expected joined error")
	}
	if len(ok.records) != 1 || len(bad.records) != 1 {
		t.Errorf("every writer must see the record: %d/%d", len(ok.records), len(bad.records))
	}

	if err := New(ok).RecordFill(context.Background(), domain.Outcome{Filled: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := New(ok).RecordNoFill(context.Background(), domain.Outcome{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok.records[1].Kind != KindFill || ok.records[2].Kind != KindNoFill {
		t.Errorf("unexpected kinds %s/%s", ok.records[1].Kind, ok.records[2].Kind)
	}
}
