// Package sink writes the router's diagnostic records: one price snapshot
// and one fill or no-fill result per request, each a flat list of
// key/value fields.
package sink

import (
	"context"
	"errors"
	"strconv"

	"github.com/fd1az/smart-router/business/routing/app"
	"github.com/fd1az/smart-router/business/routing/domain"
)

// Record kinds.
const (
	KindPrices = "prices"
	KindFill   = "fill"
	KindNoFill = "nofill"
)

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value string
}

// Record is a flat diagnostic record.
type Record struct {
	Kind   string
	Fields []Field
}

// Get returns the value of key, or "" when absent.
func (r Record) Get(key string) string {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Map returns the fields keyed by name, with the kind under "kind".
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields)+1)
	m["kind"] = r.Kind
	for _, f := range r.Fields {
		m[f.Key] = f.Value
	}
	return m
}

func u64(v uint64) string { return strconv.FormatUint(v, 10) }

func levelValue(l *domain.Level) string {
	if l == nil {
		return "none"
	}
	return u64(uint64(l.Price))
}

// PricesRecord flattens a snapshot to {venue}_ask / {venue}_bid fields.
// An empty side is "none", never zero.
func PricesRecord(snap app.PriceSnapshot) Record {
	r := Record{Kind: KindPrices, Fields: []Field{
		{"request_id", snap.RequestID},
		{"side", snap.Side.String()},
	}}
	for _, b := range snap.Books {
		r.Fields = append(r.Fields,
			Field{string(b.Venue) + "_ask", levelValue(b.BestAsk)},
			Field{string(b.Venue) + "_bid", levelValue(b.BestBid)},
		)
	}
	return r
}

// FillRecord reports amount (base atoms), the quote atoms spent on a buy
// ("spend") or received on a sell ("proceeds"), and the realized price.
func FillRecord(out domain.Outcome) Record {
	quoteKey := "spend"
	if out.Side == domain.Sell {
		quoteKey = "proceeds"
	}
	return Record{Kind: KindFill, Fields: []Field{
		{"request_id", out.RequestID},
		{"venue", string(out.Venue)},
		{"side", out.Side.String()},
		{"amount", u64(out.BaseAmount)},
		{quoteKey, u64(out.QuoteAmount)},
		{"price", u64(uint64(out.Price))},
	}}
}

// NoFillRecord reports an order that executed nothing. reason tells an
// invoked order that found no liquidity from one below one lot that was
// never sent.
func NoFillRecord(out domain.Outcome) Record {
	reason := "no_liquidity"
	if out.Skipped {
		reason = "below_one_lot"
	}
	return Record{Kind: KindNoFill, Fields: []Field{
		{"request_id", out.RequestID},
		{"venue", string(out.Venue)},
		{"side", out.Side.String()},
		{"result", "fail"},
		{"reason", reason},
	}}
}

// Writer receives finished records.
type Writer interface {
	Write(ctx context.Context, r Record) error
}

// Sink adapts Writers to app.Sink. Every writer sees every record; their
// errors are joined.
type Sink struct {
	writers []Writer
}

var _ app.Sink = (*Sink)(nil)

// New returns a Sink fanning out to writers.
func New(writers ...Writer) *Sink {
	return &Sink{writers: writers}
}

func (s *Sink) write(ctx context.Context, r Record) error {
	var errs []error
	for _, w := range s.writers {
		if err := w.Write(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Sink) RecordPrices(ctx context.Context, snap app.PriceSnapshot) error {
	return s.write(ctx, PricesRecord(snap))
}

func (s *Sink) RecordFill(ctx context.Context, out domain.Outcome) error {
	return s.write(ctx, FillRecord(out))
}

func (s *Sink) RecordNoFill(ctx context.Context, out domain.Outcome) error {
	return s.write(ctx, NoFillRecord(out))
}
