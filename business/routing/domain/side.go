// Package domain holds the venue-independent routing model: books with
// optional best levels, the decision engine, order sizing and fill outcomes.
package domain

import (
	"fmt"
	"strings"
)

// Side is the direction the caller wants to trade.
type Side int

const (
	// Buy acquires base by spending quote; it takes asks.
	Buy Side = iota
	// Sell disposes of base for quote; it takes bids.
	Sell
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ParseSide parses "buy" or "sell", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy", "bid":
		return Buy, nil
	case "sell", "ask":
		return Sell, nil
	default:
		return 0, fmt.Errorf("domain: unknown side %q", s)
	}
}

// VenueID names an order-book venue.
type VenueID string

const (
	VenuePhoenix  VenueID = "phoenix"
	VenueOpenBook VenueID = "openbook"
)

// TimeInForce of a submitted order. The router only ever submits IOC.
type TimeInForce string

const ImmediateOrCancel TimeInForce = "ioc"
