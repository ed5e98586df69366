// Package gateway submits routed orders to the signing and execution
// gateway over JSON-RPC. The gateway builds, signs and sends the venue
// transaction; the call returns once the transaction settled or failed.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/smart-router/business/routing/app"
	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/circuitbreaker"
	"github.com/fd1az/smart-router/internal/httpclient"
	"github.com/fd1az/smart-router/internal/logger"
)

const (
	tracerName    = "gateway"
	defaultMethod = "router_submitOrder"
)

var _ app.VenueInvoker = (*Invoker)(nil)

// Config configures an Invoker.
type Config struct {
	URL     string
	Method  string
	Timeout time.Duration
	// Owner signs and pays for the order.
	Owner        asset.Pubkey
	BaseAccount  asset.Pubkey
	QuoteAccount asset.Pubkey
}

// submitOrder is the gateway's order payload. Integer quantities travel as
// decimal strings so no JSON number precision is lost.
type submitOrder struct {
	ClientOrderID string `json:"client_order_id"`
	Venue         string `json:"venue"`
	Market        string `json:"market"`
	Side          string `json:"side"`
	TimeInForce   string `json:"time_in_force"`
	LimitPrice    string `json:"limit_price"`
	BaseLots      string `json:"base_lots"`
	QuoteLots     string `json:"quote_lots,omitempty"`
	QuoteAtoms    string `json:"quote_atoms,omitempty"`
	Owner         string `json:"owner"`
	BaseAccount   string `json:"base_account"`
	QuoteAccount  string `json:"quote_account"`
}

type submitResult struct {
	Signature string `json:"signature"`
	Slot      uint64 `json:"slot"`
}

// Invoker implements app.VenueInvoker.
type Invoker struct {
	rpc    *rpc.Client
	method string
	cfg    Config
	cb     *circuitbreaker.CircuitBreaker[submitResult]
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// Dial connects to the gateway.
func Dial(ctx context.Context, cfg Config, log logger.LoggerInterface) (*Invoker, error) {
	httpClient, err := httpclient.New(
		httpclient.WithProviderName("gateway"),
		httpclient.WithRequestTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build http client: %w", err)
	}

	rc, err := rpc.DialOptions(ctx, cfg.URL, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, apperror.External(apperror.CodeVenueInvocationFailed, "dial "+cfg.URL, err)
	}

	method := cfg.Method
	if method == "" {
		method = defaultMethod
	}

	return &Invoker{
		rpc:    rc,
		method: method,
		cfg:    cfg,
		cb:     circuitbreaker.New[submitResult](circuitbreaker.DefaultConfig("gateway")),
		logger: log,
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Close releases the underlying connection.
func (i *Invoker) Close() {
	i.rpc.Close()
}

func (i *Invoker) payload(o domain.OrderRequest) submitOrder {
	p := submitOrder{
		ClientOrderID: o.ClientOrderID,
		Venue:         string(o.Venue),
		Market:        o.Market.String(),
		Side:          o.Side.String(),
		TimeInForce:   string(o.TimeInForce),
		LimitPrice:    strconv.FormatUint(o.LimitPrice, 10),
		BaseLots:      strconv.FormatUint(o.BaseLots, 10),
		Owner:         i.cfg.Owner.String(),
		BaseAccount:   i.cfg.BaseAccount.String(),
		QuoteAccount:  i.cfg.QuoteAccount.String(),
	}
	if o.Side == domain.Buy {
		p.QuoteLots = strconv.FormatUint(o.QuoteLots, 10)
		p.QuoteAtoms = strconv.FormatUint(o.QuoteAtoms, 10)
	}
	return p
}

// Invoke submits the order once. There is no retry: a failed call may
// still have reached the venue, and the gateway guarantees that a failed
// transaction left no effects.
func (i *Invoker) Invoke(ctx context.Context, order domain.OrderRequest) error {
	ctx, span := i.tracer.Start(ctx, "gateway.invoke",
		trace.WithAttributes(
			attribute.String("client_order_id", order.ClientOrderID),
			attribute.String("venue", string(order.Venue)),
			attribute.String("side", order.Side.String()),
		),
	)
	defer span.End()

	res, err := i.cb.Execute(func() (submitResult, error) {
		var raw json.RawMessage
		if err := i.rpc.CallContext(ctx, &raw, i.method, i.payload(order)); err != nil {
			return submitResult{}, err
		}
		var res submitResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return submitResult{}, fmt.Errorf("malformed gateway result: %w", err)
		}
		return res, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apperror.Wrap(err, apperror.CodeVenueInvocationFailed, i.method)
	}

	span.SetAttributes(attribute.String("signature", res.Signature))
	span.SetStatus(codes.Ok, "submitted")
	i.logger.Info(ctx, "order submitted",
		"client_order_id", order.ClientOrderID,
		"venue", string(order.Venue),
		"signature", res.Signature,
		"slot", res.Slot,
	)
	return nil
}
