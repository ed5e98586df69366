package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apm"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/logger"
)

const (
	tracerName = "router"
	meterName  = "router"
)

// Request is one routing intent. Amount is quote atoms to spend for a buy
// and base atoms to sell for a sell.
type Request struct {
	Side   domain.Side
	Amount uint64
}

// Config holds the trader accounts and asset scaling.
type Config struct {
	BaseAccount  asset.Pubkey
	QuoteAccount asset.Pubkey
	// BaseUnit is base atoms per whole base token.
	BaseUnit uint64
}

type routerMetrics struct {
	requests metric.Int64Counter
	failures metric.Int64Counter
	noFills  metric.Int64Counter
	latency  metric.Float64Histogram
}

// Router runs one routing request end to end: read, decode, decide, size,
// invoke once, measure.
type Router struct {
	venues   []Venue
	engine   domain.Engine
	markets  MarketReader
	balances BalanceReader
	invoker  VenueInvoker
	sink     Sink
	cfg      Config

	logger  logger.LoggerInterface
	tracer  apm.Tracer
	metrics *routerMetrics
	newID   func() string
}

// NewRouter creates a Router over venues.
func NewRouter(
	venues []Venue,
	engine domain.Engine,
	markets MarketReader,
	balances BalanceReader,
	invoker VenueInvoker,
	sink Sink,
	cfg Config,
	log logger.LoggerInterface,
) (*Router, error) {
	if len(venues) == 0 {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "router needs at least one venue")
	}
	if cfg.BaseUnit == 0 {
		return nil, apperror.Validation(apperror.CodeConfigurationError, "base unit is zero")
	}

	r := &Router{
		venues:   venues,
		engine:   engine,
		markets:  markets,
		balances: balances,
		invoker:  invoker,
		sink:     sink,
		cfg:      cfg,
		logger:   log,
		tracer:   apm.NewTracer(tracerName),
		newID:    uuid.NewString,
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *Router) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &routerMetrics{}

	r.metrics.requests, err = meter.Int64Counter(
		"router_requests_total",
		metric.WithDescription("Total routing requests"),
	)
	if err != nil {
		return err
	}

	r.metrics.failures, err = meter.Int64Counter(
		"router_failures_total",
		metric.WithDescription("Routing requests that failed, by error code"),
	)
	if err != nil {
		return err
	}

	r.metrics.noFills, err = meter.Int64Counter(
		"router_no_fills_total",
		metric.WithDescription("Routed orders that executed nothing"),
	)
	if err != nil {
		return err
	}

	r.metrics.latency, err = meter.Float64Histogram(
		"router_request_latency_ms",
		metric.WithDescription("Routing request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Route executes req. A NoFill outcome is returned with a nil error.
func (r *Router) Route(ctx context.Context, req Request) (*domain.Outcome, error) {
	requestID := r.newID()

	ctx, span := r.tracer.StartSpanFromContext(ctx, "router.route",
		trace.WithAttributes(
			attribute.String("request_id", requestID),
			attribute.String("side", req.Side.String()),
			attribute.String("amount", strconv.FormatUint(req.Amount, 10)),
		),
	)
	defer span.End()

	start := time.Now()
	r.metrics.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("side", req.Side.String())))

	out, err := r.route(ctx, requestID, req, span)

	r.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()))

	if err != nil {
		code := apperror.GetCode(err)
		span.NoticeError(err)
		r.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("code", string(code))))
		r.logger.Error(ctx, "route failed",
			"request_id", requestID,
			"side", req.Side.String(),
			"code", string(code),
			"retryable", apperror.IsRetryable(err),
			"error", err,
		)
		return nil, err
	}

	if out.Filled {
		span.Ok("filled")
	} else {
		r.metrics.noFills.Add(ctx, 1)
		span.Ok("no fill")
	}
	return out, nil
}

func (r *Router) route(ctx context.Context, requestID string, req Request, span apm.Span) (*domain.Outcome, error) {
	if req.Amount == 0 {
		return nil, apperror.Validation(apperror.CodeAmountIsZero, "requested amount is zero")
	}

	// Books and starting balances are independent reads.
	var (
		books  []domain.Book
		before domain.Balances
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = r.readBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		before, err = r.readBalances(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.record(ctx, "prices", r.sink.RecordPrices(ctx, PriceSnapshot{RequestID: requestID, Side: req.Side, Books: books}))

	decision, err := r.engine.Decide(req.Side, books...)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("venue", string(decision.Venue)),
		attribute.String("price", strconv.FormatUint(uint64(decision.Price), 10)),
	)

	order, err := domain.Size(decision, req.Amount, r.cfg.BaseUnit)
	if err != nil {
		return nil, err
	}
	order.ClientOrderID = requestID

	r.logger.Info(ctx, "route decided",
		"request_id", requestID,
		"side", req.Side.String(),
		"venue", string(decision.Venue),
		"price", uint64(decision.Price),
		"limit", order.LimitPrice,
		"base_lots", order.BaseLots,
		"quote_lots", order.QuoteLots,
	)

	if order.Empty() {
		out := domain.NoFill(decision.Venue, req.Side, before, before)
		out.RequestID = requestID
		out.Skipped = true
		r.logger.Info(ctx, "order rounds to zero lots, not invoking", "request_id", requestID)
		r.record(ctx, "nofill", r.sink.RecordNoFill(ctx, out))
		return &out, nil
	}

	if err := checkFunds(req, before); err != nil {
		return nil, err
	}

	span.AddEvent("invoke", attribute.String("venue", string(order.Venue)))
	if err := r.invoker.Invoke(ctx, order); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeVenueInvocationFailed,
			fmt.Sprintf("%s %s invocation", order.Venue, order.Side))
	}

	after, err := r.readBalances(ctx)
	if err != nil {
		return nil, err
	}

	out, err := domain.ComputeOutcome(decision.Venue, req.Side, r.cfg.BaseUnit, before, after)
	if err != nil {
		return nil, err
	}
	out.RequestID = requestID

	if out.Filled {
		r.logger.Info(ctx, "order filled",
			"request_id", requestID,
			"venue", string(out.Venue),
			"amount", out.BaseAmount,
			"spend", out.QuoteAmount,
			"price", uint64(out.Price),
		)
		r.record(ctx, "fill", r.sink.RecordFill(ctx, out))
	} else {
		r.logger.Info(ctx, "order did not fill", "request_id", requestID, "venue", string(out.Venue))
		r.record(ctx, "nofill", r.sink.RecordNoFill(ctx, out))
	}

	return &out, nil
}

// readBooks fetches every venue's accounts in one read and decodes them.
func (r *Router) readBooks(ctx context.Context) ([]domain.Book, error) {
	var keys []asset.Pubkey
	for _, v := range r.venues {
		keys = append(keys, v.Accounts()...)
	}

	data, err := r.markets.ReadAccounts(ctx, keys)
	if err != nil {
		return nil, err
	}
	if len(data) != len(keys) {
		return nil, apperror.Decoding("read %d accounts, asked for %d", len(data), len(keys))
	}

	books := make([]domain.Book, 0, len(r.venues))
	offset := 0
	for _, v := range r.venues {
		n := len(v.Accounts())
		book, err := v.Decode(data[offset : offset+n])
		if err != nil {
			return nil, apperror.Wrap(err, apperror.CodeDecodingError, string(v.ID()))
		}
		offset += n
		books = append(books, book)
	}

	return books, nil
}

// readBalances reads both token accounts from one snapshot.
func (r *Router) readBalances(ctx context.Context) (domain.Balances, error) {
	amounts, err := r.balances.Balances(ctx, []asset.Pubkey{r.cfg.BaseAccount, r.cfg.QuoteAccount})
	if err != nil {
		return domain.Balances{}, err
	}
	if len(amounts) != 2 {
		return domain.Balances{}, apperror.Decoding("read %d balances, asked for 2", len(amounts))
	}
	return domain.Balances{Base: amounts[0], Quote: amounts[1]}, nil
}

func checkFunds(req Request, b domain.Balances) error {
	held, what := b.Quote, "quote"
	if req.Side == domain.Sell {
		held, what = b.Base, "base"
	}
	if held < req.Amount {
		return apperror.New(apperror.CodeInsufficientBalance,
			apperror.WithContextf("%s balance %d below requested %d", what, held, req.Amount))
	}
	return nil
}

// record logs a sink failure. Sinks are diagnostic and never fail a request.
func (r *Router) record(ctx context.Context, kind string, err error) {
	if err != nil {
		r.logger.Warn(ctx, "sink write failed", "record", kind, "error", err)
	}
}
