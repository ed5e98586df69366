// Package solana reads accounts and token balances from a Solana JSON-RPC
// node. It implements the router's MarketReader and BalanceReader ports.
package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/smart-router/business/routing/app"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/circuitbreaker"
	"github.com/fd1az/smart-router/internal/httpclient"
	"github.com/fd1az/smart-router/internal/logger"
	"github.com/fd1az/smart-router/internal/ratelimit"
)

const (
	tracerName = "solana"
	meterName  = "solana"

	// maxAccountsPerRead is the node's getMultipleAccounts limit.
	maxAccountsPerRead = 100
)

var (
	_ app.MarketReader  = (*Client)(nil)
	_ app.BalanceReader = (*Client)(nil)
)

// Config configures a Client.
type Config struct {
	URL               string
	Commitment        string
	RequestsPerMinute int
	Timeout           time.Duration
}

type clientMetrics struct {
	callsTotal  metric.Int64Counter
	callLatency metric.Float64Histogram
	callErrors  metric.Int64Counter
}

// Client is a rate-limited, circuit-broken JSON-RPC client.
type Client struct {
	rpc        *rpc.Client
	commitment string
	limiter    *ratelimit.Limiter
	cb         *circuitbreaker.CircuitBreaker[json.RawMessage]

	logger  logger.LoggerInterface
	tracer  trace.Tracer
	metrics *clientMetrics
}

// Dial connects to the node at cfg.URL over an instrumented HTTP client.
func Dial(ctx context.Context, cfg Config, log logger.LoggerInterface) (*Client, error) {
	rc, err := DialRPC(ctx, cfg.URL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return New(rc, cfg, log)
}

// DialRPC opens a JSON-RPC connection whose HTTP transport is traced and
// counted.
func DialRPC(ctx context.Context, url string, timeout time.Duration) (*rpc.Client, error) {
	httpClient, err := httpclient.New(
		httpclient.WithProviderName("solana"),
		httpclient.WithRequestTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build http client: %w", err)
	}

	rc, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(httpClient))
	if err != nil {
		return nil, apperror.External(apperror.CodeRPCError, "dial "+url, err)
	}
	return rc, nil
}

// New wraps an open JSON-RPC connection. The caller keeps ownership of rc.
func New(rc *rpc.Client, cfg Config, log logger.LoggerInterface) (*Client, error) {
	limiter := ratelimit.Unlimited()
	if cfg.RequestsPerMinute > 0 {
		limiter = ratelimit.New(cfg.RequestsPerMinute)
	}

	commitment := cfg.Commitment
	if commitment == "" {
		commitment = "confirmed"
	}

	c := &Client{
		rpc:        rc,
		commitment: commitment,
		limiter:    limiter,
		cb:         circuitbreaker.New[json.RawMessage](circuitbreaker.DefaultConfig("solana-rpc")),
		logger:     log,
		tracer:     otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return c, nil
}

func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.callsTotal, err = meter.Int64Counter(
		"solana_rpc_calls_total",
		metric.WithDescription("Total JSON-RPC calls"),
	)
	if err != nil {
		return err
	}

	c.metrics.callLatency, err = meter.Float64Histogram(
		"solana_rpc_latency_ms",
		metric.WithDescription("JSON-RPC call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	c.metrics.callErrors, err = meter.Int64Counter(
		"solana_rpc_errors_total",
		metric.WithDescription("Total failed JSON-RPC calls"),
	)
	if err != nil {
		return err
	}

	return nil
}

func (c *Client) call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	ctx, span := c.tracer.Start(ctx, "solana."+method)
	defer span.End()

	if err := c.limiter.Wait(ctx); err != nil {
		span.SetStatus(codes.Error, "rate limited")
		return nil, err
	}

	attrs := metric.WithAttributes(attribute.String("method", method))
	start := time.Now()
	c.metrics.callsTotal.Add(ctx, 1, attrs)

	raw, err := c.cb.Execute(func() (json.RawMessage, error) {
		var raw json.RawMessage
		err := c.rpc.CallContext(ctx, &raw, method, args...)
		return raw, err
	})

	c.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		c.metrics.callErrors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if apperror.IsAppError(err) {
			return nil, err
		}
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return nil, apperror.External(apperror.CodeRPCError,
				fmt.Sprintf("%s: code %d", method, rpcErr.ErrorCode()), err)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.External(apperror.CodeServiceTimeout, method, err)
		}
		return nil, apperror.External(apperror.CodeRPCError, method, err)
	}

	span.SetStatus(codes.Ok, "")
	return raw, nil
}

type accountInfo struct {
	Data     []string `json:"data"`
	Owner    string   `json:"owner"`
	Lamports uint64   `json:"lamports"`
}

type multipleAccountsResult struct {
	Context struct {
		Slot uint64 `json:"slot"`
	} `json:"context"`
	Value []*accountInfo `json:"value"`
}

// ReadAccounts fetches keys with one getMultipleAccounts call, so every
// account comes from the same slot.
func (c *Client) ReadAccounts(ctx context.Context, keys []asset.Pubkey) ([][]byte, error) {
	if len(keys) > maxAccountsPerRead {
		return nil, apperror.Validation(apperror.CodeInvalidInput,
			fmt.Sprintf("%d accounts exceeds the %d account read limit", len(keys), maxAccountsPerRead))
	}

	encoded := make([]string, len(keys))
	for i, k := range keys {
		encoded[i] = k.String()
	}

	raw, err := c.call(ctx, "getMultipleAccounts", encoded, map[string]string{
		"encoding":   "base64",
		"commitment": c.commitment,
	})
	if err != nil {
		return nil, err
	}

	var res multipleAccountsResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, apperror.External(apperror.CodeRPCError, "getMultipleAccounts: malformed result", err)
	}
	if len(res.Value) != len(keys) {
		return nil, apperror.New(apperror.CodeRPCError,
			apperror.WithContextf("getMultipleAccounts returned %d accounts for %d keys", len(res.Value), len(keys)))
	}

	out := make([][]byte, len(keys))
	for i, info := range res.Value {
		if info == nil {
			return nil, apperror.New(apperror.CodeAccountNotFound, apperror.WithContext(keys[i].String()))
		}
		if len(info.Data) != 2 || info.Data[1] != "base64" {
			return nil, apperror.Decoding("account %s data is not base64 encoded", keys[i])
		}
		if out[i], err = base64.StdEncoding.DecodeString(info.Data[0]); err != nil {
			return nil, apperror.Decoding("account %s: %v", keys[i], err)
		}
	}

	c.logger.Debug(ctx, "accounts read", "count", len(keys), "slot", res.Context.Slot)
	return out, nil
}

// SPL token account layout: mint, owner, amount, delegate, state.
const (
	tokenAccountSize  = 165
	offTokenAmount    = 64
	offTokenState     = 108
	tokenStateUnknown = 0
)

// Balances returns the amount held by each token account. All accounts are
// read in one call, so the amounts come from the same slot.
func (c *Client) Balances(ctx context.Context, accounts []asset.Pubkey) ([]uint64, error) {
	data, err := c.ReadAccounts(ctx, accounts)
	if err != nil {
		return nil, err
	}

	out := make([]uint64, len(accounts))
	for i, d := range data {
		if out[i], err = tokenAmount(d); err != nil {
			return nil, apperror.Wrap(err, apperror.CodeDecodingError, accounts[i].String())
		}
	}
	return out, nil
}

func tokenAmount(data []byte) (uint64, error) {
	if len(data) < tokenAccountSize {
		return 0, apperror.Decoding("token account is %d bytes, want at least %d", len(data), tokenAccountSize)
	}
	if data[offTokenState] == tokenStateUnknown {
		return 0, apperror.Decoding("token account is not initialized")
	}
	return binary.LittleEndian.Uint64(data[offTokenAmount:]), nil
}
