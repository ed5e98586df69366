package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/internal/apperror"
	"github.com/fd1az/smart-router/internal/asset"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []submitOrder   `json:"params"`
}

func gatewayServer(t *testing.T, fail bool) (*httptest.Server, *[]rpcRequest, *int32) {
	t.Helper()
	var (
		calls int32
		got   []rpcRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		got = append(got, req)

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if fail {
			resp["error"] = map[string]any{"code": -32000, "message": "transaction simulation failed"}
		} else {
			resp["result"] = map[string]any{"signature": "5sig", "slot": 99}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &got, &calls
}

func testConfig(url string) Config {
	return Config{
		URL:          url,
		Timeout:      5 * time.Second,
		Owner:        asset.Pubkey{7},
		BaseAccount:  asset.Pubkey{8},
		QuoteAccount: asset.Pubkey{9},
	}
}

func TestInvoker_Invoke(t *testing.T) {
	srv, got, calls := gatewayServer(t, false)

	inv, err := Dial(context.Background(), testConfig(srv.URL), &mockLogger{})
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer inv.Close()

	order := domain.OrderRequest{
		ClientOrderID: "req-1",
		Venue:         domain.VenueOpenBook,
		Market:        asset.Pubkey{3},
		Side:          domain.Buy,
		TimeInForce:   domain.ImmediateOrCancel,
		LimitPrice:    15_000,
		BaseLots:      2_000,
		QuoteLots:     30_000_000,
		QuoteAtoms:    300_000_000,
	}
	if err := inv.Invoke(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if atomic.LoadInt32(calls) != 1 {
		t.Fatalf("expected one call, got %d", *calls)
	}
	req := (*got)[0]
	if req.Method != defaultMethod {
		t.Errorf("expected method %s, got %s", defaultMethod, req.Method)
	}
	if len(req.Params) != 1 {
		t.Fatalf("expected one param, got %d", len(req.Params))
	}
	p := req.Params[0]
	if p.ClientOrderID != "req-1" || p.Venue != "openbook" || p.Side != "buy" || p.TimeInForce != "ioc" {
		t.Errorf("unexpected order identity %+v", p)
	}
	if p.LimitPrice != "15000" || p.BaseLots != "2000" || p.QuoteLots != "30000000" || p.QuoteAtoms != "300000000" {
		t.Errorf("unexpected quantities %+v", p)
	}
	if p.Market != order.Market.String() || p.Owner != (asset.Pubkey{7}).String() {
		t.Errorf("unexpected accounts %+v", p)
	}
}

func TestInvoker_SellOmitsQuoteBudget(t *testing.T) {
	srv, got, _ := gatewayServer(t, false)

	cfg := testConfig(srv.URL)
	cfg.Method = "custom_submit"
	inv, err := Dial(context.Background(), cfg, &mockLogger{})
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer inv.Close()

	if err := inv.Invoke(context.Background(), domain.OrderRequest{Side: domain.Sell, BaseLots: 5, QuoteLots: 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := (*got)[0]
	if req.Method != "custom_submit" {
		t.Errorf("expected configured method, got %s", req.Method)
	}
	if req.Params[0].QuoteLots != "" || req.Params[0].QuoteAtoms != "" {
		t.Errorf("sell must not carry a quote budget: %+v", req.Params[0])
	}
}

func TestInvoker_FailureIsNotRetried(t *testing.T) {
	srv, _, calls := gatewayServer(t, true)

	inv, err := Dial(context.Background(), testConfig(srv.URL), &mockLogger{})
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	defer inv.Close()

	err = inv.Invoke(context.Background(), domain.OrderRequest{Side: domain.Buy, BaseLots: 1})
	if !apperror.HasCode(err, apperror.CodeVenueInvocationFailed) {
		t.Fatalf("expected VENUE_INVOCATION_FAILED, got %v", err)
	}
	if atomic.LoadInt32(calls) != 1 {
		t.Errorf("expected exactly one call, got %d", *calls)
	}
}
