package routing

import (
	"context"
	"testing"
	"time"

	routingDI "github.com/fd1az/smart-router/business/routing/di"
	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/business/routing/infra/solana"
	"github.com/fd1az/smart-router/internal/asset"
	"github.com/fd1az/smart-router/internal/config"
	"github.com/fd1az/smart-router/internal/di"
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

func testConfig() *config.Config {
	return &config.Config{
		Solana:  config.SolanaConfig{RPCURL: "http://127.0.0.1:8899", Commitment: "confirmed", Timeout: time.Second},
		Gateway: config.GatewayConfig{URL: "http://127.0.0.1:9000", Timeout: time.Second},
		Router: config.RouterConfig{
			DefaultVenue: config.VenueOpenBook,
			Owner:        "PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY",
			BaseAccount:  "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL",
			QuoteAccount: "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr",
		},
		Assets: config.AssetsConfig{
			Base:  config.AssetConfig{Symbol: "SOL", Mint: asset.MintWrappedSOL, Decimals: 9},
			Quote: config.AssetConfig{Symbol: "USDC", Mint: asset.MintUSDC, Decimals: 6},
		},
		Phoenix: config.PhoenixConfig{Market: "4DoNfFBfF7UokCC2FQzriy7yHK6DY6NVdYpuekQ5pRgg"},
		OpenBook: config.OpenBookConfig{
			Market: "8BnEgHoWFysVcuFFX7QztDmzuH8r5ZDvHr9EbV5AsqyT",
			Bids:   "SysvarRent111111111111111111111111111111111",
			Asks:   "Stake11111111111111111111111111111111111111",
		},
	}
}

func TestModule_RegisterServices(t *testing.T) {
	cfg := testConfig()

	rc, err := solana.DialRPC(context.Background(), cfg.Solana.RPCURL, cfg.Solana.Timeout)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(rc.Close)

	c := di.NewContainer()
	c.Register("config", cfg)
	c.Register("logger", &mockLogger{})
	c.Register("rpcClient", rc)

	m := &Module{}
	if err := m.RegisterServices(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	venues := routingDI.GetVenues(c)
	if len(venues) != 2 {
		t.Fatalf("expected two venues, got %d", len(venues))
	}
	if venues[0].ID() != domain.VenuePhoenix || venues[1].ID() != domain.VenueOpenBook {
		t.Errorf("unexpected venue order %s, %s", venues[0].ID(), venues[1].ID())
	}

	accounts := venues[1].Accounts()
	if len(accounts) != 3 || accounts[0] != cfg.OpenBook.MarketKey() || accounts[2] != cfg.OpenBook.AsksKey() {
		t.Errorf("unexpected openbook accounts %v", accounts)
	}

	if routingDI.GetRedis(c) != nil {
		t.Error("expected no redis client without sink.redis_url")
	}
	if routingDI.GetRouter(c) == nil {
		t.Fatal("expected a router")
	}
	if routingDI.GetChain(c) != routingDI.GetChain(c) {
		t.Error("expected one shared chain client")
	}
	routingDI.GetInvoker(c).Close()
}
