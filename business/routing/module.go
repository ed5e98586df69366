// Package routing implements the smart order router bounded context.
package routing

import (
	"context"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/redis/go-redis/v9"

	"github.com/fd1az/smart-router/business/routing/app"
	routingDI "github.com/fd1az/smart-router/business/routing/di"
	"github.com/fd1az/smart-router/business/routing/domain"
	"github.com/fd1az/smart-router/business/routing/infra/gateway"
	"github.com/fd1az/smart-router/business/routing/infra/openbook"
	"github.com/fd1az/smart-router/business/routing/infra/phoenix"
	"github.com/fd1az/smart-router/business/routing/infra/sink"
	"github.com/fd1az/smart-router/business/routing/infra/solana"
	"github.com/fd1az/smart-router/internal/config"
	"github.com/fd1az/smart-router/internal/di"
	"github.com/fd1az/smart-router/internal/logger"
	"github.com/fd1az/smart-router/internal/monolith"
)

const redisDialTimeout = 5 * time.Second

// Module implements the routing bounded context.
type Module struct{}

// RegisterServices registers all routing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Venues in decision order; ties go to router.default_venue regardless.
	di.RegisterToken(c, routingDI.Venues, func(sr di.ServiceRegistry) []app.Venue {
		cfg := sr.Get("config").(*config.Config)
		return []app.Venue{
			phoenix.NewVenue(cfg.Phoenix.MarketKey()),
			openbook.NewVenue(
				cfg.OpenBook.MarketKey(),
				cfg.OpenBook.BidsKey(),
				cfg.OpenBook.AsksKey(),
				cfg.Assets.Base.Asset().Unit(),
			),
		}
	})

	// Account and balance reads share the node connection
	di.RegisterToken(c, routingDI.Chain, func(sr di.ServiceRegistry) *solana.Client {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		rc := sr.Get("rpcClient").(*rpc.Client)

		client, err := solana.New(rc, solana.Config{
			URL:               cfg.Solana.RPCURL,
			Commitment:        cfg.Solana.Commitment,
			RequestsPerMinute: cfg.Solana.RequestsPerMinute,
			Timeout:           cfg.Solana.Timeout,
		}, log)
		if err != nil {
			panic("failed to create solana client: " + err.Error())
		}
		return client
	})

	di.RegisterToken(c, routingDI.Invoker, func(sr di.ServiceRegistry) *gateway.Invoker {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		inv, err := gateway.Dial(context.Background(), gateway.Config{
			URL:          cfg.Gateway.URL,
			Method:       cfg.Gateway.Method,
			Timeout:      cfg.Gateway.Timeout,
			Owner:        cfg.Router.OwnerKey(),
			BaseAccount:  cfg.Router.BaseAccountKey(),
			QuoteAccount: cfg.Router.QuoteAccountKey(),
		}, log)
		if err != nil {
			panic("failed to create gateway invoker: " + err.Error())
		}
		return inv
	})

	// Redis is optional: an unreachable stream disables it, it never blocks routing
	di.RegisterToken(c, routingDI.Redis, func(sr di.ServiceRegistry) *redis.Client {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		if cfg.Sink.RedisURL == "" {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		defer cancel()

		rdb, err := sink.DialRedis(ctx, cfg.Sink.RedisURL)
		if err != nil {
			log.Warn(ctx, "redis sink disabled", "error", err)
			return nil
		}
		return rdb
	})

	di.RegisterToken(c, routingDI.Sink, func(sr di.ServiceRegistry) app.Sink {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		writers := []sink.Writer{sink.NewLogWriter(log)}
		if cfg.Sink.Console {
			writers = append(writers, sink.NewConsoleWriter(os.Stdout, cfg.Assets.Base.Asset(), cfg.Assets.Quote.Asset()))
		}
		if rdb := routingDI.GetRedis(sr); rdb != nil {
			writers = append(writers, sink.NewRedisWriter(rdb, cfg.Sink.RedisStream))
		}
		return sink.New(writers...)
	})

	// Register Router (public - exposed to the entry point)
	di.RegisterToken(c, routingDI.Router, func(sr di.ServiceRegistry) *app.Router {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		chain := routingDI.GetChain(sr)

		router, err := app.NewRouter(
			routingDI.GetVenues(sr),
			domain.NewEngine(domain.VenueID(cfg.Router.DefaultVenue), cfg.Router.RequireTwoSided),
			chain,
			chain,
			routingDI.GetInvoker(sr),
			routingDI.GetSink(sr),
			app.Config{
				BaseAccount:  cfg.Router.BaseAccountKey(),
				QuoteAccount: cfg.Router.QuoteAccountKey(),
				BaseUnit:     cfg.Assets.Base.Asset().Unit(),
			},
			log,
		)
		if err != nil {
			panic("failed to create router: " + err.Error())
		}
		return router
	})

	return nil
}

// Startup resolves the router so wiring errors surface before a request is
// accepted, and releases connections when ctx ends.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()
	cfg := mono.Config()

	_ = routingDI.GetRouter(mono.Services())

	inv := routingDI.GetInvoker(mono.Services())
	rdb := routingDI.GetRedis(mono.Services())
	go func() {
		<-ctx.Done()
		inv.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}()

	log.Info(ctx, "routing module started",
		"phoenix_market", cfg.Phoenix.Market,
		"openbook_market", cfg.OpenBook.Market,
		"default_venue", cfg.Router.DefaultVenue,
		"require_two_sided", cfg.Router.RequireTwoSided,
		"redis_sink", rdb != nil,
	)
	return nil
}
