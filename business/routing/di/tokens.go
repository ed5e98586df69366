// Package di contains dependency injection tokens for the routing context.
package di

import (
	"github.com/redis/go-redis/v9"

	"github.com/fd1az/smart-router/business/routing/app"
	"github.com/fd1az/smart-router/business/routing/infra/gateway"
	"github.com/fd1az/smart-router/business/routing/infra/solana"
	"github.com/fd1az/smart-router/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Router = di.NewToken[*app.Router]("routing.Router")
)

// Private dependency tokens - internal to routing module
var (
	Venues  = di.NewToken[[]app.Venue]("routing:venues")
	Chain   = di.NewToken[*solana.Client]("routing:chain")
	Invoker = di.NewToken[*gateway.Invoker]("routing:invoker")
	Sink    = di.NewToken[app.Sink]("routing:sink")
	// Redis is nil when no stream is configured.
	Redis = di.NewToken[*redis.Client]("routing:redis")
)

// Helper functions for type-safe access
func GetRouter(c di.ServiceRegistry) *app.Router {
	return di.GetToken(c, Router)
}

func GetVenues(c di.ServiceRegistry) []app.Venue {
	return di.GetToken(c, Venues)
}

func GetChain(c di.ServiceRegistry) *solana.Client {
	return di.GetToken(c, Chain)
}

func GetInvoker(c di.ServiceRegistry) *gateway.Invoker {
	return di.GetToken(c, Invoker)
}

func GetSink(c di.ServiceRegistry) app.Sink {
	return di.GetToken(c, Sink)
}

func GetRedis(c di.ServiceRegistry) *redis.Client {
	return di.GetToken(c, Redis)
}
