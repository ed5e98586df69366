package metrics

import "strings"

type Provider string

const (
	PrometheusProvider Provider = "prometheus"
	OtelCollector      Provider = "customOtelCollector"
	InsecureOtel                = false
	SecureOtel                  = true
)

func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Provider: OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

type Config struct {
	ServiceName string
	Provider    []ProviderCfg
}

type ProviderCfg struct {
	Provider Provider
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

type OptionFn func(config Config) Config

func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Provider = append(config.Provider, provider)

		return config
	}
}

type PromServerConfig struct {
	port string
}

type PromOptionFn func(config PromServerConfig) PromServerConfig

func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}

func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName

		return config
	}
}

// WithCollectorFor adds an OTLP collector when provider names an OTLP
// trace provider ("otlp-grpc" or "otlp-http") and endpoint is set. Metrics
// always leave over gRPC; a plain http:// endpoint is dialed insecure.
func WithCollectorFor(provider, endpoint string, headers map[string]string) OptionFn {
	return func(config Config) Config {
		if endpoint == "" || !strings.HasPrefix(strings.ToLower(provider), "otlp") {
			return config
		}
		insecure := strings.HasPrefix(endpoint, "http://")
		config.Provider = append(config.Provider, NewOtelCollectorConfig(endpoint, headers, insecure))
		return config
	}
}
