// Command ayamcpd serves the Aya wallet tool catalog over stdio. Stdout
// carries the JSON-RPC stream, so all logging goes to stderr or files.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imaad666/Aya-Wallet-MCP/internal/aggregator"
	"github.com/imaad666/Aya-Wallet-MCP/internal/audit"
	"github.com/imaad666/Aya-Wallet-MCP/internal/config"
	"github.com/imaad666/Aya-Wallet-MCP/internal/dex"
	"github.com/imaad666/Aya-Wallet-MCP/internal/events"
	"github.com/imaad666/Aya-Wallet-MCP/internal/hedera"
	"github.com/imaad666/Aya-Wallet-MCP/internal/mcp"
	"github.com/imaad666/Aya-Wallet-MCP/internal/observability/metrics"
	"github.com/imaad666/Aya-Wallet-MCP/internal/tool"
	"github.com/imaad666/Aya-Wallet-MCP/pkg/logger"
)

const (
	serverName    = "aya-wallet-mcp"
	serverVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "ayamcpd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Audit: logger.AuditConfig{
			Enabled:    cfg.Log.AuditLogPath != "",
			Path:       cfg.Log.AuditLogPath,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
	}); err != nil {
		return fmt.Errorf("initialise logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.L()

	networks, err := config.LoadNetworkDefinitions(cfg.Networks)
	if err != nil {
		return err
	}
	endpoints, err := networks.Lookup(cfg.Network)
	if err != nil {
		return err
	}

	ledger, err := hedera.NewClient(hedera.Config{
		Network:            cfg.Network,
		OperatorAccountID:  cfg.Operator.AccountID,
		OperatorPrivateKey: cfg.Operator.PrivateKey,
	})
	if err != nil {
		return fmt.Errorf("connect to hedera %s: %w", cfg.Network, err)
	}
	defer func() { _ = ledger.Close() }()
	log.Info("hedera client ready",
		slog.String("network", cfg.Network),
		slog.String("operator", ledger.OperatorID()))

	relay, err := dex.DialRelay(ctx, endpoints.JSONRPCURL)
	if err != nil {
		return fmt.Errorf("connect to json-rpc relay: %w", err)
	}
	defer relay.Close()

	tokens := dex.RegistryForNetwork(cfg.Network)
	saucerswap, err := dex.NewSaucerSwapSource(relay, cfg.SaucerSwap.RouterContract, tokens)
	if err != nil {
		return fmt.Errorf("configure saucerswap source: %w", err)
	}

	quoter, closeCache, err := buildQuoter(cfg, saucerswap)
	if err != nil {
		return err
	}
	defer closeCache()

	router := dex.NewRouter(ledger, quoter, cfg.SaucerSwap.RouterContract, tokens)

	// Best-rate comparison leans on the public API when one is configured;
	// swap quoting and execution always go through the chain.
	saucerLeg := quoter
	if cfg.SaucerSwap.APIBaseURL != "" {
		saucerLeg = dex.NewRESTSource("saucerswap", cfg.SaucerSwap.APIBaseURL)
	}
	rates := aggregator.New(saucerLeg, dex.NewHeliSwapSource(), dex.NewPangolinSource())

	store, err := buildAuditStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	publisher, err := buildPublisher(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = publisher.Close() }()

	registry, err := tool.Catalog(ledger, quoter, router, rates)
	if err != nil {
		return fmt.Errorf("build tool catalog: %w", err)
	}
	dispatcher := tool.NewDispatcher(registry,
		tool.WithAuditStore(store),
		tool.WithEventPublisher(publisher))

	if cfg.Metrics.Address != "" {
		go func() {
			if err := metrics.StartServer(ctx, cfg.Metrics.Address); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("metrics server stopped", slog.String("error", err.Error()))
			}
		}()
		log.Info("metrics listener starting", slog.String("address", cfg.Metrics.Address))
	}

	server := mcp.NewServer(os.Stdin, os.Stdout, dispatcher, serverName, serverVersion)
	return server.Start(ctx)
}

// buildQuoter wraps the on-chain source with the configured cache backend.
func buildQuoter(cfg *config.Config, source dex.Source) (dex.Source, func(), error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	switch cfg.Cache.Driver {
	case "none":
		return source, func() {}, nil
	case "memory":
		return dex.NewCachedSource(source, dex.NewMemoryCache(), ttl), func() {}, nil
	case "redis":
		cache, err := dex.NewRedisCache(dex.RedisCacheConfig{
			Address:  cfg.Cache.RedisAddress,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("connect quote cache: %w", err)
		}
		return dex.NewCachedSource(source, cache, ttl), func() { _ = cache.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

func buildAuditStore(ctx context.Context, cfg *config.Config) (audit.Store, error) {
	switch cfg.Audit.Driver {
	case "memory":
		return audit.NewMemoryStore(), nil
	case "mysql":
		store, err := audit.NewMySQLStore(ctx, cfg.Audit.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect audit store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
	}
}

func buildPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.Events.Driver {
	case "none":
		return events.NopPublisher{}, nil
	case "rabbitmq":
		publisher, err := events.NewRabbitMQPublisher(events.RabbitMQConfig{
			URL:   cfg.Events.URL,
			Queue: cfg.Events.Queue,
		})
		if err != nil {
			return nil, fmt.Errorf("connect event publisher: %w", err)
		}
		return publisher, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Events.Driver)
	}
}
