package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HEDERA_NETWORK", "testnet")
	t.Setenv("HEDERA_ACCOUNT_ID", "0.0.1234")
	t.Setenv("HEDERA_PRIVATE_KEY", "302e020100300506032b657004220420deadbeef")
	t.Setenv("SAUCERSWAP_ROUTER_CONTRACT", "0.0.19264")
	t.Setenv("AYA_SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("AYA_WEBHOOK_SECRET", strings.Repeat("w", 40))
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Network != "testnet" {
		t.Fatalf("unexpected network %q", cfg.Network)
	}
	if cfg.SaucerSwap.APIBaseURL != "https://api.saucerswap.finance" {
		t.Fatalf("unexpected api base url %q", cfg.SaucerSwap.APIBaseURL)
	}
	if cfg.Audit.Driver != "memory" {
		t.Fatalf("unexpected audit driver %q", cfg.Audit.Driver)
	}
	if cfg.Cache.TTLSeconds != 15 {
		t.Fatalf("unexpected quote ttl %d", cfg.Cache.TTLSeconds)
	}
	if cfg.Events.Driver != "none" {
		t.Fatalf("unexpected events driver %q", cfg.Events.Driver)
	}
}

func TestLoadRejectsMissingOperator(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HEDERA_ACCOUNT_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for missing operator account")
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AYA_SESSION_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error for short secret")
	}
	if !strings.Contains(err.Error(), "AYA_SESSION_SECRET") {
		t.Fatalf("error should name the offending key: %v", err)
	}
}

func TestLoadRejectsDriverWithoutEndpoint(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AYA_CACHE_DRIVER", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error when redis cache has no address")
	}
}

func TestLoadNetworkDefinitionsDefaults(t *testing.T) {
	defs, err := LoadNetworkDefinitions("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	def, err := defs.Lookup("testnet")
	if err != nil {
		t.Fatalf("lookup testnet: %v", err)
	}
	if def.JSONRPCURL == "" {
		t.Fatal("expected a default relay url for testnet")
	}
	if _, err := defs.Lookup("localnet"); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestLoadNetworkDefinitionsOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	content := "networks:\n  testnet:\n    json_rpc_url: http://localhost:7546\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	defs, err := LoadNetworkDefinitions(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def, err := defs.Lookup("testnet")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if def.JSONRPCURL != "http://localhost:7546" {
		t.Fatalf("expected override to win, got %q", def.JSONRPCURL)
	}
	if _, err := defs.Lookup("mainnet"); err != nil {
		t.Fatalf("defaults should survive partial override: %v", err)
	}
}
