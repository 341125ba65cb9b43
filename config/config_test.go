package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadNodeConfig(t *testing.T) {
	path := writeFile(t, "node.yml", `
node:
  listen_addr: ":9000"
  metrics_addr: ":9200"
  db_path: "/tmp/tba-test.db"
  event_archive_dsn: "postgres://localhost/tba?sslmode=disable"
  dev_asset_contract: "0xa55e7"
  dev_asset_owner: "0xaaa"
`)

	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("load node config: %v", err)
	}
	if cfg.ListenAddr != ":9000" {
		t.Fatalf("unexpected listen addr: %s", cfg.ListenAddr)
	}
	if cfg.MetricsAddr != ":9200" {
		t.Fatalf("unexpected metrics addr: %s", cfg.MetricsAddr)
	}
	if cfg.DBPath != "/tmp/tba-test.db" {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.EventArchiveDSN == "" || cfg.DevAssetContract != "0xa55e7" || cfg.DevAssetOwner != "0xaaa" {
		t.Fatal("optional fields were not decoded")
	}
}

func TestLoadNodeConfigDefaults(t *testing.T) {
	path := writeFile(t, "node.yml", "node: {}\n")

	cfg, err := LoadNodeConfig(path)
	if err != nil {
		t.Fatalf("load node config: %v", err)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Fatalf("expected default listen addr, got %s", cfg.ListenAddr)
	}
	if cfg.MetricsAddr != DefaultMetricsAddr {
		t.Fatalf("expected default metrics addr, got %s", cfg.MetricsAddr)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Fatalf("expected default db path, got %s", cfg.DBPath)
	}
}

func TestLoadNodeConfigMissingFile(t *testing.T) {
	if _, err := LoadNodeConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadAccountTunables(t *testing.T) {
	path := writeFile(t, "account.ini", `
[account]
max_batch_size = 16
max_lock_duration_secs = 86400
`)

	tunables, err := LoadAccountTunables(path)
	if err != nil {
		t.Fatalf("load tunables: %v", err)
	}
	if tunables.MaxBatchSize != 16 {
		t.Fatalf("unexpected max batch size: %d", tunables.MaxBatchSize)
	}
	if tunables.MaxLockDurationSecs != 86400 {
		t.Fatalf("unexpected max lock duration: %d", tunables.MaxLockDurationSecs)
	}
}

func TestLoadAccountTunablesPartial(t *testing.T) {
	path := writeFile(t, "account.ini", `
[account]
max_batch_size = 8
`)

	tunables, err := LoadAccountTunables(path)
	if err != nil {
		t.Fatalf("load tunables: %v", err)
	}
	if tunables.MaxBatchSize != 8 {
		t.Fatalf("unexpected max batch size: %d", tunables.MaxBatchSize)
	}
	if tunables.MaxLockDurationSecs != DefaultMaxLockDurationSecs {
		t.Fatalf("expected default lock duration, got %d", tunables.MaxLockDurationSecs)
	}
}

func TestDefaultAccountTunables(t *testing.T) {
	tunables := DefaultAccountTunables()
	if tunables.MaxBatchSize != DefaultMaxBatchSize {
		t.Fatalf("unexpected default batch size: %d", tunables.MaxBatchSize)
	}
	if tunables.MaxLockDurationSecs != DefaultMaxLockDurationSecs {
		t.Fatalf("unexpected default lock duration: %d", tunables.MaxLockDurationSecs)
	}
}
