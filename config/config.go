package config

import (
	"os"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/codeWhizperer/TBA/logx"
)

// LoadNodeConfig reads and parses the node.yml file
func LoadNodeConfig(path string) (*NodeConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		logx.Error("CONFIG", "Failed to open config file: ", err)
		return nil, err
	}
	defer file.Close()

	var cfgFile ConfigFile
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&cfgFile); err != nil {
		logx.Error("CONFIG", "Failed to decode YAML: ", err)
		return nil, err
	}

	cfg := cfgFile.Node
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.MetricsAddr == "" {
		cfg.MetricsAddr = DefaultMetricsAddr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath
	}
	return &cfg, nil
}

type AccountTunables struct {
	MaxBatchSize        int    `ini:"max_batch_size"`
	MaxLockDurationSecs uint64 `ini:"max_lock_duration_secs"`
}

func DefaultAccountTunables() *AccountTunables {
	return &AccountTunables{
		MaxBatchSize:        DefaultMaxBatchSize,
		MaxLockDurationSecs: DefaultMaxLockDurationSecs,
	}
}

// LoadAccountTunables reads account tunables from an .ini file
func LoadAccountTunables(path string) (*AccountTunables, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	accountSection := cfg.Section("account")
	tunables := DefaultAccountTunables()
	err = accountSection.MapTo(tunables)
	if err != nil {
		return nil, err
	}
	return tunables, nil
}
