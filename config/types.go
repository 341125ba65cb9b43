package config

// NodeConfig holds the node's configuration from node.yml
type NodeConfig struct {
	ListenAddr      string `yaml:"listen_addr"`
	MetricsAddr     string `yaml:"metrics_addr"`
	DBPath          string `yaml:"db_path"`
	EventArchiveDSN string `yaml:"event_archive_dsn"`

	// Dev-mode seed: when set, the node registers an in-process asset
	// contract answering both owner-query conventions with this owner.
	DevAssetContract string `yaml:"dev_asset_contract"`
	DevAssetOwner    string `yaml:"dev_asset_owner"`
}

// ConfigFile is the top-level structure for node.yml
type ConfigFile struct {
	Node NodeConfig `yaml:"node"`
}
