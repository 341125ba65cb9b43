package config

const (
	DefaultListenAddr  = ":8545"
	DefaultMetricsAddr = ":9100"
	DefaultDBPath      = "data/tba.db"

	DefaultMaxBatchSize = 64
	// One year, the longest an account may lock itself out of acting.
	DefaultMaxLockDurationSecs uint64 = 365 * 24 * 60 * 60
)
