package config

import (
	"github.com/andrew-solarstorm/go-packages/common"
)

type PersistenceConfig struct {
	// DBPath is the path to the BoltDB file for the outcome journal.
	// Default: "./data/trades.db"
	DBPath string

	// Enabled controls whether outcomes are journaled to disk.
	Enabled bool
}

func (c *PersistenceConfig) Key() string {
	return PERSISTENCE_CONFIG_KEY
}

func (c *PersistenceConfig) Load() error {
	c.DBPath = common.GetEnvOrDefault("TRADE_DB_PATH", "./data/trades.db")
	c.Enabled = common.GetEnvOrDefault("TRADE_PERSISTENCE_ENABLED", "true") == "true"
	return nil
}

func (c *PersistenceConfig) Validate() error {
	return nil
}
