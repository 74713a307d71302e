package extension

import "time"

// Config holds the MemToken extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.memtoken" or "memtoken" keys).
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Token genesis parameters.
	Name          string `json:"name" mapstructure:"name" yaml:"name"`
	Symbol        string `json:"symbol" mapstructure:"symbol" yaml:"symbol"`
	Decimals      uint8  `json:"decimals" mapstructure:"decimals" yaml:"decimals"`
	Admin         string `json:"admin" mapstructure:"admin" yaml:"admin"`
	InitialSupply string `json:"initial_supply" mapstructure:"initial_supply" yaml:"initial_supply"`
	FeeBps        uint32 `json:"fee_bps" mapstructure:"fee_bps" yaml:"fee_bps"`

	// TimeToVote is the fixed duration of every governance session
	// (default: 1h).
	TimeToVote time.Duration `json:"time_to_vote" mapstructure:"time_to_vote" yaml:"time_to_vote"`

	// JournalBatchSize is the number of events to buffer before flushing
	// to the store (default: 100).
	JournalBatchSize int `json:"journal_batch_size" mapstructure:"journal_batch_size" yaml:"journal_batch_size"`

	// JournalFlushInterval is how frequently the journal buffer is flushed
	// even if the batch size has not been reached (default: 5s).
	JournalFlushInterval time.Duration `json:"journal_flush_interval" mapstructure:"journal_flush_interval" yaml:"journal_flush_interval"`

	// SnapshotInterval controls how often full-state snapshots are saved.
	// Zero disables the periodic snapshot worker; a snapshot is still taken
	// on shutdown.
	SnapshotInterval time.Duration `json:"snapshot_interval" mapstructure:"snapshot_interval" yaml:"snapshot_interval"`

	// GroveDatabase is the name of a grove.DB registered in the DI container.
	// When set, the extension resolves this named database and auto-constructs
	// the appropriate store based on the driver type (pg/sqlite/mongo).
	// When empty and WithGroveDatabase was called, the default (unnamed) DB is used.
	GroveDatabase string `json:"grove_database" mapstructure:"grove_database" yaml:"grove_database"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeToVote:           time.Hour,
		JournalBatchSize:     100,
		JournalFlushInterval: 5 * time.Second,
	}
}
