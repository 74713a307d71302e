// Package extension provides the Forge extension adapter for MemToken.
//
// It implements the forge.Extension interface to integrate the MemToken
// engine into a Forge application with automatic dependency discovery,
// DI registration, and lifecycle management.
//
// Configuration can be provided programmatically via Option functions
// or via YAML configuration files under "extensions.memtoken" or
// "memtoken" keys.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/vessel"

	memtoken "github.com/xraph/memtoken"
	"github.com/xraph/memtoken/store"
	"github.com/xraph/memtoken/store/memory"
	"github.com/xraph/memtoken/token"
	"github.com/xraph/memtoken/types"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "memtoken"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Embeddable token ledger with governed pricing"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts MemToken as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config     Config
	engine     *memtoken.Engine
	store      store.Store
	engineOpts []memtoken.Option
	useGrove   bool
}

// New creates a new MemToken Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying MemToken engine.
// This is nil until Register is called.
func (e *Extension) Engine() *memtoken.Engine { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// initializes the engine, and registers it in the DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	// Use memory store if no store was provided programmatically.
	if e.store == nil {
		e.store = memory.New()
	}

	params, err := e.buildParams()
	if err != nil {
		return err
	}

	eng, err := memtoken.New(params, e.store, e.buildEngineOpts()...)
	if err != nil {
		return fmt.Errorf("memtoken: create engine: %w", err)
	}
	e.engine = eng

	return vessel.Provide(fapp.Container(), func() (*memtoken.Engine, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension].
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("memtoken: extension not initialized")
	}

	if !e.config.DisableMigrate {
		if err := e.engine.Start(ctx); err != nil {
			return err
		}
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("memtoken: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildParams constructs token genesis parameters from the resolved config.
func (e *Extension) buildParams() (token.Params, error) {
	supply := types.NewAmount(0)
	if e.config.InitialSupply != "" {
		var err error
		supply, err = types.ParseAmount(e.config.InitialSupply)
		if err != nil {
			return token.Params{}, fmt.Errorf("memtoken: parse initial_supply: %w", err)
		}
	}

	return token.Params{
		Meta: token.Meta{
			Name:     e.config.Name,
			Symbol:   e.config.Symbol,
			Decimals: e.config.Decimals,
		},
		Admin:         types.Address(e.config.Admin),
		InitialSupply: supply,
		TimeToVote:    e.config.TimeToVote,
		FeeBps:        e.config.FeeBps,
	}, nil
}

// buildEngineOpts constructs memtoken.Option values from the resolved config.
func (e *Extension) buildEngineOpts() []memtoken.Option {
	opts := make([]memtoken.Option, 0, len(e.engineOpts)+2)

	// Apply config-derived options.
	if e.config.JournalBatchSize > 0 || e.config.JournalFlushInterval > 0 {
		batchSize := e.config.JournalBatchSize
		flushInterval := e.config.JournalFlushInterval
		defaults := DefaultConfig()
		if batchSize == 0 {
			batchSize = defaults.JournalBatchSize
		}
		if flushInterval == 0 {
			flushInterval = defaults.JournalFlushInterval
		}
		opts = append(opts, memtoken.WithJournalConfig(batchSize, flushInterval))
	}

	if e.config.SnapshotInterval > 0 {
		opts = append(opts, memtoken.WithSnapshotInterval(e.config.SnapshotInterval))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.engineOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files or programmatic sources.
func (e *Extension) loadConfiguration() error {
	programmaticConfig := e.config

	// Try loading from config file.
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	if !configLoaded {
		if programmaticConfig.RequireConfig {
			return errors.New("memtoken: configuration is required but not found in config files; " +
				"ensure 'extensions.memtoken' or 'memtoken' key exists in your config")
		}

		// Use programmatic config merged with defaults.
		e.config = e.mergeWithDefaults(programmaticConfig)
	} else {
		// Config loaded from YAML -- merge with programmatic options.
		e.config = e.mergeConfigurations(fileConfig, programmaticConfig)
	}

	e.Logger().Debug("memtoken: configuration loaded",
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("symbol", e.config.Symbol),
		forge.F("decimals", e.config.Decimals),
		forge.F("fee_bps", e.config.FeeBps),
		forge.F("time_to_vote", e.config.TimeToVote),
		forge.F("journal_batch_size", e.config.JournalBatchSize),
		forge.F("journal_flush_interval", e.config.JournalFlushInterval),
		forge.F("snapshot_interval", e.config.SnapshotInterval),
		forge.F("use_grove", e.useGrove),
	)

	return nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()
	var cfg Config

	// Try "extensions.memtoken" first (namespaced pattern).
	if cm.IsSet("extensions.memtoken") {
		if err := cm.Bind("extensions.memtoken", &cfg); err == nil {
			e.Logger().Debug("memtoken: loaded config from file",
				forge.F("key", "extensions.memtoken"),
			)
			return cfg, true
		}
		e.Logger().Warn("memtoken: failed to bind extensions.memtoken config",
			forge.F("error", "bind failed"),
		)
	}

	// Try legacy "memtoken" key.
	if cm.IsSet("memtoken") {
		if err := cm.Bind("memtoken", &cfg); err == nil {
			e.Logger().Debug("memtoken: loaded config from file",
				forge.F("key", "memtoken"),
			)
			return cfg, true
		}
		e.Logger().Warn("memtoken: failed to bind memtoken config",
			forge.F("error", "bind failed"),
		)
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.TimeToVote == 0 {
		cfg.TimeToVote = defaults.TimeToVote
	}
	if cfg.JournalBatchSize == 0 {
		cfg.JournalBatchSize = defaults.JournalBatchSize
	}
	if cfg.JournalFlushInterval == 0 {
		cfg.JournalFlushInterval = defaults.JournalFlushInterval
	}
	return cfg
}

// mergeConfigurations merges YAML config with programmatic options.
// YAML config takes precedence for most fields; programmatic bool flags fill gaps.
func (e *Extension) mergeConfigurations(yamlConfig, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		yamlConfig.DisableMigrate = true
	}

	// String fields: YAML takes precedence.
	if yamlConfig.Name == "" && programmaticConfig.Name != "" {
		yamlConfig.Name = programmaticConfig.Name
	}
	if yamlConfig.Symbol == "" && programmaticConfig.Symbol != "" {
		yamlConfig.Symbol = programmaticConfig.Symbol
	}
	if yamlConfig.Admin == "" && programmaticConfig.Admin != "" {
		yamlConfig.Admin = programmaticConfig.Admin
	}
	if yamlConfig.InitialSupply == "" && programmaticConfig.InitialSupply != "" {
		yamlConfig.InitialSupply = programmaticConfig.InitialSupply
	}

	// Duration/int fields: YAML takes precedence, programmatic fills gaps.
	if yamlConfig.Decimals == 0 && programmaticConfig.Decimals != 0 {
		yamlConfig.Decimals = programmaticConfig.Decimals
	}
	if yamlConfig.FeeBps == 0 && programmaticConfig.FeeBps != 0 {
		yamlConfig.FeeBps = programmaticConfig.FeeBps
	}
	if yamlConfig.TimeToVote == 0 && programmaticConfig.TimeToVote != 0 {
		yamlConfig.TimeToVote = programmaticConfig.TimeToVote
	}
	if yamlConfig.JournalBatchSize == 0 && programmaticConfig.JournalBatchSize != 0 {
		yamlConfig.JournalBatchSize = programmaticConfig.JournalBatchSize
	}
	if yamlConfig.JournalFlushInterval == 0 && programmaticConfig.JournalFlushInterval != 0 {
		yamlConfig.JournalFlushInterval = programmaticConfig.JournalFlushInterval
	}
	if yamlConfig.SnapshotInterval == 0 && programmaticConfig.SnapshotInterval != 0 {
		yamlConfig.SnapshotInterval = programmaticConfig.SnapshotInterval
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(yamlConfig)
}
