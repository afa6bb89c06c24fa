// Package config loads process configuration using a layered koanf stack:
// built-in defaults, an optional YAML file, then environment variables
// (highest priority). Configuration is read once at process start; changes
// require a restart.
package config

import "time"

// Config is the complete process configuration.
type Config struct {
	Tables  TablesConfig  `koanf:"tables"`
	Rules   RulesConfig   `koanf:"rules"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Store   StoreConfig   `koanf:"store"`
}

// TablesConfig names the three logical KV collections.
type TablesConfig struct {
	Events      string `koanf:"events_table"`
	PlayerState string `koanf:"player_state_table"`
	Detections  string `koanf:"detections_table"`
}

// RulesConfig carries the ingestion-tuning thresholds and their environment
// variable overrides. The koanf tags equal the env var names (lowercased);
// envMappings in koanf.go maps each of those names to its "rules." path.
type RulesConfig struct {
	EventTTLDays                 int     `koanf:"event_ttl_days"`
	ZScoreThreshold              float64 `koanf:"zscore_threshold"`
	MinSamplesForDetection       int     `koanf:"min_samples_for_detection"`
	AccuracyInterestingThreshold float64 `koanf:"accuracy_interesting_threshold"`
	HeadshotInterestingThreshold float64 `koanf:"headshot_interesting_threshold"`
	MinShotsForInteresting       int     `koanf:"min_shots_for_interesting"`
	HighDamageThreshold          float64 `koanf:"high_damage_threshold"`
	AccuracyRiskThreshold        float64 `koanf:"accuracy_risk_threshold"`
	HeadshotRiskThreshold        float64 `koanf:"headshot_risk_threshold"`
}

// ServerConfig configures the ambient dev HTTP front-end; the core pipeline
// itself treats the gateway as an external collaborator.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ParallelPlayers int           `koanf:"parallel_players"`
}

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// StoreConfig configures the badger-backed KV adapter and its circuit breaker.
type StoreConfig struct {
	DataDir                string        `koanf:"data_dir"`
	InMemory               bool          `koanf:"in_memory"`
	BreakerMaxFailures     uint32        `koanf:"breaker_max_failures"`
	BreakerOpenTimeout     time.Duration `koanf:"breaker_open_timeout"`
}

// TTLDuration returns the configured event/detection TTL as a time.Duration.
func (r RulesConfig) TTLDuration() time.Duration {
	return time.Duration(r.EventTTLDays) * 24 * time.Hour
}
