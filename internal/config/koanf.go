package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for an optional YAML config
// file, in priority order. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/sentrytel/config.yaml",
	"/etc/sentrytel/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults, applied before the optional
// file and before environment variables.
func defaultConfig() *Config {
	return &Config{
		Tables: TablesConfig{
			Events:      "sentrytel-events-dev",
			PlayerState: "sentrytel-player-state-dev",
			Detections:  "sentrytel-detections-dev",
		},
		Rules: RulesConfig{
			EventTTLDays:                 90,
			ZScoreThreshold:              3.0,
			MinSamplesForDetection:       100,
			AccuracyInterestingThreshold: 0.7,
			HeadshotInterestingThreshold: 0.5,
			MinShotsForInteresting:       5,
			HighDamageThreshold:          100,
			AccuracyRiskThreshold:        0.5,
			HeadshotRiskThreshold:        0.3,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8089,
			Timeout:         30 * time.Second,
			ParallelPlayers: 1, // sequential by default; parallelism is optional
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Store: StoreConfig{
			DataDir:            "/data/sentrytel",
			InMemory:           false,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30 * time.Second,
		},
	}
}

// Load loads configuration using koanf v2 with three layered sources, in
// increasing priority: struct defaults, an optional YAML file, then
// environment variables. The env transform lowercases each variable name and
// looks it up in envMappings to find its koanf path; variables not listed
// there are ignored.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envMappings maps the documented ingestion-tuning environment variable
// names (and a handful of ambient ones) to koanf dotted paths.
var envMappings = map[string]string{
	"events_table":         "tables.events_table",
	"player_state_table":   "tables.player_state_table",
	"detections_table":     "tables.detections_table",

	"event_ttl_days":                  "rules.event_ttl_days",
	"zscore_threshold":                "rules.zscore_threshold",
	"min_samples_for_detection":       "rules.min_samples_for_detection",
	"accuracy_interesting_threshold":  "rules.accuracy_interesting_threshold",
	"headshot_interesting_threshold":  "rules.headshot_interesting_threshold",
	"min_shots_for_interesting":       "rules.min_shots_for_interesting",
	"high_damage_threshold":           "rules.high_damage_threshold",
	"accuracy_risk_threshold":         "rules.accuracy_risk_threshold",
	"headshot_risk_threshold":         "rules.headshot_risk_threshold",

	"http_host":         "server.host",
	"http_port":         "server.port",
	"http_timeout":      "server.timeout",
	"parallel_players":  "server.parallel_players",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"store_data_dir":             "store.data_dir",
	"store_in_memory":            "store.in_memory",
	"store_breaker_max_failures": "store.breaker_max_failures",
	"store_breaker_open_timeout": "store.breaker_open_timeout",
}

// envTransformFunc maps SCREAMING_SNAKE env var names to koanf dotted paths
// via envMappings, skipping anything unmapped so stray environment
// variables never pollute the configuration tree.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)
	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
