package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/skylarkops/dronecoord/core/matching"
	"github.com/skylarkops/dronecoord/core/reassign"
)

// Config is the root configuration of the coordinator.
type Config struct {
	Store    StoreConfig    `json:"store"`
	Decision DecisionConfig `json:"decision"`
	Metrics  MetricsConfig  `json:"metrics"`
	API      APIConfig      `json:"api"`
	Matching MatchingConfig `json:"matching"`
	Reassign reassign.Config `json:"reassign"`
}

// StoreConfig locates the CSV roster files.
type StoreConfig struct {
	PilotsPath   string `json:"pilots_path"`
	DronesPath   string `json:"drones_path"`
	MissionsPath string `json:"missions_path"`
}

// SetDefaults applies the conventional data directory layout.
func (c *StoreConfig) SetDefaults() {
	if c.PilotsPath == "" {
		c.PilotsPath = "data/pilot_roster.csv"
	}
	if c.DronesPath == "" {
		c.DronesPath = "data/drone_fleet.csv"
	}
	if c.MissionsPath == "" {
		c.MissionsPath = "data/missions.csv"
	}
}

// DecisionConfig defines settings for decision-log storage.
type DecisionConfig struct {
	// Backend selects the log store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *DecisionConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "decisions.log"
	}
}

// Validate checks mandatory fields.
func (c DecisionConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown decision log backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("decision log path is required")
	}
	return nil
}

// MetricsConfig controls the Prometheus exposition endpoint.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

// APIConfig controls the HTTP API of the serve command.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token, when set, is required as a bearer token on the decision-log
	// endpoint.
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// MatchingConfig carries the tunable factor weights.
type MatchingConfig struct {
	PilotWeights matching.PilotWeights `json:"pilot_weights"`
	DroneWeights matching.DroneWeights `json:"drone_weights"`
}

// SetDefaults fills in the standard weights when a section is absent.
func (c *MatchingConfig) SetDefaults() {
	zeroPilot := matching.PilotWeights{}
	if c.PilotWeights == zeroPilot {
		c.PilotWeights = matching.DefaultPilotWeights()
	}
	zeroDrone := matching.DroneWeights{}
	if c.DroneWeights == zeroDrone {
		c.DroneWeights = matching.DefaultDroneWeights()
	}
}

// Validate rejects weight sets that cannot score anything.
func (c MatchingConfig) Validate() error {
	if c.PilotWeights.Skill+c.PilotWeights.Certification+c.PilotWeights.Location+c.PilotWeights.Availability <= 0 {
		return fmt.Errorf("pilot weights must sum to a positive value")
	}
	if c.DroneWeights.Capability+c.DroneWeights.Location+c.DroneWeights.Maintenance <= 0 {
		return fmt.Errorf("drone weights must sum to a positive value")
	}
	return nil
}

// Load reads the configuration file, applies OPS_ environment overrides,
// fills defaults and validates.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("OPS_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ops_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Store.SetDefaults()
	cfg.Decision.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.API.SetDefaults()
	cfg.Matching.SetDefaults()
	if cfg.Reassign == (reassign.Config{}) {
		cfg.Reassign = reassign.DefaultConfig()
	}
	if err := cfg.Decision.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Matching.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
