package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the runtime server configuration. Simulation tuning lives in
// compile-time constants; this covers only deployment concerns.
type Config struct {
	ListenAddr     string   `yaml:"listen_addr"`
	WebSocketPath  string   `yaml:"websocket_path"`
	StakeTiers     []string `yaml:"stake_tiers"`
	StatsDBPath    string   `yaml:"stats_db_path"`
	MatchLogDir    string   `yaml:"match_log_dir"`
	MaxConnections int      `yaml:"max_connections"`
	IPCooldownSec  int      `yaml:"ip_cooldown_sec"`
}

func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		WebSocketPath:  "/ws",
		StakeTiers:     []string{"0.1", "1", "5", "25"},
		StatsDBPath:    "data/stats.db",
		MatchLogDir:    "data/matchlog",
		MaxConnections: 500,
		IPCooldownSec:  30,
	}
}

// Load reads a YAML config file. A missing file yields the defaults; a
// present but unparsable one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if len(cfg.StakeTiers) == 0 {
		cfg.StakeTiers = Default().StakeTiers
	}
	return cfg, nil
}
