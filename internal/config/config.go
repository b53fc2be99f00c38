package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds PostgreSQL connection parameters for the ship-level stores
// (ban list, GM roster, limits table, quest catalog bookkeeping).
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns          int32  `yaml:"max_conns"`
	MinConns          int32  `yaml:"min_conns"`
	MaxConnLifetime   string `yaml:"max_conn_lifetime"`
	MaxConnIdleTime   string `yaml:"max_conn_idle_time"`
	HealthCheckPeriod string `yaml:"health_check_period"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	base := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)

	var params []string
	if d.MaxConns > 0 {
		params = append(params, fmt.Sprintf("pool_max_conns=%d", d.MaxConns))
	}
	if d.MinConns > 0 {
		params = append(params, fmt.Sprintf("pool_min_conns=%d", d.MinConns))
	}
	if d.MaxConnLifetime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_lifetime=%s", d.MaxConnLifetime))
	}
	if d.MaxConnIdleTime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_idle_time=%s", d.MaxConnIdleTime))
	}
	if d.HealthCheckPeriod != "" {
		params = append(params, fmt.Sprintf("pool_health_check_period=%s", d.HealthCheckPeriod))
	}

	if len(params) > 0 {
		return base + "&" + strings.Join(params, "&")
	}
	return base
}

// ShipConfig holds all configuration for the ship process: its identity, the
// blocks it runs, the shipgate it dials out to, and the stores it owns.
type ShipConfig struct {
	ShipName string `yaml:"ship_name"`

	// BindAddress is used for every block's listening sockets.
	BindAddress string `yaml:"bind_address"`

	// Blocks lists the blocks this ship process runs. Each block opens five
	// consecutive ports starting at BasePort (DCv1/DCv2, PC, GC, Ep3, BB).
	Blocks []BlockEntry `yaml:"blocks"`

	// Shipgate is the upstream directory/cluster service this ship dials.
	Shipgate ShipgateConfig `yaml:"shipgate"`

	Database DatabaseConfig `yaml:"database"`

	QuestDir string `yaml:"quest_dir"`
	MapCacheDir string `yaml:"map_cache_dir"`

	LogLevel string `yaml:"log_level"`

	// Connection tuning, mirrors §5 timeouts.
	LivenessTimeoutSec   int `yaml:"liveness_timeout_sec"`
	KeepAliveIdleSec     int `yaml:"keepalive_idle_sec"`
	KeepAliveQuietSec    int `yaml:"keepalive_quiet_sec"`
	PreAuthTimeoutSec    int `yaml:"pre_auth_timeout_sec"`
	SendQueueSize        int `yaml:"send_queue_size"`
}

// BlockEntry describes one block's identity and base port.
type BlockEntry struct {
	Index    int    `yaml:"index"`
	BasePort int    `yaml:"base_port"`
	EnableV6 bool   `yaml:"enable_v6"`
}

// ShipgateConfig holds connection parameters for the upstream shipgate link.
type ShipgateConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DefaultShipConfig returns ShipConfig with sensible defaults: one block at
// base port 5100, shipgate on localhost, Postgres on localhost.
func DefaultShipConfig() ShipConfig {
	return ShipConfig{
		ShipName:    "Default Ship",
		BindAddress: "0.0.0.0",
		Blocks: []BlockEntry{
			{Index: 1, BasePort: 5100},
		},
		Shipgate: ShipgateConfig{
			Host: "127.0.0.1",
			Port: 9300,
		},
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "pso",
			Password: "pso",
			DBName:  "pso",
			SSLMode: "disable",
		},
		QuestDir:             "data/quests",
		MapCacheDir:          "data/map-cache",
		LogLevel:             "info",
		LivenessTimeoutSec:   90,
		KeepAliveIdleSec:     30,
		KeepAliveQuietSec:    10,
		PreAuthTimeoutSec:    60,
		SendQueueSize:        256,
	}
}

// LoadShipConfig loads ship config from a YAML file. If the file doesn't
// exist, returns defaults.
func LoadShipConfig(path string) (ShipConfig, error) {
	cfg := DefaultShipConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
