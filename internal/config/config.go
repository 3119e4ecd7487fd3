package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"

	"github.com/openkart/kartcore/pkg/core"
)

// StorageConfig holds best-time store settings.
type StorageConfig struct {
	Type       string `json:"type" mapstructure:"type"`
	SqlitePath string `json:"sqlitePath" mapstructure:"sqlitePath"`
}

// PhysicsConfig holds the tick and collision-response tuning shared by
// every vehicle archetype.
type PhysicsConfig struct {
	MaxDt          float64 `json:"maxDt" mapstructure:"maxDt"`
	SpeedThreshold float64 `json:"speedThreshold" mapstructure:"speedThreshold"`
	PushBackFactor float64 `json:"pushBackFactor" mapstructure:"pushBackFactor"`
	BounceDamping  float64 `json:"bounceDamping" mapstructure:"bounceDamping"`
}

// CountdownConfig holds the pre-race countdown settings.
type CountdownConfig struct {
	Start     int     `json:"start" mapstructure:"start"`
	GoSeconds float64 `json:"goSeconds" mapstructure:"goSeconds"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./kartlogs")
	viper.SetDefault("tracksDir", "./tracks")

	viper.SetDefault("physics.maxDt", 0.1)
	viper.SetDefault("physics.speedThreshold", 0.05)
	viper.SetDefault("physics.pushBackFactor", 1.5)
	viper.SetDefault("physics.bounceDamping", 0.4)

	viper.SetDefault("countdown.start", 3)
	viper.SetDefault("countdown.goSeconds", 1.0)

	viper.SetDefault("vehicles", defaultVehicles())

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.sqlitePath", "./kartcore.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "kartcore")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "kartcore-metrics")
	viper.SetDefault("influx.backupPath", "./kartcore_telemetry.lp.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("kartcore.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// defaultVehicles are the three shipped archetypes. Installs override
// or extend them through the "vehicles" config key.
func defaultVehicles() []map[string]any {
	return []map[string]any{
		{
			"id": "heavy", "name": "Heavy",
			"maxForward": 1.2, "maxBackward": -0.5,
			"accel": 0.02, "slowDownSpeed": 0.01,
			"shortDeltaAngle": 0.012, "maxDeltaAngle": 0.5, "slowDownAngle": 0.02,
			"halfExtents": map[string]any{"x": 1.4, "y": 0.8, "z": 2.4},
			"leeway":      map[string]any{"x": 0.2, "y": 0.0, "z": 0.2},
		},
		{
			"id": "standard", "name": "Standard",
			"maxForward": 1.0, "maxBackward": -0.5,
			"accel": 0.02, "slowDownSpeed": 0.01,
			"shortDeltaAngle": 0.02, "maxDeltaAngle": 0.7, "slowDownAngle": 0.03,
			"halfExtents": map[string]any{"x": 1.2, "y": 0.7, "z": 2.0},
			"leeway":      map[string]any{"x": 0.2, "y": 0.0, "z": 0.2},
		},
		{
			"id": "light", "name": "Light",
			"maxForward": 0.8, "maxBackward": -0.4,
			"accel": 0.025, "slowDownSpeed": 0.012,
			"shortDeltaAngle": 0.03, "maxDeltaAngle": 0.9, "slowDownAngle": 0.04,
			"halfExtents": map[string]any{"x": 1.0, "y": 0.6, "z": 1.7},
			"leeway":      map[string]any{"x": 0.15, "y": 0.0, "z": 0.15},
		},
	}
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// Storage returns the best-time store settings.
func Storage() StorageConfig {
	var cfg StorageConfig
	if err := viper.UnmarshalKey("storage", &cfg); err != nil {
		return StorageConfig{Type: "memory"}
	}
	return cfg
}

// Physics returns the tick/collision tuning, with invalid values
// replaced by defaults.
func Physics() PhysicsConfig {
	cfg := PhysicsConfig{
		MaxDt:          viper.GetFloat64("physics.maxDt"),
		SpeedThreshold: viper.GetFloat64("physics.speedThreshold"),
		PushBackFactor: viper.GetFloat64("physics.pushBackFactor"),
		BounceDamping:  viper.GetFloat64("physics.bounceDamping"),
	}
	if cfg.MaxDt <= 0 || math.IsNaN(cfg.MaxDt) {
		cfg.MaxDt = 0.1
	}
	return cfg
}

// Countdown returns the pre-race countdown settings.
func Countdown() CountdownConfig {
	return CountdownConfig{
		Start:     viper.GetInt("countdown.start"),
		GoSeconds: viper.GetFloat64("countdown.goSeconds"),
	}
}

// Vehicles returns the configured vehicle archetypes.
func Vehicles() ([]core.VehicleSpec, error) {
	var specs []core.VehicleSpec
	if err := viper.UnmarshalKey("vehicles", &specs); err != nil {
		return nil, fmt.Errorf("error parsing vehicles config: %w", err)
	}
	return specs, nil
}

// VehicleByID looks up one configured archetype.
func VehicleByID(id string) (core.VehicleSpec, error) {
	specs, err := Vehicles()
	if err != nil {
		return core.VehicleSpec{}, err
	}
	for _, s := range specs {
		if s.ID == id {
			return s, nil
		}
	}
	return core.VehicleSpec{}, fmt.Errorf("unknown vehicle archetype: %s", id)
}
