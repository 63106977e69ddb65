package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Beacon   BeaconConfig
	Custody  CustodyConfig
	Metrics  MetricsConfig
	Games    GamesConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// BeaconConfig holds configuration for the external randomness beacon.
// When Mock is true the settlement engine draws from the local CSPRNG
// instead of calling out.
type BeaconConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// CustodyConfig holds configuration for the collectible custody gateway
type CustodyConfig struct {
	BaseURL string
	APIKey  string
	Mock    bool
}

// MetricsConfig holds Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// GamesConfig holds settlement-wide game configuration
type GamesConfig struct {
	// SeedDefaults installs the stock wheel/dice/coinflip/plinko tables
	// for the base asset kind when no configuration exists yet.
	SeedDefaults  bool
	BaseAssetKind string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	// It's okay if the config file is missing, environment variables
	// and defaults still apply.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "arcade")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Beacon.Mock", true)
	viper.SetDefault("Custody.Mock", true)
	viper.SetDefault("Metrics.Enabled", true)
	viper.SetDefault("Metrics.Path", "/metrics")
	viper.SetDefault("Games.SeedDefaults", true)
	viper.SetDefault("Games.BaseAssetKind", "GEM")
}
