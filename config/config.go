package config

import (
	"fmt"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds every setting the application needs. It is loaded once at
// startup and passed explicitly to the components that need it; there is no
// package-level instance.
type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	JWT struct {
		SecretKey                string `mapstructure:"secret_key"`
		Algorithm                string `mapstructure:"algorithm"`
		AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
		RefreshTokenExpireDays   int    `mapstructure:"refresh_token_expire_days"`
	} `mapstructure:"jwt"`
	Security struct {
		BcryptCost int `mapstructure:"bcrypt_cost"`
	} `mapstructure:"security"`
	RateLimit struct {
		GeneralRPM int `mapstructure:"general_rpm"`
		AuthRPM    int `mapstructure:"auth_rpm"`
	} `mapstructure:"rate_limit"`
}

// Load reads config.yml from the given path, applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.algorithm", "HS256")
	viper.SetDefault("jwt.access_token_expire_minutes", 30)
	viper.SetDefault("jwt.refresh_token_expire_days", 7)
	viper.SetDefault("security.bcrypt_cost", 12)
	viper.SetDefault("rate_limit.general_rpm", 100)
	viper.SetDefault("rate_limit.auth_rpm", 10)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the auth subsystem cannot run without.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key must be set")
	}
	if c.JWT.Algorithm != "HS256" {
		return fmt.Errorf("unsupported jwt.algorithm %q, only HS256 is supported", c.JWT.Algorithm)
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("jwt.access_token_expire_minutes must be positive")
	}
	if c.JWT.RefreshTokenExpireDays <= 0 {
		return fmt.Errorf("jwt.refresh_token_expire_days must be positive")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("security.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return nil
}
