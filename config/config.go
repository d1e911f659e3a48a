package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey        string `mapstructure:"secret_key"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
		RefreshTTLDays   int    `mapstructure:"refresh_ttl_days"`
	} `mapstructure:"jwt"`
	Auth struct {
		BcryptCost           int `mapstructure:"bcrypt_cost"`
		SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
		StorageTimeoutSec    int `mapstructure:"storage_timeout_sec"`
	} `mapstructure:"auth"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.AutomaticEnv()

	// Defaults keep the auth subsystem usable with a minimal config file.
	viper.SetDefault("jwt.access_ttl_minutes", 15)
	viper.SetDefault("jwt.refresh_ttl_days", 7)
	viper.SetDefault("auth.bcrypt_cost", 12)
	viper.SetDefault("auth.sweep_interval_minutes", 60)
	viper.SetDefault("auth.storage_timeout_sec", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
