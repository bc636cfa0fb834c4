package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDatabaseURI is returned when no MongoDB connection string is configured.
var ErrMissingDatabaseURI = errors.New("database.uri (MONGO_URI) is required")

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// Address is the listen address for net/http.
func (s ServerConfig) Address() string {
	return ":" + s.Port
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"` // Empty means: take it from the URI
}

type CORSConfig struct {
	AllowOrigin string `mapstructure:"allow_origin"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// envBindings maps config keys to the plain environment variable names the
// service has always been deployed with.
var envBindings = map[string]string{
	"server.port":       "PORT",
	"database.uri":      "MONGO_URI",
	"database.name":     "MONGO_DATABASE",
	"cors.allow_origin": "CORS_ALLOW_ORIGIN",
	"log.level":         "LOG_LEVEL",
}

// LoadConfig reads configuration from an optional .env file, an optional
// config.yaml in path, and the environment, in increasing precedence.
func LoadConfig(path string) (config Config, err error) {
	// .env only fills variables that are not already set in the environment.
	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	v.SetDefault("server.port", "8000")
	v.SetDefault("database.name", "")
	v.SetDefault("cors.allow_origin", "*")
	v.SetDefault("log.level", "info")

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil // Config file is optional; env vars are enough
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	if config.Database.URI == "" {
		return config, ErrMissingDatabaseURI
	}

	return config, nil
}
