// Package config provides configuration management for the payment relay.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"sync"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the payment relay service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug bool `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	// BaseURL is the public address of this service, used to build the
	// return and notify URLs handed to the gateway.
	BaseURL string `yaml:"base_url" env:"BASE_URL" env-default:"http://localhost:3000"`
	Listen  struct {
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"3000"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Paygate struct {
		// ID is the merchant identifier issued by PayGate.
		ID string `yaml:"id" env:"PAYGATE_ID" env-default:""`
		// Secret is the shared key appended to every checksum.
		Secret string `yaml:"secret" env:"PAYGATE_KEY" env-default:""`
		// URL is the gateway base; endpoint paths are appended to it.
		URL string `yaml:"url" env:"PAYGATE_URL" env-default:"https://secure.paygate.co.za"`
	} `yaml:"paygate"`
}

var instance *Config
var once sync.Once

func loadConfig(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		// the config file is optional, environment variables may be enough
		if err = cleanenv.ReadEnv(conf); err != nil {
			desc, _ := cleanenv.GetDescription(conf, nil)
			return nil, fmt.Errorf("load config: %w; %s", err, desc)
		}
	}
	if conf.Paygate.ID == "" || conf.Paygate.Secret == "" {
		return nil, fmt.Errorf("PAYGATE_ID and PAYGATE_KEY must be set")
	}
	return conf, nil
}

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables;
// when the file does not exist, the environment alone is used.
// This function uses a singleton pattern and only loads the config once.
//
// Missing merchant credentials (PAYGATE_ID, PAYGATE_KEY) are a fatal
// configuration error.
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance, err = loadConfig(path)
	})
	return instance, err
}
