// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"fmt"
	"io/ioutil"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// Config holds the daemon settings.  Values come from an optional YAML
// file, overridden by any command-line flags that were set.
type Config struct {
	HTTP            string        `mapstructure:"http"`
	CBORRPC         string        `mapstructure:"cborrpc"`
	Backend         string        `mapstructure:"backend"`
	LogLevel        string        `mapstructure:"log_level"`
	LogRequests     bool          `mapstructure:"log_requests"`
	RateLimit       float64       `mapstructure:"rate_limit"`
	RateBurst       int           `mapstructure:"rate_burst"`
	MetricsInterval time.Duration `mapstructure:"metrics_interval"`
}

// DefaultConfig returns the settings used when neither the file nor
// the command line says otherwise.
func DefaultConfig() Config {
	return Config{
		HTTP:            ":5980",
		CBORRPC:         ":5932",
		Backend:         "memory",
		LogLevel:        "info",
		RateBurst:       10,
		MetricsInterval: 15 * time.Second,
	}
}

// flagSource is the part of *cli.Context used to read flags.
type flagSource interface {
	IsSet(name string) bool
	String(name string) string
	Bool(name string) bool
	Float64(name string) float64
	Int(name string) int
	Duration(name string) time.Duration
}

// decodeConfig decodes a generic map into config.  Fields missing from
// the map keep their current value.
func decodeConfig(input map[string]interface{}, config *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      config,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func loadConfigYaml(filename string) (map[string]interface{}, error) {
	var result map[string]interface{}
	var err error
	var bytes []byte
	bytes, err = ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

// flagOverrides collects the value of every flag that was explicitly
// set, keyed by its configuration name.
func flagOverrides(c flagSource) map[string]interface{} {
	overrides := make(map[string]interface{})
	for _, name := range []string{"http", "cborrpc", "backend", "log-level"} {
		if c.IsSet(name) {
			overrides[configKey(name)] = c.String(name)
		}
	}
	if c.IsSet("log-requests") {
		overrides["log_requests"] = c.Bool("log-requests")
	}
	if c.IsSet("rate-limit") {
		overrides["rate_limit"] = c.Float64("rate-limit")
	}
	if c.IsSet("rate-burst") {
		overrides["rate_burst"] = c.Int("rate-burst")
	}
	if c.IsSet("metrics-interval") {
		overrides["metrics_interval"] = c.Duration("metrics-interval")
	}
	return overrides
}

func configKey(flagName string) string {
	if flagName == "log-level" {
		return "log_level"
	}
	return flagName
}

// LoadConfig builds the daemon configuration from the defaults, the
// YAML file named by the "config" flag if any, and the flags.
func LoadConfig(c flagSource) (Config, error) {
	config := DefaultConfig()
	if filename := c.String("config"); filename != "" {
		fileConfig, err := loadConfigYaml(filename)
		if err != nil {
			return config, err
		}
		if err = decodeConfig(fileConfig, &config); err != nil {
			return config, err
		}
	}
	if err := decodeConfig(flagOverrides(c), &config); err != nil {
		return config, err
	}
	return config, config.Validate()
}

// Validate checks that settings are in range.
func (config Config) Validate() error {
	if config.MetricsInterval <= 0 {
		return fmt.Errorf("metrics interval must be positive, not %v", config.MetricsInterval)
	}
	if config.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative, not %v", config.RateLimit)
	}
	return nil
}
