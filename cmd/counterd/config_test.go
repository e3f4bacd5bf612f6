// Copyright 2016-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFlags stands in for a *cli.Context; only keys present in the
// map count as set.
type fakeFlags map[string]interface{}

func (f fakeFlags) IsSet(name string) bool {
	_, ok := f[name]
	return ok && name != "config"
}

func (f fakeFlags) String(name string) string {
	s, _ := f[name].(string)
	return s
}

func (f fakeFlags) Bool(name string) bool {
	b, _ := f[name].(bool)
	return b
}

func (f fakeFlags) Float64(name string) float64 {
	v, _ := f[name].(float64)
	return v
}

func (f fakeFlags) Int(name string) int {
	v, _ := f[name].(int)
	return v
}

func (f fakeFlags) Duration(name string) time.Duration {
	v, _ := f[name].(time.Duration)
	return v
}

func writeConfig(t *testing.T, content string) (string, func()) {
	dir, err := ioutil.TempDir("", "counterd")
	require.NoError(t, err)
	filename := filepath.Join(dir, "counterd.yaml")
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0644))
	return filename, func() { os.RemoveAll(dir) }
}

func TestDefaultConfig(t *testing.T) {
	config, err := LoadConfig(fakeFlags{})
	if assert.NoError(t, err) {
		assert.Equal(t, DefaultConfig(), config)
	}
}

func TestConfigFile(t *testing.T) {
	filename, cleanup := writeConfig(t, `
http: ":8080"
backend: "postgres://localhost/counters"
log_requests: true
rate_limit: 5
metrics_interval: 1m
`)
	defer cleanup()

	config, err := LoadConfig(fakeFlags{"config": filename})
	if assert.NoError(t, err) {
		assert.Equal(t, ":8080", config.HTTP)
		assert.Equal(t, ":5932", config.CBORRPC)
		assert.Equal(t, "postgres://localhost/counters", config.Backend)
		assert.True(t, config.LogRequests)
		assert.Equal(t, 5.0, config.RateLimit)
		assert.Equal(t, time.Minute, config.MetricsInterval)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	filename, cleanup := writeConfig(t, `
http: ":8080"
rate_burst: 3
`)
	defer cleanup()

	config, err := LoadConfig(fakeFlags{
		"config":           filename,
		"http":             ":9090",
		"log-level":        "debug",
		"metrics-interval": 2 * time.Second,
	})
	if assert.NoError(t, err) {
		assert.Equal(t, ":9090", config.HTTP)
		assert.Equal(t, 3, config.RateBurst)
		assert.Equal(t, "debug", config.LogLevel)
		assert.Equal(t, 2*time.Second, config.MetricsInterval)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	filename, cleanup := writeConfig(t, "htttp: \":8080\"\n")
	defer cleanup()

	_, err := LoadConfig(fakeFlags{"config": filename})
	assert.Error(t, err)
}

func TestConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(fakeFlags{"config": "/nonexistent/counterd.yaml"})
	assert.Error(t, err)
}

func TestConfigBadMetricsInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		_, err := LoadConfig(fakeFlags{"metrics-interval": interval})
		assert.Error(t, err, "%v", interval)
	}

	filename, cleanup := writeConfig(t, "metrics_interval: 0s\n")
	defer cleanup()
	_, err := LoadConfig(fakeFlags{"config": filename})
	assert.Error(t, err)
}

func TestConfigNegativeRateLimit(t *testing.T) {
	_, err := LoadConfig(fakeFlags{"rate-limit": -1.0})
	assert.Error(t, err)

	filename, cleanup := writeConfig(t, "rate_limit: -5\n")
	defer cleanup()
	_, err = LoadConfig(fakeFlags{"config": filename})
	assert.Error(t, err)

	config, err := LoadConfig(fakeFlags{"rate-limit": 0.0})
	if assert.NoError(t, err) {
		assert.Equal(t, 0.0, config.RateLimit)
	}
}
