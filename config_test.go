/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(c *Config)
		err    string
	}{
		"defaults":        {mutate: func(c *Config) {}},
		"tls cert only":   {mutate: func(c *Config) { c.tlsCert = "cert.pem" }, err: "tls-key"},
		"tls pair":        {mutate: func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }},
		"port zero":       {mutate: func(c *Config) { c.port = 0 }, err: "invalid port"},
		"port too high":   {mutate: func(c *Config) { c.port = 65536 }, err: "invalid port"},
		"round too short": {mutate: func(c *Config) { c.roundSeconds = 9 }, err: "round length"},
		"round too long":  {mutate: func(c *Config) { c.roundSeconds = 301 }, err: "round length"},
		"round minimum":   {mutate: func(c *Config) { c.roundSeconds = 10 }},
		"round maximum":   {mutate: func(c *Config) { c.roundSeconds = 300 }},
		"no heartbeat":    {mutate: func(c *Config) { c.heartbeat = 0 }, err: "heartbeat"},
		"short cookie":    {mutate: func(c *Config) { c.cookieMaxAge = time.Millisecond }, err: "cookie"},
		"blank host name": {mutate: func(c *Config) { c.hostName = "  " }, err: "host-name"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)

			err := cfg.validate()
			if tc.err == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestConfig_Scheme(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, "http", cfg.scheme())

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	assert.Equal(t, "https", cfg.scheme())
}

func TestNewCmd_FlagsAndEnvironment(t *testing.T) {
	t.Setenv("HOTTAKE_ROUND_SECONDS", "90")
	t.Setenv("HOTTAKE_HOST_NAME", "Emcee")

	cfg := &Config{}
	cmd := newCmd(cfg)

	require.NoError(t, cmd.ParseFlags([]string{"--port", "9090", "--seed", "7"}))

	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, int64(7), cfg.seed)
	assert.Equal(t, 90, cfg.roundSeconds)
	assert.Equal(t, "Emcee", cfg.hostName)
	assert.Equal(t, 30*time.Second, cfg.heartbeat)
	assert.Equal(t, 24*time.Hour, cfg.cookieMaxAge)
	assert.NoError(t, cfg.validate())
}
