/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	cookieMaxAge time.Duration
	heartbeat    time.Duration
	hostName     string
	metrics      bool
	port         int
	prefix       string
	profile      bool
	prompts      string
	roundSeconds int
	seed         int64
	tlsCert      string
	tlsKey       string
	verbose      bool
	version      bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.roundSeconds < minRoundSeconds || c.roundSeconds > maxRoundSeconds {
		return fmt.Errorf("invalid round length (must be between %d-%d seconds inclusive): %d",
			minRoundSeconds, maxRoundSeconds, c.roundSeconds)
	}
	if c.heartbeat <= 0 {
		return fmt.Errorf("invalid heartbeat interval (must be positive): %s", c.heartbeat)
	}
	if c.cookieMaxAge < time.Second {
		return fmt.Errorf("invalid cookie max age (must be at least 1s): %s", c.cookieMaxAge)
	}
	if strings.TrimSpace(c.hostName) == "" {
		return errors.New("--host-name must not be empty")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HOTTAKE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "hottake",
		Short:         "Hot take speed dating: pair up, argue a prompt against the clock, rate your partner.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: HOTTAKE_BIND)")
	fs.DurationVar(&cfg.cookieMaxAge, "cookie-max-age", 24*time.Hour, "lifetime of the player reconnection token (env: HOTTAKE_COOKIE_MAX_AGE)")
	fs.DurationVar(&cfg.heartbeat, "heartbeat", 30*time.Second, "interval between websocket liveness probes (env: HOTTAKE_HEARTBEAT)")
	fs.StringVar(&cfg.hostName, "host-name", "Host", "name shown to the player paired with the host (env: HOTTAKE_HOST_NAME)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "expose prometheus metrics at /metrics (env: HOTTAKE_METRICS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: HOTTAKE_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: HOTTAKE_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: HOTTAKE_PROFILE)")
	fs.StringVar(&cfg.prompts, "prompts", "", "file of newline-separated prompts to use instead of the built-in list (env: HOTTAKE_PROMPTS)")
	fs.IntVar(&cfg.roundSeconds, "round-seconds", 60, "default discussion length in seconds (env: HOTTAKE_ROUND_SECONDS)")
	fs.Int64Var(&cfg.seed, "seed", 0, "seed for pairing and prompt selection, 0 for random (env: HOTTAKE_SEED)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: HOTTAKE_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: HOTTAKE_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: HOTTAKE_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: HOTTAKE_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("hottake v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
