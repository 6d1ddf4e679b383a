/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

const (
	logDate string        = `2006-01-02T15:04:05.000-07:00`
	timeout time.Duration = 10 * time.Second

	sizeUnits = " kMGTPE"
)

func securityHeaders(cfg *Config, w http.ResponseWriter) {
	w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
	w.Header().Set("Cross-Origin-Resource-Policy", "same-site")
	w.Header().Set("Permissions-Policy", "geolocation=(), midi=(), sync-xhr=(), microphone=(), camera=(), magnetometer=(), gyroscope=(), fullscreen=(), payment=()")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'self'; connect-src 'self' ws: wss:")

	if cfg.scheme() == "https" {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	}
}

func realIP(r *http.Request) string {
	host, port, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	} else if ip := r.Header.Get("X-Real-IP"); ip != "" {
		if net.ParseIP(ip) != nil {
			host = ip
		}
	}
	if net.ParseIP(host) != nil && strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		return host + ":" + port
	}
	return host
}

// humanReadableSize formats n using decimal (SI) units.
func humanReadableSize(n int64) string {
	if n < 1000 {
		return strconv.FormatInt(n, 10) + " B"
	}

	size, unit := float64(n), 0
	for size >= 1000 && unit < len(sizeUnits)-1 {
		size /= 1000
		unit++
	}

	return fmt.Sprintf("%.1f %cB", size, sizeUnits[unit])
}

func serveVersion(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusOK)

		written, err := w.Write([]byte("hottake v" + releaseVersion + "\n"))
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Version page (%s) to %s in %s",
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// newRand seeds from cfg.seed, or from the clock when no seed was given.
func newRand(cfg *Config) *rand.Rand {
	seed := uint64(cfg.seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

func newPromptSource(cfg *Config, rng *rand.Rand) (promptSource, error) {
	prompts := defaultPrompts

	if cfg.prompts != "" {
		loaded, err := loadPrompts(cfg.prompts)
		if err != nil {
			return nil, err
		}
		prompts = loaded
	}

	return newPromptBank(rng, prompts)
}

func newRouter(cfg *Config, co *Coordinator, errs chan<- error) *httprouter.Router {
	mux := httprouter.New()

	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, i any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		securityHeaders(cfg, w)
		w.WriteHeader(http.StatusInternalServerError)

		io.WriteString(w, newPage(cfg, "Server Error", "An error has occurred. Please try again."))
	}

	mux.GET(cfg.prefix+"/assets/*filepath", serveAssets(cfg, errs))

	mux.GET(cfg.prefix+"/healthz", serveHealthCheck(cfg, errs))

	mux.GET(cfg.prefix+"/robots.txt", serveRobots(cfg, errs))

	mux.GET(cfg.prefix+"/version", serveVersion(cfg, errs))

	if cfg.profile {
		registerProfileHandlers(cfg, mux)
	}

	if cfg.metrics {
		registerMetricsHandler(cfg, mux)
	}

	registerGame(cfg, co, mux)

	return mux
}

func ServePage(ctx context.Context, cfg *Config) error {
	var err error

	timeZone := os.Getenv("TZ")
	if timeZone != "" {
		time.Local, err = time.LoadLocation(timeZone)
		if err != nil {
			return err
		}
	}

	logf(cfg, "START: hottake v%s", releaseVersion)

	cfg.prefix = strings.TrimSuffix(cfg.prefix, "/")

	rng := newRand(cfg)

	prompts, err := newPromptSource(cfg, rng)
	if err != nil {
		return fmt.Errorf("load prompts: %w", err)
	}

	co := newCoordinator(cfg, prompts, rng)

	errs := make(chan error, 64)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.bind, strconv.Itoa(cfg.port)),
		Handler:           newRouter(cfg, co, errs),
		IdleTimeout:       10 * time.Minute,
		ReadTimeout:       timeout,
		ReadHeaderTimeout: timeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return co.Run(ctx)
	})

	g.Go(func() error {
		for {
			select {
			case err := <-errs:
				logf(cfg, "ERROR: %v", err)
			case <-ctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		var err error

		logf(cfg, "SERVE: Listening on %s://%s%s/", cfg.scheme(), srv.Addr, cfg.prefix)

		if cfg.tlsKey != "" && cfg.tlsCert != "" {
			err = srv.ListenAndServeTLS(cfg.tlsCert, cfg.tlsKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
