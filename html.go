/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bytes"
	"embed"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

//go:embed assets/*
var assets embed.FS

// renderPage fills in the URL prefix so pages work behind a reverse proxy.
func renderPage(cfg *Config, name string) ([]byte, error) {
	data, err := assets.ReadFile(name)
	if err != nil {
		return nil, err
	}

	return bytes.ReplaceAll(data, []byte("{{prefix}}"), []byte(cfg.prefix)), nil
}

func writePage(cfg *Config, w http.ResponseWriter, r *http.Request, name string) {
	startTime := time.Now()

	data, err := renderPage(cfg, name)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	securityHeaders(cfg, w)

	written, err := w.Write(data)
	if err != nil {
		return
	}

	logf(cfg, "SERVE: Page %s (%s) to %s in %s",
		name,
		humanReadableSize(int64(written)),
		realIP(r),
		time.Since(startTime).Round(time.Microsecond),
	)
}

func servePage(cfg *Config, name string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		writePage(cfg, w, r, name)
	}
}

// notFoundPage sends every unknown GET to the player page.
func notFoundPage(cfg *Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		writePage(cfg, w, r, "assets/index.html")
	})
}

func serveHealthCheck(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		securityHeaders(cfg, w)

		_, err := w.Write([]byte("Ok\n"))
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveAssets(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		fname := "assets/" + strings.TrimPrefix(p.ByName("filepath"), "/")

		if strings.HasSuffix(fname, ".html") {
			http.NotFound(w, r)
			return
		}

		data, err := assets.ReadFile(fname)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		switch strings.ToLower(filepath.Ext(fname)) {
		case ".css":
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
		case ".js":
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		case ".svg":
			w.Header().Set("Content-Type", "image/svg+xml")
		}

		_, err = w.Write(data)
		if err != nil {
			errs <- err

			return
		}
	}
}

func serveRobots(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		data := "User-agent: *\nDisallow: /\n"

		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		securityHeaders(cfg, w)

		_, err := w.Write([]byte(data))
		if err != nil {
			errs <- err

			return
		}
	}
}
