/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

var namedProfiles = []string{
	"allocs",
	"block",
	"goroutine",
	"heap",
	"mutex",
	"threadcreate",
}

// registerProfileHandlers exposes pprof under the prefix, for diagnosing a
// live session without restarting it.
func registerProfileHandlers(cfg *Config, mux *httprouter.Router) {
	base := cfg.prefix + "/debug/pprof"

	mux.HandlerFunc(http.MethodGet, base+"/", pprof.Index)

	for _, name := range namedProfiles {
		mux.Handler(http.MethodGet, base+"/"+name, pprof.Handler(name))
	}

	mux.HandlerFunc(http.MethodGet, base+"/cmdline", pprof.Cmdline)
	mux.HandlerFunc(http.MethodGet, base+"/profile", pprof.Profile)
	mux.HandlerFunc(http.MethodGet, base+"/symbol", pprof.Symbol)
	mux.HandlerFunc(http.MethodGet, base+"/trace", pprof.Trace)
}
