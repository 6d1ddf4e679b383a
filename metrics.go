/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	roleHost   = "host"
	rolePlayer = "player"
)

var (
	activeConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "hottake_connections_active",
		Help: "The current number of open websocket connections.",
	}, []string{"role"})
	totalConnections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottake_connections_total",
		Help: "The total number of websocket connections accepted.",
	}, []string{"role"})
	messagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottake_messages_received_total",
		Help: "The total number of well-formed messages received.",
	}, []string{"role"})
	messagesDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottake_messages_dropped_total",
		Help: "The total number of malformed or unknown messages dropped.",
	}, []string{"role"})
	messagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottake_messages_sent_total",
		Help: "The total number of messages written to clients.",
	})
	sendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottake_send_failures_total",
		Help: "The total number of messages that could not be delivered.",
	})
	participantsKnown = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hottake_participants",
		Help: "The number of participants in the session, connected or not.",
	})
	pairingCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottake_pairing_cycles_total",
		Help: "The total number of times pairs were created.",
	})
	roundsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottake_rounds_started_total",
		Help: "The total number of discussion rounds started.",
	})
	ratingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottake_ratings_recorded_total",
		Help: "The total number of partner ratings counted.",
	})
)

func registerMetricsHandler(cfg *Config, mux *httprouter.Router) {
	mux.Handler("GET", cfg.prefix+"/metrics", promhttp.Handler())
}
