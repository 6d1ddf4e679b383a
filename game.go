/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// playerToken is the reconnection token the device replays, if any.
func playerToken(r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}

// endpoint turns socket activity for one role into coordinator events.
type endpoint struct {
	role       string
	connect    func(c *Client, r *http.Request) event
	decode     func(c *Client, data []byte) (event, error)
	disconnect func(c *Client) event
}

var hostEndpoint = endpoint{
	role: roleHost,
	connect: func(c *Client, _ *http.Request) event {
		return hostConnected{conn: c}
	},
	decode: func(c *Client, data []byte) (event, error) {
		cmd, err := decodeHostCommand(data)
		if err != nil {
			return nil, err
		}
		return hostMessage{conn: c, cmd: cmd}, nil
	},
	disconnect: func(c *Client) event {
		return hostDisconnected{conn: c}
	},
}

var playerEndpoint = endpoint{
	role: rolePlayer,
	connect: func(c *Client, r *http.Request) event {
		return playerConnected{conn: c, token: playerToken(r)}
	},
	decode: func(c *Client, data []byte) (event, error) {
		cmd, err := decodePlayerCommand(data)
		if err != nil {
			return nil, err
		}
		return playerMessage{conn: c, cmd: cmd}, nil
	},
	disconnect: func(c *Client) event {
		return playerDisconnected{conn: c}
	},
}

// serveSocket upgrades the request and pumps messages between the socket
// and the coordinator until either side goes away.
func serveSocket(cfg *Config, co *Coordinator, ep endpoint) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "CONN: Upgrade failed for %s: %v", realIP(r), err)
			return
		}

		client := newClient(cfg, conn, ep.role)

		activeConnections.WithLabelValues(ep.role).Inc()
		totalConnections.WithLabelValues(ep.role).Inc()
		defer activeConnections.WithLabelValues(ep.role).Dec()

		logf(cfg, "CONN: %s connected from %s", ep.role, realIP(r))

		go client.writePump()

		if !co.post(ep.connect(client, r)) {
			client.Close()
			return
		}

		client.readPump(func(data []byte) {
			ev, err := ep.decode(client, data)
			if err != nil {
				logf(cfg, "CONN: Dropping message from %s %s: %v", ep.role, realIP(r), err)
				messagesDropped.WithLabelValues(ep.role).Inc()
				return
			}

			messagesReceived.WithLabelValues(ep.role).Inc()
			co.post(ev)
		})

		co.post(ep.disconnect(client))
		client.Close()
	}
}

// serveQR renders a PNG QR code pointing players at the join page.
func serveQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/"

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			return
		}

		logf(cfg, "SERVE: QR code for %s (%s) to %s in %s",
			url,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// registerGame mounts the player page at the root, the host console at
// /host, the join QR code at /qr, and one websocket endpoint per role.
func registerGame(cfg *Config, co *Coordinator, mux *httprouter.Router) {
	mux.GET(cfg.prefix+"/", servePage(cfg, "assets/index.html"))
	mux.GET(cfg.prefix+"/host", servePage(cfg, "assets/host.html"))
	mux.GET(cfg.prefix+"/qr", serveQR(cfg))

	mux.GET(cfg.prefix+"/ws/host", serveSocket(cfg, co, hostEndpoint))
	mux.GET(cfg.prefix+"/ws/player", serveSocket(cfg, co, playerEndpoint))

	mux.NotFound = notFoundPage(cfg)
}
