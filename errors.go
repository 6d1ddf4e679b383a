/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Precondition failures. The text is shown to whoever caused them.
var (
	errTooFewPlayers = errors.New("Need at least 2 players to create pairs")
	errNoPairs       = errors.New("No pairs created yet. Create pairs first!")
	errRoundLength   = fmt.Errorf("Round length must be between %d and %d seconds", minRoundSeconds, maxRoundSeconds)
	errRoundActive   = errors.New("A round is already in progress")
	errRoundOver     = errors.New("This round is over. Create new pairs first!")
	errGameEnded     = errors.New("The game has ended")
	errNoPartner     = errors.New("You don't have a partner to rate")
	errPartnerIsHost = errors.New("Your partner this round was the host, so there is no one to rate")
	errEmptyName     = errors.New("Please enter your name")
	errNameTooLong   = fmt.Errorf("Names can be at most %d characters", maxNameLength)
	errHostBound     = errors.New("Another host is already connected")
)

func logf(cfg *Config, format string, args ...any) {
	if !cfg.verbose {
		return
	}

	log.Printf("%s | "+format, append([]any{time.Now().Format(logDate)}, args...)...)
}

func getFavicon(cfg *Config) string {
	return `<link rel="icon" type="image/svg+xml" href="` + cfg.prefix + `/assets/favicon.svg">`
}

func newPage(cfg *Config, title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	htmlBody.WriteString(getFavicon(cfg))
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><main class=\"card\"><h1>%s</h1><p><a href=\"%s/\">%s</a></p></main></body></html>", title, cfg.prefix, body))

	return htmlBody.String()
}
