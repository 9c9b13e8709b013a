// config.go - Haupt-Konfigurationsfunktionen fuer posids
//
// Dieses Modul enthaelt:
// - Host: Gibt Scheme und Host zurueck (POSIDS_HOST)
// - AllowedOrigins: Gibt erlaubte Origins zurueck (POSIDS_ORIGINS)
// - LogLevel: Gibt Log-Level zurueck (POSIDS_DEBUG)
// - PatchSize/MergeSize: Standard-Geometrie fuer die CLI (POSIDS_PATCH_SIZE, POSIDS_MERGE_SIZE)
// - MaxTokens: Token-Limit pro Tabelle (POSIDS_MAX_TOKENS)
// - Verbose: Laufzeit-Zusammenfassung in der CLI (POSIDS_VERBOSE)
//
// Weitere Funktionen sind ausgelagert:
// - config_utils.go: Getter-Funktionen und AsMap/Values/Ordered
package envconfig

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Host gibt Scheme und Host zurueck
// Konfigurierbar via POSIDS_HOST
// Default: http://127.0.0.1:11435
func Host() *url.URL {
	defaultPort := "11435"

	s := strings.TrimSpace(Var("POSIDS_HOST"))
	scheme, hostport, ok := strings.Cut(s, "://")
	switch {
	case !ok:
		scheme, hostport = "http", s
	case scheme == "http":
		defaultPort = "80"
	case scheme == "https":
		defaultPort = "443"
	}

	hostport, path, _ := strings.Cut(hostport, "/")
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		host, port = "127.0.0.1", defaultPort
		if ip := net.ParseIP(strings.Trim(hostport, "[]")); ip != nil {
			host = ip.String()
		} else if hostport != "" {
			host = hostport
		}
	}

	if n, err := strconv.ParseInt(port, 10, 32); err != nil || n > 65535 || n < 0 {
		slog.Warn("invalid port, using default", "port", port, "default", defaultPort)
		port = defaultPort
	}

	return &url.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(host, port),
		Path:   path,
	}
}

// AllowedOrigins gibt erlaubte Origins zurueck
// Konfigurierbar via POSIDS_ORIGINS (komma-separiert)
// Enthaelt Standard-Origins fuer localhost
func AllowedOrigins() (origins []string) {
	if s := Var("POSIDS_ORIGINS"); s != "" {
		origins = strings.Split(s, ",")
	}

	for _, origin := range []string{"localhost", "127.0.0.1", "0.0.0.0"} {
		origins = append(origins,
			fmt.Sprintf("http://%s", origin),
			fmt.Sprintf("https://%s", origin),
			fmt.Sprintf("http://%s", net.JoinHostPort(origin, "*")),
			fmt.Sprintf("https://%s", net.JoinHostPort(origin, "*")),
		)
	}

	return origins
}

// LogLevel gibt das Log-Level zurueck
// Konfigurierbar via POSIDS_DEBUG
// Werte: 0/false = INFO (Default), 1/true = DEBUG, 2 = TRACE
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("POSIDS_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}

	return level
}

var (
	// PatchSize ist die Patch-Kante in Pixeln (Default 14, Qwen2-VL)
	PatchSize = Uint("POSIDS_PATCH_SIZE", 14)

	// MergeSize ist die Kantenlaenge des Spatial-Merge (Default 2)
	MergeSize = Uint("POSIDS_MERGE_SIZE", 2)

	// Verbose schaltet in der CLI standardmaessig die Laufzeit-Zusammenfassung ein
	Verbose = Bool("POSIDS_VERBOSE")

	maxTokens = Uint("POSIDS_MAX_TOKENS", 1<<20)
)

// MaxTokens begrenzt die Tokens pro Tabelle, 0 = unbegrenzt
// Konfigurierbar via POSIDS_MAX_TOKENS, Werte ueber math.MaxInt werden begrenzt
func MaxTokens() int {
	n := maxTokens()
	if n > math.MaxInt {
		slog.Warn("POSIDS_MAX_TOKENS too large, clamping", "value", n, "max", math.MaxInt)
		return math.MaxInt
	}
	return int(n)
}

// Var gibt eine Environment-Variable zurueck
// Entfernt fuehrende/trailing Quotes und Leerzeichen
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}
