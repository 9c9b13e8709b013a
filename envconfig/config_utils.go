// config_utils.go - Utility-Funktionen und Export fuer Konfiguration
//
// Dieses Modul enthaelt:
// - BoolWithDefault/Bool: Boolean-Getter mit Default-Wert
// - Uint: Integer-Getter mit Default-Wert
// - EnvVar: Struktur fuer Environment-Variablen-Info
// - AsMap/Ordered: Alle Konfigurationen als Map bzw. in fester Reihenfolge
// - Values: Gibt alle Konfigurationswerte als String-Map zurueck
package envconfig

import (
	"fmt"
	"log/slog"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// =============================================================================
// Getter
// =============================================================================

// BoolWithDefault gibt eine Funktion zurueck, die einen Bool mit Default-Wert liest
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool gibt eine Funktion zurueck, die einen Bool liest (Default: false)
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint gibt eine Funktion zurueck, die einen uint mit Default-Wert liest
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

// =============================================================================
// Export-Strukturen und -Funktionen
// =============================================================================

// EnvVar repraesentiert eine Environment-Variable mit Metadaten
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// Ordered gibt alle Konfigurationen in fester Reihenfolge zurueck
// Wird fuer `posids env` und die Usage-Doku der Commands genutzt
func Ordered() *orderedmap.OrderedMap[string, EnvVar] {
	om := orderedmap.New[string, EnvVar]()
	for _, e := range []EnvVar{
		{"POSIDS_DEBUG", LogLevel(), "Show additional debug information (e.g. POSIDS_DEBUG=1)"},
		{"POSIDS_HOST", Host(), "IP Address for the posids server (default 127.0.0.1:11435)"},
		{"POSIDS_ORIGINS", AllowedOrigins(), "A comma separated list of allowed origins"},
		{"POSIDS_PATCH_SIZE", PatchSize(), "Patch edge length in pixels used by the CLI (default 14)"},
		{"POSIDS_MERGE_SIZE", MergeSize(), "Spatial merge edge length (default 2)"},
		{"POSIDS_MAX_TOKENS", MaxTokens(), "Maximum tokens per position table, 0 for no limit"},
		{"POSIDS_VERBOSE", Verbose(), "Print timings after each CLI table (e.g. POSIDS_VERBOSE=1)"},
	} {
		om.Set(e.Name, e)
	}
	return om
}

// AsMap gibt alle Konfigurationen als Map zurueck
func AsMap() map[string]EnvVar {
	ret := make(map[string]EnvVar)
	for pair := Ordered().Oldest(); pair != nil; pair = pair.Next() {
		ret[pair.Key] = pair.Value
	}
	return ret
}

// Values gibt alle Konfigurationswerte als String-Map zurueck
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
