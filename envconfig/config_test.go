package envconfig

import (
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	cases := map[string]struct {
		value  string
		expect string
	}{
		"empty":               {"", "127.0.0.1:11435"},
		"only address":        {"1.2.3.4", "1.2.3.4:11435"},
		"only port":           {":1234", ":1234"},
		"address and port":    {"1.2.3.4:1234", "1.2.3.4:1234"},
		"hostname":            {"example.com", "example.com:11435"},
		"hostname and port":   {"example.com:1234", "example.com:1234"},
		"zero port":           {":0", ":0"},
		"too large port":      {":66000", ":11435"},
		"too small port":      {":-1", ":11435"},
		"ipv6 localhost":      {"[::1]", "[::1]:11435"},
		"ipv6 no brackets":    {"::1", "[::1]:11435"},
		"ipv6 + port":         {"[::1]:1337", "[::1]:1337"},
		"extra space":         {" 1.2.3.4 ", "1.2.3.4:11435"},
		"extra quotes":        {"\"1.2.3.4\"", "1.2.3.4:11435"},
		"extra single quotes": {"'1.2.3.4'", "1.2.3.4:11435"},
		"http":                {"http://1.2.3.4", "1.2.3.4:80"},
		"https":               {"https://1.2.3.4", "1.2.3.4:443"},
	}

	for name, tt := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("POSIDS_HOST", tt.value)
			assert.Equal(t, tt.expect, Host().Host)
		})
	}
}

func TestLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"false": slog.LevelInfo,
		"0":     slog.LevelInfo,
		"1":     slog.LevelDebug,
		"true":  slog.LevelDebug,
		"2":     slog.Level(-8),
	}

	for value, expect := range cases {
		t.Run(value, func(t *testing.T) {
			t.Setenv("POSIDS_DEBUG", value)
			assert.Equal(t, expect, LogLevel())
		})
	}
}

func TestUint(t *testing.T) {
	t.Setenv("POSIDS_MERGE_SIZE", "")
	assert.Equal(t, uint(2), MergeSize())

	t.Setenv("POSIDS_MERGE_SIZE", "4")
	assert.Equal(t, uint(4), MergeSize())

	t.Setenv("POSIDS_MERGE_SIZE", "zwei")
	assert.Equal(t, uint(2), MergeSize())

	t.Setenv("POSIDS_MAX_TOKENS", "0")
	assert.Equal(t, 0, MaxTokens())
}

func TestMaxTokensClamp(t *testing.T) {
	t.Setenv("POSIDS_MAX_TOKENS", "")
	assert.Equal(t, 1<<20, MaxTokens())

	t.Setenv("POSIDS_MAX_TOKENS", "18446744073709551615")
	assert.Equal(t, math.MaxInt, MaxTokens())
}

func TestVerbose(t *testing.T) {
	t.Setenv("POSIDS_VERBOSE", "")
	assert.False(t, Verbose())

	t.Setenv("POSIDS_VERBOSE", "false")
	assert.False(t, Verbose())

	t.Setenv("POSIDS_VERBOSE", "1")
	assert.True(t, Verbose())

	// unlesbare Werte zaehlen als gesetzt
	t.Setenv("POSIDS_VERBOSE", "ja")
	assert.True(t, Verbose())
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("POSIDS_ORIGINS", "http://10.0.0.1,app://posids")
	origins := AllowedOrigins()

	require.GreaterOrEqual(t, len(origins), 2)
	assert.Equal(t, []string{"http://10.0.0.1", "app://posids"}, origins[:2])
	assert.Contains(t, origins, "http://localhost:*")
}

func TestOrdered(t *testing.T) {
	t.Setenv("POSIDS_PATCH_SIZE", "")
	om := Ordered()

	var names []string
	for pair := om.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	assert.Equal(t, []string{
		"POSIDS_DEBUG",
		"POSIDS_HOST",
		"POSIDS_ORIGINS",
		"POSIDS_PATCH_SIZE",
		"POSIDS_MERGE_SIZE",
		"POSIDS_MAX_TOKENS",
		"POSIDS_VERBOSE",
	}, names)

	assert.Len(t, AsMap(), len(names))
	assert.Equal(t, "14", Values()["POSIDS_PATCH_SIZE"])
}
