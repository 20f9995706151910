package message

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpdg/groupsend/internal/config"
)

var monday = time.Date(2024, 1, 15, 9, 30, 5, 0, time.Local)

func TestExpand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello {date}", "Hello 2024-01-15"},
		{"{time}", "09:30:05"},
		{"at {datetime} on {weekday}", "at 2024-01-15 09:30:05 on Monday"},
		{"{date} and {date}", "2024-01-15 and 2024-01-15"},
		{"{unknown} {Date}", "{unknown} {Date}"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.in, monday))
		})
	}
}

func TestExpandIsIdempotentWithoutPlaceholders(t *testing.T) {
	once := Expand("Hello {date}", monday)
	assert.Equal(t, once, Expand(once, monday.Add(48*time.Hour)))
}

func TestResolvePrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg.txt")
	require.NoError(t, os.WriteFile(path, []byte("From file {weekday}"), 0644))

	cfg := &config.Config{Message: "inline", MessageFile: path}
	assert.Equal(t, "From file Monday", Resolve(cfg, monday, zerolog.Nop()))
}

func TestResolveMissingFileFallsBackToInline(t *testing.T) {
	cfg := &config.Config{Message: "inline {date}", MessageFile: filepath.Join(t.TempDir(), "nope.txt")}
	assert.Equal(t, "inline 2024-01-15", Resolve(cfg, monday, zerolog.Nop()))
}

func TestResolveUnreadableFileFallsBackToInline(t *testing.T) {
	cfg := &config.Config{Message: "inline", MessageFile: t.TempDir()}
	assert.Equal(t, "inline", Resolve(cfg, monday, zerolog.Nop()))
}

func TestResolveEmptyUsesFallback(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, Fallback, Resolve(&config.Config{Message: msg}, monday, zerolog.Nop()))
	}
}

func TestResolveEmptyFileUsesFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg := &config.Config{Message: "inline", MessageFile: path}
	assert.Equal(t, Fallback, Resolve(cfg, monday, zerolog.Nop()))
}
