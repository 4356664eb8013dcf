package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreGlobals puts the global logger back after a test replaces it.
func restoreGlobals(t *testing.T) {
	t.Helper()
	logger, level := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = logger
		zerolog.SetGlobalLevel(level)
	})
}

func TestSetup_JSON(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	closer, err := Setup(Options{Level: "warn", Format: "json", Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("dropped")
	log.Warn().Str("source", "bar").Msg("wide beam")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "bar", entry["source"])
	assert.Equal(t, "wide beam", entry["message"])
}

func TestSetup_Console(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer

	_, err := Setup(Options{Out: &buf})
	require.NoError(t, err)

	log.Info().Msg("starting photometry service")
	assert.Contains(t, buf.String(), "starting photometry service")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_File(t *testing.T) {
	restoreGlobals(t)
	path := filepath.Join(t.TempDir(), "photometry.log")

	closer, err := Setup(Options{Format: "json", File: path, MaxSizeMB: 1, Out: &bytes.Buffer{}})
	require.NoError(t, err)

	log.Info().Float64("avg_ppfd", 493).Msg("computed coverage")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"avg_ppfd":493`)
}

func TestSetup_Errors(t *testing.T) {
	restoreGlobals(t)

	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(Options{Format: "xml"})
	assert.Error(t, err)
}
