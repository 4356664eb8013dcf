package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/photometry-service/internal/domain"
)

func TestBuiltin_Lookup(t *testing.T) {
	c := Builtin()
	ctx := context.Background()

	f, err := c.Lookup(ctx, "LED-Bar-600")
	require.NoError(t, err)
	assert.Equal(t, 1620.0, f.PPF)
	assert.Equal(t, 120.0, f.BeamAngle)

	_, err = c.Lookup(ctx, "no-such-lamp")
	assert.ErrorIs(t, err, domain.ErrFixtureNotFound)
}

func TestBuiltin_ListSorted(t *testing.T) {
	fixtures, err := Builtin().List(context.Background())
	require.NoError(t, err)
	require.Len(t, fixtures, len(builtinFixtures))

	for i := 1; i < len(fixtures); i++ {
		assert.Less(t, fixtures[i-1].Model, fixtures[i].Model)
	}
}

func TestNew_RejectsInvalidFixtures(t *testing.T) {
	tests := []struct {
		name    string
		fixture domain.Fixture
	}{
		{name: "missing model", fixture: domain.Fixture{PPF: 100, BeamAngle: 120}},
		{name: "zero ppf", fixture: domain.Fixture{Model: "x", BeamAngle: 120}},
		{name: "beam too wide", fixture: domain.Fixture{Model: "x", PPF: 100, BeamAngle: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fixture)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_OverridesBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	content := `
fixtures:
  - model: led-bar-600
    ppf: 1700
    beam_angle: 110
    wattage: 600
  - model: custom-tile
    manufacturer: in-house
    ppf: 300
    beam_angle: 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	ctx := context.Background()

	bar, err := c.Lookup(ctx, "led-bar-600")
	require.NoError(t, err)
	assert.Equal(t, 1700.0, bar.PPF)
	assert.Equal(t, 110.0, bar.BeamAngle)

	tile, err := c.Lookup(ctx, "custom-tile")
	require.NoError(t, err)
	assert.Equal(t, "in-house", tile.Manufacturer)

	cob, err := c.Lookup(ctx, "led-cob-100")
	require.NoError(t, err, "built-in fixtures remain available")
	assert.Equal(t, 230.0, cob.PPF)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("fixtures:\n  - model: x\n    ppf: -5\n    beam_angle: 90\n"), 0o644))
	_, err = LoadFile(bad)
	assert.Error(t, err)
}
