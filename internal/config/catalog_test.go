package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalCatalog = `
parameters:
  facility_cost_multiplier_by_amount: 1.15
  tick_rate: 5
facilities:
  - { key: keyboard, name: Keyboard, base_cost: 15, base_cps: 0.1, init_visual: covered }
  - { key: grandma, name: Grandma, base_cost: 100, base_cps: 1, init_visual: hidden }
upgrades:
  - key: reinforced_index_finger
    name: Reinforced index finger
    price: 100
    effects:
      - { target: keyboard, kind: multiply, value: 2 }
    unlock: { kind: owned_at_least, facility: keyboard, count: 1 }
sentences:
  - hello
`

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 1.15, c.Parameters.FacilityCostMultiplier)
	assert.Greater(t, c.Parameters.TickRate, 0)
	assert.Len(t, c.Facilities, 20)
	assert.Equal(t, "keyboard", c.Facilities[0].Key)
	assert.Equal(t, float64(15), c.Facilities[0].BaseCost)
	assert.Equal(t, "you", c.Facilities[19].Key)
	assert.NotEmpty(t, c.Upgrades)
	assert.NotEmpty(t, c.Sentences)
	assert.Len(t, c.Digest, 64)

	f, ok := c.Facility("grandma")
	require.True(t, ok)
	assert.Equal(t, float64(100), f.BaseCost)
}

func TestParseMinimal(t *testing.T) {
	c, err := Parse([]byte(minimalCatalog))
	require.NoError(t, err)

	assert.Equal(t, 5, c.Parameters.TickRate)
	assert.Equal(t, 1.0, c.Parameters.CookiesPerType, "defaults when omitted")
	require.Len(t, c.Upgrades, 1)
	assert.Equal(t, EffectMultiply, c.Upgrades[0].Effects[0].Kind)
	assert.Equal(t, UnlockOwnedAtLeast, c.Upgrades[0].Unlock.Kind)
	assert.Equal(t, float64(1), c.Upgrades[0].Unlock.Count)
	assert.Equal(t, "200ms", c.Parameters.TickInterval().String())
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(string) string
		errPart string
	}{
		{
			name:    "ratio not above one",
			mutate:  func(s string) string { return strings.Replace(s, "1.15", "1.0", 1) },
			errPart: "schema",
		},
		{
			name:    "unknown visual",
			mutate:  func(s string) string { return strings.Replace(s, "init_visual: hidden", "init_visual: foggy", 1) },
			errPart: "schema",
		},
		{
			name:    "duplicate facility",
			mutate:  func(s string) string { return strings.Replace(s, "key: grandma", "key: keyboard", 1) },
			errPart: "duplicate key",
		},
		{
			name:    "fractional base cost",
			mutate:  func(s string) string { return strings.Replace(s, "base_cost: 100", "base_cost: 100.5", 1) },
			errPart: "whole number",
		},
		{
			name:    "unknown effect target",
			mutate:  func(s string) string { return strings.Replace(s, "target: keyboard", "target: spaceship", 1) },
			errPart: "unknown target",
		},
		{
			name:    "unknown unlock facility",
			mutate:  func(s string) string { return strings.Replace(s, "facility: keyboard", "facility: spaceship", 1) },
			errPart: "unknown facility",
		},
		{
			name:    "zero cookies per type",
			mutate:  func(s string) string { return strings.Replace(s, "tick_rate: 5", "tick_rate: 5\n  cookies_per_type: 0", 1) },
			errPart: "schema",
		},
		{
			name:    "unexpected field",
			mutate:  func(s string) string { return strings.Replace(s, "tick_rate: 5", "tick_rate: 5\n  fps: 60", 1) },
			errPart: "schema",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.mutate(minimalCatalog)))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalog), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Facilities, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parameters: ["), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestCookiesPerType(t *testing.T) {
	c, err := Parse([]byte(strings.Replace(minimalCatalog, "tick_rate: 5", "tick_rate: 5\n  cookies_per_type: 2.5", 1)))
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Parameters.CookiesPerType)

	c.Parameters.CookiesPerType = 0
	assert.ErrorContains(t, c.validate(), "cookies_per_type must be > 0")
}
