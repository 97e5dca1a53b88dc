/*
Package config
File: catalog.go
Description:
    Defines the static catalog consumed by the progression engine and loads it
    from YAML. The catalog is the "schema" of the game: facilities in reveal
    order, upgrades with their effects and unlock predicates, global tunables,
    and the prompt sentences used for typing rounds.

    Loading happens in three passes:
    1. Structural validation against the embedded JSON Schema.
    2. Typed decoding into the Catalog struct.
    3. Semantic validation (unique keys, resolvable references).

    A catalog is immutable once returned. Nothing in the engine writes to it.
*/

package config

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// Visibility names accepted by `init_visual`.
const (
	VisualHidden  = "hidden"
	VisualCovered = "covered"
	VisualShown   = "shown"
)

// Effect vocabulary. Any other target string must be a facility key.
const (
	TargetGlobal      = "global"
	TargetActionYield = "action_yield"

	EffectAdd      = "add"
	EffectMultiply = "multiply"
)

// Unlock predicate kinds.
const (
	UnlockOwnedAtLeast    = "owned_at_least"
	UnlockProducedAtLeast = "produced_at_least"
)

// Parameters stores global tuning variables.
type Parameters struct {
	FacilityCostMultiplier float64 `yaml:"facility_cost_multiplier_by_amount" json:"facility_cost_multiplier_by_amount"` // Geometric cost ratio r
	TickRate               int     `yaml:"tick_rate" json:"tick_rate"`                                                   // Ticks per second
	CookiesPerType         float64 `yaml:"cookies_per_type" json:"cookies_per_type"`                                     // Base yield per accuracy point
}

// FacilityConfig is one purchasable production source.
type FacilityConfig struct {
	Key         string  `yaml:"key" json:"key"`                 // Unique ID (e.g., "keyboard")
	Name        string  `yaml:"name" json:"name"`               // Display name
	Description string  `yaml:"description" json:"description"` // Flavor text
	BaseCost    float64 `yaml:"base_cost" json:"base_cost"`     // Price of the first unit (whole number)
	BaseCPS     float64 `yaml:"base_cps" json:"base_cps"`       // Cookies per second per unit before modifiers
	InitVisual  string  `yaml:"init_visual" json:"init_visual"` // hidden, covered or shown
}

// EffectConfig is one effect of an upgrade.
type EffectConfig struct {
	Target string  `yaml:"target" json:"target"` // Facility key, "global" or "action_yield"
	Kind   string  `yaml:"kind" json:"kind"`     // "add" or "multiply"
	Value  float64 `yaml:"value" json:"value"`
}

// UnlockConfig is the declarative unlock predicate of an upgrade.
type UnlockConfig struct {
	Kind     string  `yaml:"kind" json:"kind"`
	Facility string  `yaml:"facility,omitempty" json:"facility,omitempty"` // Only for owned_at_least
	Count    float64 `yaml:"count" json:"count"`
}

// UpgradeConfig is a one-time permanent purchase.
type UpgradeConfig struct {
	Key         string         `yaml:"key" json:"key"`
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Price       float64        `yaml:"price" json:"price"`
	Effects     []EffectConfig `yaml:"effects" json:"effects"`
	Unlock      UnlockConfig   `yaml:"unlock" json:"unlock"`
}

// Catalog is the root configuration struct, mapping to the entire catalog file.
type Catalog struct {
	Parameters Parameters       `yaml:"parameters" json:"parameters"`
	Facilities []FacilityConfig `yaml:"facilities" json:"facilities"`
	Upgrades   []UpgradeConfig  `yaml:"upgrades" json:"upgrades"`
	Sentences  []string         `yaml:"sentences" json:"sentences"`

	// Digest is the sha256 of the raw catalog bytes.
	Digest string `yaml:"-" json:"-"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("catalog.schema.json", string(catalogSchema))
	})
	return schema, schemaErr
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog.yaml: %w", err)
	}
	return c, nil
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Parse decodes and validates raw catalog YAML.
func Parse(raw []byte) (*Catalog, error) {
	// 1. Structural check. The YAML document is round-tripped through JSON so the
	// validator sees the same value shapes it would for a JSON document.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var inst any
	if err := dec.Decode(&inst); err != nil {
		return nil, err
	}
	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err := s.Validate(inst); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	// 2. Typed decode
	// An omitted cookies_per_type keeps the default yield; the decoder
	// leaves absent keys untouched.
	c := Catalog{Parameters: Parameters{CookiesPerType: 1.0}}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}

	// 3. Semantic checks
	if err := c.validate(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256(raw)
	c.Digest = hex.EncodeToString(sum[:])
	return &c, nil
}

// Facility returns the facility config with the given key.
func (c *Catalog) Facility(key string) (FacilityConfig, bool) {
	for _, f := range c.Facilities {
		if f.Key == key {
			return f, true
		}
	}
	return FacilityConfig{}, false
}

// TickInterval is the fixed wall-clock sleep between two ticks.
func (p Parameters) TickInterval() time.Duration {
	return time.Second / time.Duration(p.TickRate)
}
