// Package testutil provides test fixtures for building data packs on disk.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Pack writes data files into a pack directory for tests.
type Pack struct {
	t   *testing.T
	dir string
}

// NewBasePack creates a base pack directory under a temp root with a
// manifest at schema version 1.
func NewBasePack(t *testing.T) *Pack {
	t.Helper()
	p := &Pack{t: t, dir: filepath.Join(t.TempDir(), "data")}
	require.NoError(t, os.MkdirAll(p.dir, 0755))
	return p.WithManifest(1)
}

// NewModPack creates a mod directory under modsRoot.
func NewModPack(t *testing.T, modsRoot, name string) *Pack {
	t.Helper()
	p := &Pack{t: t, dir: filepath.Join(modsRoot, name)}
	require.NoError(t, os.MkdirAll(p.dir, 0755))
	return p
}

// Dir returns the pack directory.
func (p *Pack) Dir() string { return p.dir }

// ModsRoot returns a sibling "mods" directory next to the pack, creating it
// if needed. Useful for base packs that need a mods root for the resolver.
func (p *Pack) ModsRoot() string {
	p.t.Helper()
	root := filepath.Join(filepath.Dir(p.dir), "mods")
	require.NoError(p.t, os.MkdirAll(root, 0755))
	return root
}

// WithManifest writes manifest.toml with the given schema version.
func (p *Pack) WithManifest(version int) *Pack {
	return p.Write("manifest.toml", fmt.Sprintf("schema_version = %d\n", version))
}

// WithDescriptor writes mod.toml with the given priority.
func (p *Pack) WithDescriptor(priority int) *Pack {
	return p.Write("mod.toml", fmt.Sprintf("priority = %d\n", priority))
}

// WithVersionedDescriptor writes mod.toml with priority and schema version.
func (p *Pack) WithVersionedDescriptor(priority, schemaVersion int) *Pack {
	return p.Write("mod.toml",
		fmt.Sprintf("priority = %d\nschema_version = %d\n", priority, schemaVersion))
}

// Write writes a file into the pack.
func (p *Pack) Write(name, content string) *Pack {
	p.t.Helper()
	require.NoError(p.t, os.WriteFile(filepath.Join(p.dir, name), []byte(content), 0644))
	return p
}

// Remove deletes a file from the pack.
func (p *Pack) Remove(name string) *Pack {
	p.t.Helper()
	require.NoError(p.t, os.Remove(filepath.Join(p.dir, name)))
	return p
}

// WithAllCollections writes a minimal valid file for every collection. The
// resulting pack passes validation as-is; individual tests overwrite the
// files they care about.
func (p *Pack) WithAllCollections() *Pack {
	for name, content := range minimalFiles {
		p.Write(name, content)
	}
	return p
}

// minimalFiles is the smallest data set that validates cleanly.
var minimalFiles = map[string]string{
	"species.toml": `[[species]]
id = "terrans"
name = { en = "Terrans", ru = "Терране" }
`,
	"planet_sizes.toml": `[[planet_sizes]]
id = "medium"
name = { en = "Medium", ru = "Средняя" }
surface_slots = 6
orbital_slots = 2
`,
	"buildings.toml": `[[buildings]]
id = "factory"
name = { en = "Factory", ru = "Завод" }
industry_bonus = 2
research_bonus = 0
prosperity_bonus = 0
max_population_bonus = 0
slot_size = 1
industry_cost = 10
`,
	"satellites.toml": `[[satellites]]
id = "science_station"
name = { en = "Science Station", ru = "Научная станция" }
industry_bonus = 0
research_bonus = 3
prosperity_bonus = 0
max_population_bonus = 0
slot_size = 1
industry_cost = 15
`,
	"hulls.toml": `[[hulls]]
id = "corvette"
name = { en = "Corvette", ru = "Корвет" }
size_index = 1
max_items = 4
`,
	"engines.toml": `[[engines]]
id = "ion_drive"
name = { en = "Ion Drive", ru = "Ионный двигатель" }
power_use = 2
thrust_rating = 3.0
industry_cost = 8
`,
	"weapons.toml": `[[weapons]]
id = "laser"
name = { en = "Laser", ru = "Лазер" }
power_use = 1
range = 2
strength = 1.5
uses_per_turn = 2
industry_cost = 6
`,
	"shields.toml": `[[shields]]
id = "deflector"
name = { en = "Deflector", ru = "Дефлектор" }
strength = 2.0
industry_cost = 7
`,
	"scanners.toml": `[[scanners]]
id = "radar_array"
name = { en = "Radar Array", ru = "Радарная решётка" }
range = 3
strength = 1.0
industry_cost = 5
`,
	"research.toml": `[[techs]]
id = "basic_physics"
name = { en = "Basic Physics", ru = "Основы физики" }
research_cost = 10
`,
	"research_edges.toml": `tech_edges = []
`,
	"victory_conditions.toml": `[[victory_conditions]]
id = "domination"
name = { en = "Domination", ru = "Доминирование" }
kind = "domination"
`,
	"scenarios.toml": `[[scenarios]]
id = "small_spiral"
name = { en = "Small Spiral", ru = "Малая спираль" }
grid_width = 16
grid_height = 16
black_ratio = 0.2
start_building_id = "factory"
victory_condition_id = "domination"
`,
	"victory_rules.toml": `domination_threshold = 0.75
`,
}
