package decode_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/entities"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDecodeFile_TOML(t *testing.T) {
	path := writeFile(t, "weapons.toml", `
[[weapons]]
id = "laser"
name = { en = "Laser", ru = "Лазер" }
description = "Pew pew"
power_use = 1
range = 2
strength = 1.5
uses_per_turn = 2
industry_cost = 6
tech_id = "basic_physics"
`)

	set, err := decode.DecodeFile(path, entities.ColWeapons)
	require.NoError(t, err)
	require.Len(t, set.Weapons, 1)

	w := set.Weapons[0]
	assert.Equal(t, "laser", w.ID)
	assert.Equal(t, "Laser", w.Name.En)
	assert.Equal(t, "Лазер", w.Name.Ru)
	assert.Equal(t, "Pew pew", w.Description.En)
	assert.Equal(t, 1, w.PowerUse)
	assert.Equal(t, 2, w.Range)
	assert.InDelta(t, 1.5, w.Strength, 1e-9)
	assert.Equal(t, 2, w.UsesPerTurn)
	assert.Equal(t, "basic_physics", w.TechID)
}

func TestDecodeFile_YAML(t *testing.T) {
	path := writeFile(t, "weapons.yaml", `
weapons:
  - id: laser
    name:
      en: Laser
    power_use: 1
    range: 2
    strength: 1.5
    uses_per_turn: 2
    industry_cost: 6
`)

	set, err := decode.DecodeFile(path, entities.ColWeapons)
	require.NoError(t, err)
	require.Len(t, set.Weapons, 1)
	assert.Equal(t, "laser", set.Weapons[0].ID)
	assert.Equal(t, "Laser", set.Weapons[0].Name.En)
}

func TestDecodeFile_PlainStringName(t *testing.T) {
	path := writeFile(t, "species.toml", `
[[species]]
id = "terrans"
name = "Terrans"
`)

	set, err := decode.DecodeFile(path, entities.ColSpecies)
	require.NoError(t, err)
	require.Len(t, set.Species, 1)
	assert.Equal(t, "Terrans", set.Species[0].Name.En)
	assert.Empty(t, set.Species[0].Name.Ru)
}

func TestDecodeFile_ParseError(t *testing.T) {
	path := writeFile(t, "weapons.toml", `[[weapons`)

	_, err := decode.DecodeFile(path, entities.ColWeapons)
	var parseErr *decode.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
}

func TestDecodeFile_SchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing top-level table", `other = 1`},
		{"missing id", "[[weapons]]\nname = \"Laser\"\npower_use = 1\nrange = 1\nstrength = 1.0\nuses_per_turn = 1\nindustry_cost = 1"},
		{"missing name", "[[weapons]]\nid = \"laser\"\npower_use = 1\nrange = 1\nstrength = 1.0\nuses_per_turn = 1\nindustry_cost = 1"},
		{"wrong field type", "[[weapons]]\nid = \"laser\"\nname = \"Laser\"\npower_use = \"lots\"\nrange = 1\nstrength = 1.0\nuses_per_turn = 1\nindustry_cost = 1"},
		{"missing integer field", "[[weapons]]\nid = \"laser\"\nname = \"Laser\"\npower_use = 1\nrange = 1\nstrength = 1.0\nuses_per_turn = 1"},
		{"missing float field", "[[weapons]]\nid = \"laser\"\nname = \"Laser\"\npower_use = 1\nrange = 1\nuses_per_turn = 1\nindustry_cost = 1"},
		{"unknown locale", "[[weapons]]\nid = \"laser\"\nname = { en = \"Laser\", de = \"Laser\" }\npower_use = 1\nrange = 1\nstrength = 1.0\nuses_per_turn = 1\nindustry_cost = 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "weapons.toml", tc.content)
			_, err := decode.DecodeFile(path, entities.ColWeapons)
			var schemaErr *decode.SchemaError
			require.ErrorAs(t, err, &schemaErr)
		})
	}
}

func TestDecodeFile_DuplicateIDInOneFile(t *testing.T) {
	path := writeFile(t, "buildings.toml", `
[[buildings]]
id = "housing"
name = "Housing"
industry_bonus = 0
research_bonus = 0
prosperity_bonus = 1
max_population_bonus = 2
slot_size = 1
industry_cost = 5

[[buildings]]
id = "housing"
name = "Housing"
industry_bonus = 0
research_bonus = 0
prosperity_bonus = 1
max_population_bonus = 2
slot_size = 1
industry_cost = 9
`)

	_, err := decode.DecodeFile(path, entities.ColBuildings)
	var schemaErr *decode.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Message, `duplicate id "housing"`)
}

func TestDecodeFile_Scanners(t *testing.T) {
	path := writeFile(t, "scanners.toml", `
[[scanners]]
id = "radar_array"
name = "Radar Array"
range = 3
strength = 1.0
industry_cost = 5
`)

	set, err := decode.DecodeFile(path, entities.ColScanners)
	require.NoError(t, err)
	require.Len(t, set.Scanners, 1)

	s := set.Scanners[0]
	assert.Equal(t, "radar_array", s.ID)
	assert.Equal(t, 3, s.Range)
	assert.InDelta(t, 1.0, s.Strength, 1e-9)
	assert.Equal(t, 5, s.IndustryCost)
}

func TestDecodeFile_VictoryRulesSingleton(t *testing.T) {
	path := writeFile(t, "victory_rules.toml", `domination_threshold = 0.75`)

	set, err := decode.DecodeFile(path, entities.ColVictoryRules)
	require.NoError(t, err)
	require.NotNil(t, set.VictoryRules)
	assert.InDelta(t, 0.75, set.VictoryRules.DominationThreshold, 1e-9)
}

func TestDecodeFile_EmptyEdgeList(t *testing.T) {
	path := writeFile(t, "research_edges.toml", `tech_edges = []`)

	set, err := decode.DecodeFile(path, entities.ColTechEdges)
	require.NoError(t, err)
	assert.Empty(t, set.TechEdges)
}

func TestCollectionForFile(t *testing.T) {
	tests := []struct {
		name string
		col  entities.Collection
		ok   bool
	}{
		{"weapons.toml", entities.ColWeapons, true},
		{"research.toml", entities.ColTechs, true},
		{"research_edges.yaml", entities.ColTechEdges, true},
		{"victory_rules.yml", entities.ColVictoryRules, true},
		{"weapons.txt", "", false},
		{"notes.toml", "", false},
	}
	for _, tc := range tests {
		col, ok := decode.CollectionForFile(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		if ok {
			assert.Equal(t, tc.col, col, tc.name)
		}
	}
}

func TestCache_ReusesUnchangedFiles(t *testing.T) {
	path := writeFile(t, "shields.toml", `
[[shields]]
id = "deflector"
name = "Deflector"
strength = 2.0
industry_cost = 7
`)
	cache := decode.NewCache()

	first, err := cache.Decode(path, entities.ColShields)
	require.NoError(t, err)
	second, err := cache.Decode(path, entities.ColShields)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Mutating the returned set must not poison the cache.
	second.Shields[0].ID = "mutated"
	third, err := cache.Decode(path, entities.ColShields)
	require.NoError(t, err)
	assert.Equal(t, "deflector", third.Shields[0].ID)
}

func TestCache_ErrorsNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shields.toml")
	require.NoError(t, os.WriteFile(path, []byte(`[[shields`), 0644))

	cache := decode.NewCache()
	_, err := cache.Decode(path, entities.ColShields)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[[shields]]\nid = \"deflector\"\nname = \"Deflector\"\nstrength = 2.0\nindustry_cost = 7\n"), 0644))
	set, err := cache.Decode(path, entities.ColShields)
	require.NoError(t, err)
	require.Len(t, set.Shields, 1)
}
