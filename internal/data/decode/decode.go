// Package decode turns individual data files into intermediate,
// collection-tagged record lists. Decoding one file is independent of all
// others: a broken file yields a ParseError or SchemaError for that file
// only. Records leave this package unvalidated and untyped; the validator
// and registry builder take over from there.
package decode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/starforge/internal/data/entities"
)

// Encodings lists the supported data file extensions in preference order.
// When a pack carries both encodings of the same collection, the earlier
// extension wins.
var Encodings = []string{".toml", ".yaml", ".yml"}

// stems maps a collection to its file stem inside a pack.
var stems = map[entities.Collection]string{
	entities.ColSpecies:           "species",
	entities.ColPlanetSizes:       "planet_sizes",
	entities.ColBuildings:         "buildings",
	entities.ColSatellites:        "satellites",
	entities.ColHulls:             "hulls",
	entities.ColEngines:           "engines",
	entities.ColWeapons:           "weapons",
	entities.ColShields:           "shields",
	entities.ColScanners:          "scanners",
	entities.ColTechs:             "research",
	entities.ColTechEdges:         "research_edges",
	entities.ColVictoryConditions: "victory_conditions",
	entities.ColScenarios:         "scenarios",
	entities.ColVictoryRules:      "victory_rules",
}

// StemForCollection returns the file stem a collection is stored under.
func StemForCollection(col entities.Collection) string {
	return stems[col]
}

// CollectionForFile maps a data file name (base name, any supported
// extension) to its collection.
func CollectionForFile(name string) (entities.Collection, bool) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	if !isEncoding(ext) {
		return "", false
	}
	for col, s := range stems {
		if s == stem {
			return col, true
		}
	}
	return "", false
}

func isEncoding(ext string) bool {
	for _, e := range Encodings {
		if e == ext {
			return true
		}
	}
	return false
}

// DecodeFile parses one collection data file into a RecordSet populating
// exactly that collection. The encoding is chosen by file extension; both
// encodings share the same record shape.
func DecodeFile(path string, col entities.Collection) (RecordSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return RecordSet{}, &ParseError{Path: path, Err: err}
	}

	raw := map[string]any{}
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if err := toml.Unmarshal(content, &raw); err != nil {
			return RecordSet{}, &ParseError{Path: path, Err: err}
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return RecordSet{}, &ParseError{Path: path, Err: err}
		}
	default:
		return RecordSet{}, fmt.Errorf("%w: %s", ErrUnknownEncoding, path)
	}

	return normalize(path, col, raw)
}

// normalize maps the raw decoded document onto typed records.
func normalize(path string, col entities.Collection, raw map[string]any) (RecordSet, error) {
	var set RecordSet

	if col == entities.ColVictoryRules {
		rules, err := victoryRules(path, raw)
		if err != nil {
			return RecordSet{}, err
		}
		set.VictoryRules = rules
		return set, nil
	}

	recs, err := tables(path, col, raw)
	if err != nil {
		return RecordSet{}, err
	}

	// One id may appear at most once per file. A repeat is a schema problem
	// for the file itself, not an overlay for the merge engine to resolve.
	seen := map[string]struct{}{}
	for _, r := range recs {
		var err error
		switch col {
		case entities.ColSpecies:
			set.Species, err = appendRecord(set.Species, seen, r, speciesRecord)
		case entities.ColPlanetSizes:
			set.PlanetSizes, err = appendRecord(set.PlanetSizes, seen, r, planetSizeRecord)
		case entities.ColBuildings:
			set.Buildings, err = appendRecord(set.Buildings, seen, r, buildingRecord)
		case entities.ColSatellites:
			set.Satellites, err = appendRecord(set.Satellites, seen, r, buildingRecord)
		case entities.ColHulls:
			set.Hulls, err = appendRecord(set.Hulls, seen, r, hullRecord)
		case entities.ColEngines:
			set.Engines, err = appendRecord(set.Engines, seen, r, engineRecord)
		case entities.ColWeapons:
			set.Weapons, err = appendRecord(set.Weapons, seen, r, weaponRecord)
		case entities.ColShields:
			set.Shields, err = appendRecord(set.Shields, seen, r, shieldRecord)
		case entities.ColScanners:
			set.Scanners, err = appendRecord(set.Scanners, seen, r, scannerRecord)
		case entities.ColTechs:
			set.Techs, err = appendRecord(set.Techs, seen, r, techRecord)
		case entities.ColTechEdges:
			set.TechEdges, err = appendRecord(set.TechEdges, seen, r, techEdgeRecord)
		case entities.ColVictoryConditions:
			set.VictoryConditions, err = appendRecord(set.VictoryConditions, seen, r, victoryConditionRecord)
		case entities.ColScenarios:
			set.Scenarios, err = appendRecord(set.Scenarios, seen, r, scenarioRecord)
		}
		if err != nil {
			return RecordSet{}, err
		}
	}

	return set, nil
}

// appendRecord decodes one record and appends it, rejecting an id that
// already appeared earlier in the same file.
func appendRecord[T entities.Identified](dst []T, seen map[string]struct{}, r record, fn func(record) (T, error)) ([]T, error) {
	v, err := fn(r)
	if err != nil {
		return nil, err
	}
	id := v.EntityID()
	if _, dup := seen[id]; dup {
		return nil, r.schemaErr("duplicate id %q within one file", id)
	}
	seen[id] = struct{}{}
	return append(dst, v), nil
}

// tables extracts the array-of-tables for the collection's top-level key.
func tables(path string, col entities.Collection, raw map[string]any) ([]record, error) {
	key := string(col)
	value, ok := raw[key]
	if !ok {
		return nil, &SchemaError{Path: path, Message: fmt.Sprintf("missing top-level %q table", key)}
	}

	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []map[string]any:
		for _, m := range v {
			items = append(items, m)
		}
	default:
		return nil, &SchemaError{Path: path, Message: fmt.Sprintf("%q must be a list of records", key)}
	}

	recs := make([]record, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, &SchemaError{Path: path, Message: fmt.Sprintf("%s[%d] must be a record", key, i)}
		}
		recs = append(recs, record{
			fields: fields,
			path:   path,
			label:  fmt.Sprintf("%s[%d]", key, i),
		})
	}
	return recs, nil
}

func victoryRules(path string, raw map[string]any) (*entities.VictoryRules, error) {
	r := record{fields: raw, path: path, label: string(entities.ColVictoryRules)}
	threshold, err := r.float("domination_threshold")
	if err != nil {
		return nil, err
	}
	return &entities.VictoryRules{DominationThreshold: threshold}, nil
}

func named(r *record) (id string, name, desc entities.LocalizedText, err error) {
	if id, err = r.id(); err != nil {
		return
	}
	if name, err = r.text("name", true); err != nil {
		return
	}
	desc, err = r.text("description", false)
	return
}

func speciesRecord(r record) (entities.Species, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Species{}, err
	}
	return entities.Species{ID: id, Name: name, Description: desc}, nil
}

func planetSizeRecord(r record) (entities.PlanetSize, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.PlanetSize{}, err
	}
	v := entities.PlanetSize{ID: id, Name: name, Description: desc}
	if v.SurfaceSlots, err = r.integer("surface_slots"); err != nil {
		return entities.PlanetSize{}, err
	}
	if v.OrbitalSlots, err = r.integer("orbital_slots"); err != nil {
		return entities.PlanetSize{}, err
	}
	return v, nil
}

func buildingRecord(r record) (entities.Building, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Building{}, err
	}
	v := entities.Building{ID: id, Name: name, Description: desc}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"industry_bonus", &v.IndustryBonus},
		{"research_bonus", &v.ResearchBonus},
		{"prosperity_bonus", &v.ProsperityBonus},
		{"max_population_bonus", &v.MaxPopulationBonus},
		{"slot_size", &v.SlotSize},
		{"industry_cost", &v.IndustryCost},
	} {
		if *f.dst, err = r.integer(f.key); err != nil {
			return entities.Building{}, err
		}
	}
	if v.TechID, err = r.optStr("tech_id"); err != nil {
		return entities.Building{}, err
	}
	return v, nil
}

func hullRecord(r record) (entities.Hull, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Hull{}, err
	}
	v := entities.Hull{ID: id, Name: name, Description: desc}
	if v.SizeIndex, err = r.integer("size_index"); err != nil {
		return entities.Hull{}, err
	}
	if v.MaxItems, err = r.integer("max_items"); err != nil {
		return entities.Hull{}, err
	}
	return v, nil
}

func engineRecord(r record) (entities.Engine, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Engine{}, err
	}
	v := entities.Engine{ID: id, Name: name, Description: desc}
	if v.PowerUse, err = r.integer("power_use"); err != nil {
		return entities.Engine{}, err
	}
	if v.ThrustRating, err = r.float("thrust_rating"); err != nil {
		return entities.Engine{}, err
	}
	if v.IndustryCost, err = r.integer("industry_cost"); err != nil {
		return entities.Engine{}, err
	}
	return v, nil
}

func weaponRecord(r record) (entities.Weapon, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Weapon{}, err
	}
	v := entities.Weapon{ID: id, Name: name, Description: desc}
	if v.PowerUse, err = r.integer("power_use"); err != nil {
		return entities.Weapon{}, err
	}
	if v.Range, err = r.integer("range"); err != nil {
		return entities.Weapon{}, err
	}
	if v.Strength, err = r.float("strength"); err != nil {
		return entities.Weapon{}, err
	}
	if v.UsesPerTurn, err = r.integer("uses_per_turn"); err != nil {
		return entities.Weapon{}, err
	}
	if v.IndustryCost, err = r.integer("industry_cost"); err != nil {
		return entities.Weapon{}, err
	}
	if v.TechID, err = r.optStr("tech_id"); err != nil {
		return entities.Weapon{}, err
	}
	return v, nil
}

func shieldRecord(r record) (entities.Shield, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Shield{}, err
	}
	v := entities.Shield{ID: id, Name: name, Description: desc}
	if v.Strength, err = r.float("strength"); err != nil {
		return entities.Shield{}, err
	}
	if v.IndustryCost, err = r.integer("industry_cost"); err != nil {
		return entities.Shield{}, err
	}
	return v, nil
}

func scannerRecord(r record) (entities.Scanner, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Scanner{}, err
	}
	v := entities.Scanner{ID: id, Name: name, Description: desc}
	if v.Range, err = r.integer("range"); err != nil {
		return entities.Scanner{}, err
	}
	if v.Strength, err = r.float("strength"); err != nil {
		return entities.Scanner{}, err
	}
	if v.IndustryCost, err = r.integer("industry_cost"); err != nil {
		return entities.Scanner{}, err
	}
	return v, nil
}

func techRecord(r record) (entities.Tech, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Tech{}, err
	}
	v := entities.Tech{ID: id, Name: name, Description: desc}
	if v.ResearchCost, err = r.integer("research_cost"); err != nil {
		return entities.Tech{}, err
	}
	return v, nil
}

func techEdgeRecord(r record) (entities.TechEdge, error) {
	var v entities.TechEdge
	var err error
	if v.From, err = r.str("from"); err != nil {
		return entities.TechEdge{}, err
	}
	if v.To, err = r.str("to"); err != nil {
		return entities.TechEdge{}, err
	}
	return v, nil
}

func victoryConditionRecord(r record) (entities.VictoryCondition, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.VictoryCondition{}, err
	}
	v := entities.VictoryCondition{ID: id, Name: name, Description: desc}
	if v.Kind, err = r.str("kind"); err != nil {
		return entities.VictoryCondition{}, err
	}
	return v, nil
}

func scenarioRecord(r record) (entities.Scenario, error) {
	id, name, desc, err := named(&r)
	if err != nil {
		return entities.Scenario{}, err
	}
	v := entities.Scenario{ID: id, Name: name, Description: desc}
	if v.GridWidth, err = r.integer("grid_width"); err != nil {
		return entities.Scenario{}, err
	}
	if v.GridHeight, err = r.integer("grid_height"); err != nil {
		return entities.Scenario{}, err
	}
	if v.BlackRatio, err = r.float("black_ratio"); err != nil {
		return entities.Scenario{}, err
	}
	if v.StartBuildingID, err = r.str("start_building_id"); err != nil {
		return entities.Scenario{}, err
	}
	if v.VictoryConditionID, err = r.str("victory_condition_id"); err != nil {
		return entities.Scenario{}, err
	}
	return v, nil
}
