// Package registry builds the typed, immutable read surface over a merged
// and validated data set. Construction assigns every record a dense Ref and
// precomputes derived stats as parallel slices so lookups after publication
// are allocation-free map or slice reads.
package registry

import (
	"github.com/zjrosen/starforge/internal/data/compute"
	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/merge"
)

// Registry is one fully-built generation of game data. It is immutable after
// Build returns and safe for concurrent readers.
type Registry struct {
	species    Table[SpeciesID, entities.Species]
	sizes      Table[PlanetSizeID, entities.PlanetSize]
	buildings  Table[BuildingID, entities.Building]
	satellites Table[SatelliteID, entities.Building]
	hulls      Table[HullID, entities.Hull]
	engines    Table[EngineID, entities.Engine]
	weapons    Table[WeaponID, entities.Weapon]
	shields    Table[ShieldID, entities.Shield]
	scanners   Table[ScannerID, entities.Scanner]
	techs      Table[TechID, entities.Tech]
	victories  Table[VictoryConditionID, entities.VictoryCondition]
	scenarios  Table[ScenarioID, entities.Scenario]

	rules entities.VictoryRules

	// Derived stats indexed by the owning table's Ref.
	weaponStats    []compute.WeaponStats
	engineStats    []compute.EngineStats
	buildingStats  []compute.BuildingStats
	satelliteStats []compute.BuildingStats
	techStats      []compute.TechStats

	// Research graph adjacency by tech Ref, prerequisite edges resolved.
	prereqs [][]Ref[TechID]
	unlocks [][]Ref[TechID]

	provenance merge.Provenance
}

// Build indexes the merged records and aligns derived stats to the new refs.
// The caller must only build from a validated result; Build still re-checks
// id uniqueness and returns an error on any internal inconsistency.
func Build(m merge.Result, d compute.Derived) (*Registry, error) {
	r := &Registry{provenance: m.Provenance}
	if m.VictoryRules != nil {
		r.rules = *m.VictoryRules
	}

	var err error
	if r.species, err = newTable[SpeciesID](entities.ColSpecies, m.Species); err != nil {
		return nil, err
	}
	if r.sizes, err = newTable[PlanetSizeID](entities.ColPlanetSizes, m.PlanetSizes); err != nil {
		return nil, err
	}
	if r.buildings, err = newTable[BuildingID](entities.ColBuildings, m.Buildings); err != nil {
		return nil, err
	}
	if r.satellites, err = newTable[SatelliteID](entities.ColSatellites, m.Satellites); err != nil {
		return nil, err
	}
	if r.hulls, err = newTable[HullID](entities.ColHulls, m.Hulls); err != nil {
		return nil, err
	}
	if r.engines, err = newTable[EngineID](entities.ColEngines, m.Engines); err != nil {
		return nil, err
	}
	if r.weapons, err = newTable[WeaponID](entities.ColWeapons, m.Weapons); err != nil {
		return nil, err
	}
	if r.shields, err = newTable[ShieldID](entities.ColShields, m.Shields); err != nil {
		return nil, err
	}
	if r.scanners, err = newTable[ScannerID](entities.ColScanners, m.Scanners); err != nil {
		return nil, err
	}
	if r.techs, err = newTable[TechID](entities.ColTechs, m.Techs); err != nil {
		return nil, err
	}
	if r.victories, err = newTable[VictoryConditionID](entities.ColVictoryConditions, m.VictoryConditions); err != nil {
		return nil, err
	}
	if r.scenarios, err = newTable[ScenarioID](entities.ColScenarios, m.Scenarios); err != nil {
		return nil, err
	}

	r.weaponStats = alignStats(m.Weapons, d.Weapons)
	r.engineStats = alignStats(m.Engines, d.Engines)
	r.buildingStats = alignStats(m.Buildings, d.Buildings)
	r.satelliteStats = alignStats(m.Satellites, d.Satellites)
	r.techStats = alignStats(m.Techs, d.Techs)

	r.prereqs = make([][]Ref[TechID], r.techs.Len())
	r.unlocks = make([][]Ref[TechID], r.techs.Len())
	for _, edge := range m.TechEdges {
		from, okFrom := r.techs.Resolve(TechID(edge.From))
		to, okTo := r.techs.Resolve(TechID(edge.To))
		if !okFrom || !okTo {
			// Validation rejects dangling edges; skip rather than panic if
			// an unvalidated result slips through.
			continue
		}
		r.unlocks[from] = append(r.unlocks[from], to)
		r.prereqs[to] = append(r.prereqs[to], from)
	}

	return r, nil
}

// alignStats reorders per-id derived stats into the table's dense layout.
func alignStats[T entities.Identified, S any](records []T, byID map[string]S) []S {
	out := make([]S, len(records))
	for i, item := range records {
		out[i] = byID[item.EntityID()]
	}
	return out
}

func (r *Registry) Species() Table[SpeciesID, entities.Species]          { return r.species }
func (r *Registry) PlanetSizes() Table[PlanetSizeID, entities.PlanetSize] { return r.sizes }
func (r *Registry) Buildings() Table[BuildingID, entities.Building]      { return r.buildings }
func (r *Registry) Satellites() Table[SatelliteID, entities.Building]    { return r.satellites }
func (r *Registry) Hulls() Table[HullID, entities.Hull]                  { return r.hulls }
func (r *Registry) Engines() Table[EngineID, entities.Engine]            { return r.engines }
func (r *Registry) Weapons() Table[WeaponID, entities.Weapon]            { return r.weapons }
func (r *Registry) Shields() Table[ShieldID, entities.Shield]            { return r.shields }
func (r *Registry) Scanners() Table[ScannerID, entities.Scanner]         { return r.scanners }
func (r *Registry) Techs() Table[TechID, entities.Tech]                  { return r.techs }

func (r *Registry) VictoryConditions() Table[VictoryConditionID, entities.VictoryCondition] {
	return r.victories
}

func (r *Registry) Scenarios() Table[ScenarioID, entities.Scenario] { return r.scenarios }

// VictoryRules returns the merged singleton.
func (r *Registry) VictoryRules() entities.VictoryRules { return r.rules }

// WeaponStats returns the derived stats for a weapon ref.
func (r *Registry) WeaponStats(ref Ref[WeaponID]) compute.WeaponStats {
	return r.weaponStats[ref]
}

// EngineStats returns the derived stats for an engine ref.
func (r *Registry) EngineStats(ref Ref[EngineID]) compute.EngineStats {
	return r.engineStats[ref]
}

// BuildingStats returns the derived stats for a building ref.
func (r *Registry) BuildingStats(ref Ref[BuildingID]) compute.BuildingStats {
	return r.buildingStats[ref]
}

// SatelliteStats returns the derived stats for a satellite ref.
func (r *Registry) SatelliteStats(ref Ref[SatelliteID]) compute.BuildingStats {
	return r.satelliteStats[ref]
}

// TechStats returns the derived stats for a tech ref.
func (r *Registry) TechStats(ref Ref[TechID]) compute.TechStats {
	return r.techStats[ref]
}

// Prereqs returns the direct prerequisites of a tech.
func (r *Registry) Prereqs(ref Ref[TechID]) []Ref[TechID] { return r.prereqs[ref] }

// Unlocks returns the techs directly unlocked by a tech.
func (r *Registry) Unlocks(ref Ref[TechID]) []Ref[TechID] { return r.unlocks[ref] }

// Origin reports which source last wrote the given id, or "".
func (r *Registry) Origin(col entities.Collection, id string) string {
	return r.provenance.Origin(col, id)
}
