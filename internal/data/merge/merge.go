// Package merge folds the per-source record sets into one ordered record
// list per collection. First occurrence of an id fixes its position; every
// later occurrence overwrites the stored record entirely (last write wins).
// The engine performs no validation — it only computes the merged view plus
// a provenance trail of which source last touched each id.
package merge

import (
	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/entities"
)

// Input is one source's decoded records, tagged with the source name.
// Inputs must already be in resolver order.
type Input struct {
	Source string
	Set    decode.RecordSet
}

// Provenance records, per collection, which source last wrote each id.
// The victory_rules singleton uses the empty id.
type Provenance map[entities.Collection]map[string]string

// Origin returns the source that last touched the id, or "".
func (p Provenance) Origin(col entities.Collection, id string) string {
	return p[col][id]
}

func (p Provenance) set(col entities.Collection, id, source string) {
	m, ok := p[col]
	if !ok {
		m = map[string]string{}
		p[col] = m
	}
	m[id] = source
}

// Result is the merged view of all sources.
type Result struct {
	Species           []entities.Species
	PlanetSizes       []entities.PlanetSize
	Buildings         []entities.Building
	Satellites        []entities.Building
	Hulls             []entities.Hull
	Engines           []entities.Engine
	Weapons           []entities.Weapon
	Shields           []entities.Shield
	Scanners          []entities.Scanner
	Techs             []entities.Tech
	TechEdges         []entities.TechEdge
	VictoryConditions []entities.VictoryCondition
	Scenarios         []entities.Scenario
	VictoryRules      *entities.VictoryRules

	Provenance Provenance
}

// ordered is an insertion-ordered map over records keyed by EntityID.
type ordered[T entities.Identified] struct {
	index   map[string]int
	records []T
}

func (o *ordered[T]) fold(items []T, source string, col entities.Collection, prov Provenance) {
	if o.index == nil {
		o.index = map[string]int{}
	}
	for _, item := range items {
		id := item.EntityID()
		if pos, ok := o.index[id]; ok {
			o.records[pos] = item
		} else {
			o.index[id] = len(o.records)
			o.records = append(o.records, item)
		}
		prov.set(col, id, source)
	}
}

// Merge folds the inputs in order into a single Result.
func Merge(inputs []Input) Result {
	prov := Provenance{}

	var (
		species    ordered[entities.Species]
		sizes      ordered[entities.PlanetSize]
		buildings  ordered[entities.Building]
		satellites ordered[entities.Building]
		hulls      ordered[entities.Hull]
		engines    ordered[entities.Engine]
		weapons    ordered[entities.Weapon]
		shields    ordered[entities.Shield]
		scanners   ordered[entities.Scanner]
		techs      ordered[entities.Tech]
		edges      ordered[entities.TechEdge]
		victories  ordered[entities.VictoryCondition]
		scenarios  ordered[entities.Scenario]
	)

	var rules *entities.VictoryRules

	for _, input := range inputs {
		set := input.Set
		species.fold(set.Species, input.Source, entities.ColSpecies, prov)
		sizes.fold(set.PlanetSizes, input.Source, entities.ColPlanetSizes, prov)
		buildings.fold(set.Buildings, input.Source, entities.ColBuildings, prov)
		satellites.fold(set.Satellites, input.Source, entities.ColSatellites, prov)
		hulls.fold(set.Hulls, input.Source, entities.ColHulls, prov)
		engines.fold(set.Engines, input.Source, entities.ColEngines, prov)
		weapons.fold(set.Weapons, input.Source, entities.ColWeapons, prov)
		shields.fold(set.Shields, input.Source, entities.ColShields, prov)
		scanners.fold(set.Scanners, input.Source, entities.ColScanners, prov)
		techs.fold(set.Techs, input.Source, entities.ColTechs, prov)
		edges.fold(set.TechEdges, input.Source, entities.ColTechEdges, prov)
		victories.fold(set.VictoryConditions, input.Source, entities.ColVictoryConditions, prov)
		scenarios.fold(set.Scenarios, input.Source, entities.ColScenarios, prov)

		// Singleton: whole-struct replacement by source order.
		if set.VictoryRules != nil {
			copied := *set.VictoryRules
			rules = &copied
			prov.set(entities.ColVictoryRules, "", input.Source)
		}
	}

	return Result{
		Species:           species.records,
		PlanetSizes:       sizes.records,
		Buildings:         buildings.records,
		Satellites:        satellites.records,
		Hulls:             hulls.records,
		Engines:           engines.records,
		Weapons:           weapons.records,
		Shields:           shields.records,
		Scanners:          scanners.records,
		Techs:             techs.records,
		TechEdges:         edges.records,
		VictoryConditions: victories.records,
		Scenarios:         scenarios.records,
		VictoryRules:      rules,
		Provenance:        prov,
	}
}
