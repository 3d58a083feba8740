package entities

// Collection names a record collection. Collection values appear in
// diagnostics and in the provenance trail; the set is fixed at compile time.
type Collection string

const (
	ColSpecies           Collection = "species"
	ColPlanetSizes       Collection = "planet_sizes"
	ColBuildings         Collection = "buildings"
	ColSatellites        Collection = "satellites"
	ColHulls             Collection = "hulls"
	ColEngines           Collection = "engines"
	ColWeapons           Collection = "weapons"
	ColShields           Collection = "shields"
	ColScanners          Collection = "scanners"
	ColTechs             Collection = "techs"
	ColTechEdges         Collection = "tech_edges"
	ColVictoryConditions Collection = "victory_conditions"
	ColScenarios         Collection = "scenarios"
	ColVictoryRules      Collection = "victory_rules"
)

// Collections lists every collection in pipeline order. The order is the
// order collections are merged, validated and indexed in.
var Collections = []Collection{
	ColSpecies,
	ColPlanetSizes,
	ColBuildings,
	ColSatellites,
	ColHulls,
	ColEngines,
	ColWeapons,
	ColShields,
	ColScanners,
	ColTechs,
	ColTechEdges,
	ColVictoryConditions,
	ColScenarios,
	ColVictoryRules,
}

// Identified is implemented by every record keyed by a stable string id.
type Identified interface {
	EntityID() string
}
