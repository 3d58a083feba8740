package registry

// Typed identifiers, one per collection. An id from one collection cannot be
// passed where another collection's id is expected; values are produced by
// the registry builder after validation succeeds.
type (
	SpeciesID          string
	PlanetSizeID       string
	BuildingID         string
	SatelliteID        string
	HullID             string
	EngineID           string
	WeaponID           string
	ShieldID           string
	ScannerID          string
	TechID             string
	VictoryConditionID string
	ScenarioID         string
)

// Ref is a dense zero-based index into a collection's record table, tagged
// with the collection's id type so refs cannot cross collections either.
// Refs are stable within a snapshot and reassigned on every load.
type Ref[ID ~string] int
