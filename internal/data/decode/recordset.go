package decode

import "github.com/zjrosen/starforge/internal/data/entities"

// RecordSet holds decoded, not-yet-validated records grouped by collection.
// A single decoded file populates exactly one collection; a pack's sets are
// appended together in file order.
type RecordSet struct {
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
}

// Append moves other's records onto s, preserving order.
func (s *RecordSet) Append(other RecordSet) {
	s.Species = append(s.Species, other.Species...)
	s.PlanetSizes = append(s.PlanetSizes, other.PlanetSizes...)
	s.Buildings = append(s.Buildings, other.Buildings...)
	s.Satellites = append(s.Satellites, other.Satellites...)
	s.Hulls = append(s.Hulls, other.Hulls...)
	s.Engines = append(s.Engines, other.Engines...)
	s.Weapons = append(s.Weapons, other.Weapons...)
	s.Shields = append(s.Shields, other.Shields...)
	s.Scanners = append(s.Scanners, other.Scanners...)
	s.Techs = append(s.Techs, other.Techs...)
	s.TechEdges = append(s.TechEdges, other.TechEdges...)
	s.VictoryConditions = append(s.VictoryConditions, other.VictoryConditions...)
	s.Scenarios = append(s.Scenarios, other.Scenarios...)
	if other.VictoryRules != nil {
		rules := *other.VictoryRules
		s.VictoryRules = &rules
	}
}

// Clone returns an independent copy. Records themselves are value types, so
// copying the slices is sufficient; the decode cache relies on this to hand
// out sets the pipeline may own.
func (s RecordSet) Clone() RecordSet {
	out := RecordSet{
		Species:           append([]entities.Species(nil), s.Species...),
		PlanetSizes:       append([]entities.PlanetSize(nil), s.PlanetSizes...),
		Buildings:         append([]entities.Building(nil), s.Buildings...),
		Satellites:        append([]entities.Building(nil), s.Satellites...),
		Hulls:             append([]entities.Hull(nil), s.Hulls...),
		Engines:           append([]entities.Engine(nil), s.Engines...),
		Weapons:           append([]entities.Weapon(nil), s.Weapons...),
		Shields:           append([]entities.Shield(nil), s.Shields...),
		Scanners:          append([]entities.Scanner(nil), s.Scanners...),
		Techs:             append([]entities.Tech(nil), s.Techs...),
		TechEdges:         append([]entities.TechEdge(nil), s.TechEdges...),
		VictoryConditions: append([]entities.VictoryCondition(nil), s.VictoryConditions...),
		Scenarios:         append([]entities.Scenario(nil), s.Scenarios...),
	}
	if s.VictoryRules != nil {
		rules := *s.VictoryRules
		out.VictoryRules = &rules
	}
	return out
}
