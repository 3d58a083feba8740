package entities

// PlanetSize describes the slot capacity of a planet class.
type PlanetSize struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	// SurfaceSlots is the number of surface building slots. Must be positive.
	SurfaceSlots int `json:"surface_slots"`
	// OrbitalSlots is the number of orbital slots. Must be positive.
	OrbitalSlots int `json:"orbital_slots"`
}

// EntityID implements Identified.
func (p PlanetSize) EntityID() string { return p.ID }

// Building is a constructible planetary installation. The same shape backs
// both the surface buildings collection and the orbital satellites
// collection; they merge and index independently.
type Building struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`

	IndustryBonus      int `json:"industry_bonus"`
	ResearchBonus      int `json:"research_bonus"`
	ProsperityBonus    int `json:"prosperity_bonus"`
	MaxPopulationBonus int `json:"max_population_bonus"`

	// SlotSize is the number of slots the installation occupies. Must be
	// positive.
	SlotSize     int `json:"slot_size"`
	IndustryCost int `json:"industry_cost"`

	// TechID references the technology that unlocks the installation.
	// Empty means available from the start.
	TechID string `json:"tech_id,omitempty"`
}

// EntityID implements Identified.
func (b Building) EntityID() string { return b.ID }
