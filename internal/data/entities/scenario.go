package entities

// Scenario defines starting conditions and win criteria for a session.
type Scenario struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`

	// GridWidth and GridHeight size the starting planet surface in cells.
	// Both must be positive.
	GridWidth  int `json:"grid_width"`
	GridHeight int `json:"grid_height"`

	// BlackRatio is the fraction of unbuildable cells, in [0, 1].
	BlackRatio float64 `json:"black_ratio"`

	// StartBuildingID references the building placed at game start.
	StartBuildingID string `json:"start_building_id"`
	// VictoryConditionID references the victory condition in effect.
	VictoryConditionID string `json:"victory_condition_id"`
}

// EntityID implements Identified.
func (s Scenario) EntityID() string { return s.ID }
