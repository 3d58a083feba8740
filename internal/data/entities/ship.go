package entities

// Hull is a ship hull class template used by the ship designer.
type Hull struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	// SizeIndex orders hulls for balancing. Must be positive.
	SizeIndex int `json:"size_index"`
	// MaxItems is the module capacity of the hull. Must be positive.
	MaxItems int `json:"max_items"`
}

// EntityID implements Identified.
func (h Hull) EntityID() string { return h.ID }

// Engine is a propulsion module definition.
type Engine struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	PowerUse    int           `json:"power_use"`
	// ThrustRating drives movement speed. Must be positive.
	ThrustRating float64 `json:"thrust_rating"`
	IndustryCost int     `json:"industry_cost"`
}

// EntityID implements Identified.
func (e Engine) EntityID() string { return e.ID }

// Weapon is a weapon module definition.
type Weapon struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	PowerUse    int           `json:"power_use"`
	// Range is the firing range in combat cells. Must be positive.
	Range    int     `json:"range"`
	Strength float64 `json:"strength"`
	// UsesPerTurn is how many shots the weapon fires per combat turn.
	// Must be positive.
	UsesPerTurn  int `json:"uses_per_turn"`
	IndustryCost int `json:"industry_cost"`
	// TechID references the unlocking technology. Empty means unlocked.
	TechID string `json:"tech_id,omitempty"`
}

// EntityID implements Identified.
func (w Weapon) EntityID() string { return w.ID }

// Scanner is a detection module definition.
type Scanner struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	// Range is the detection radius in map cells. Must be positive.
	Range int `json:"range"`
	// Strength rates detection power. Must be positive.
	Strength     float64 `json:"strength"`
	IndustryCost int     `json:"industry_cost"`
}

// EntityID implements Identified.
func (s Scanner) EntityID() string { return s.ID }

// Shield is a defensive module definition.
type Shield struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	// Strength is the shield hit point pool. Must be positive.
	Strength     float64 `json:"strength"`
	IndustryCost int     `json:"industry_cost"`
}

// EntityID implements Identified.
func (s Shield) EntityID() string { return s.ID }
