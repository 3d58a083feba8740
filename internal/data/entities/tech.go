package entities

// Tech is a researchable technology.
type Tech struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	// ResearchCost is the research point cost to unlock. Must be positive.
	ResearchCost int `json:"research_cost"`
}

// EntityID implements Identified.
func (t Tech) EntityID() string { return t.ID }

// TechEdge is a prerequisite edge in the research graph: From must be
// researched before To. Edges are keyed by the ordered (From, To) pair.
type TechEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// EntityID implements Identified using the composite key form "from->to".
func (e TechEdge) EntityID() string { return e.From + "->" + e.To }
