package entities

// Species is a playable species definition. It carries no numeric fields;
// gameplay differences come from scenario and tech data.
type Species struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
}

// EntityID implements Identified.
func (s Species) EntityID() string { return s.ID }
