package entities

// Victory condition kinds understood by the runtime.
const (
	VictoryDomination       = "domination"
	VictoryResearchComplete = "research_complete"
)

// VictoryKinds lists the condition kinds the validator accepts.
var VictoryKinds = []string{VictoryDomination, VictoryResearchComplete}

// VictoryCondition is a win condition a scenario can reference.
type VictoryCondition struct {
	ID          string        `json:"id"`
	Name        LocalizedText `json:"name"`
	Description LocalizedText `json:"description"`
	// Kind selects the runtime check. One of VictoryKinds.
	Kind string `json:"kind"`
}

// EntityID implements Identified.
func (v VictoryCondition) EntityID() string { return v.ID }

// VictoryRules is the singleton tuning record for victory evaluation.
// It merges by whole-struct replacement: the highest-priority source that
// defines it wins.
type VictoryRules struct {
	// DominationThreshold is the fraction of systems a player must control
	// for a domination victory. Must be in (0, 1].
	DominationThreshold float64 `json:"domination_threshold"`
}
