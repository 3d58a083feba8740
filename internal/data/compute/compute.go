// Package compute derives read-only stats from validated base fields.
// Every value is recomputed from scratch on every load; derived stats are a
// pure function of the merged records and never accumulate state.
package compute

import (
	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/merge"
)

// WeaponStats is the derived view of a weapon.
type WeaponStats struct {
	// DamagePerTurn = strength * uses_per_turn.
	DamagePerTurn float64 `json:"damage_per_turn"`
}

// EngineStats is the derived view of an engine.
type EngineStats struct {
	// Efficiency = thrust_rating / power_use. Undefined for engines with
	// zero power draw.
	Efficiency    float64 `json:"efficiency"`
	HasEfficiency bool    `json:"has_efficiency"`
}

// BuildingStats is the derived view of a building or satellite.
type BuildingStats struct {
	// TotalBonus sums the four additive output bonuses.
	TotalBonus int `json:"total_bonus"`
}

// TechStats is the derived view of a technology.
type TechStats struct {
	// Depth is the length of the longest prerequisite chain leading to the
	// tech; root techs have depth 0.
	Depth int `json:"depth"`
}

// Derived holds all derived stats keyed by entity id.
type Derived struct {
	Weapons    map[string]WeaponStats
	Engines    map[string]EngineStats
	Buildings  map[string]BuildingStats
	Satellites map[string]BuildingStats
	Techs      map[string]TechStats
}

// FromMerged computes every derived stat from the validated merged view.
func FromMerged(m merge.Result) Derived {
	d := Derived{
		Weapons:    make(map[string]WeaponStats, len(m.Weapons)),
		Engines:    make(map[string]EngineStats, len(m.Engines)),
		Buildings:  make(map[string]BuildingStats, len(m.Buildings)),
		Satellites: make(map[string]BuildingStats, len(m.Satellites)),
		Techs:      make(map[string]TechStats, len(m.Techs)),
	}

	for _, weapon := range m.Weapons {
		d.Weapons[weapon.ID] = WeaponStats{
			DamagePerTurn: weapon.Strength * float64(weapon.UsesPerTurn),
		}
	}

	for _, engine := range m.Engines {
		stats := EngineStats{}
		if engine.PowerUse > 0 {
			stats.Efficiency = engine.ThrustRating / float64(engine.PowerUse)
			stats.HasEfficiency = true
		}
		d.Engines[engine.ID] = stats
	}

	total := func(b entities.Building) BuildingStats {
		return BuildingStats{
			TotalBonus: b.IndustryBonus + b.ResearchBonus + b.ProsperityBonus + b.MaxPopulationBonus,
		}
	}
	for _, b := range m.Buildings {
		d.Buildings[b.ID] = total(b)
	}
	for _, s := range m.Satellites {
		d.Satellites[s.ID] = total(s)
	}

	for id, depth := range techDepths(m.Techs, m.TechEdges) {
		d.Techs[id] = TechStats{Depth: depth}
	}

	return d
}

// techDepths runs a topological longest-path pass over the research graph.
// The validator guarantees the edges are acyclic and resolved by the time
// this runs; edges with unknown endpoints are ignored defensively.
func techDepths(techs []entities.Tech, edges []entities.TechEdge) map[string]int {
	depth := make(map[string]int, len(techs))
	indegree := make(map[string]int, len(techs))
	next := map[string][]string{}
	for _, tech := range techs {
		depth[tech.ID] = 0
		indegree[tech.ID] = 0
	}
	for _, edge := range edges {
		if _, ok := depth[edge.From]; !ok {
			continue
		}
		if _, ok := depth[edge.To]; !ok {
			continue
		}
		next[edge.From] = append(next[edge.From], edge.To)
		indegree[edge.To]++
	}

	// Seed with roots in tech declaration order to keep traversal
	// deterministic.
	var queue []string
	for _, tech := range techs {
		if indegree[tech.ID] == 0 {
			queue = append(queue, tech.ID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, to := range next[id] {
			if depth[id]+1 > depth[to] {
				depth[to] = depth[id] + 1
			}
			indegree[to]--
			if indegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	return depth
}
