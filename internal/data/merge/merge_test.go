package merge_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/merge"
)

func weapon(id string, cost int) entities.Weapon {
	return entities.Weapon{
		ID:           id,
		Name:         entities.Plain(id),
		PowerUse:     1,
		Range:        1,
		Strength:     1,
		UsesPerTurn:  1,
		IndustryCost: cost,
	}
}

func TestMerge_LastWriteWins(t *testing.T) {
	result := merge.Merge([]merge.Input{
		{Source: "base", Set: decode.RecordSet{Weapons: []entities.Weapon{
			weapon("laser", 10),
			weapon("railgun", 20),
		}}},
		{Source: "balance_mod", Set: decode.RecordSet{Weapons: []entities.Weapon{
			weapon("laser", 99),
		}}},
	})

	require.Len(t, result.Weapons, 2)
	// First occurrence fixes position; the later record replaces it wholly.
	assert.Equal(t, "laser", result.Weapons[0].ID)
	assert.Equal(t, 99, result.Weapons[0].IndustryCost)
	assert.Equal(t, "railgun", result.Weapons[1].ID)

	assert.Equal(t, "balance_mod", result.Provenance.Origin(entities.ColWeapons, "laser"))
	assert.Equal(t, "base", result.Provenance.Origin(entities.ColWeapons, "railgun"))
}

func TestMerge_NewRecordsAppend(t *testing.T) {
	result := merge.Merge([]merge.Input{
		{Source: "base", Set: decode.RecordSet{Weapons: []entities.Weapon{weapon("laser", 10)}}},
		{Source: "mod", Set: decode.RecordSet{Weapons: []entities.Weapon{weapon("plasma", 30)}}},
	})

	require.Len(t, result.Weapons, 2)
	assert.Equal(t, "laser", result.Weapons[0].ID)
	assert.Equal(t, "plasma", result.Weapons[1].ID)
}

func TestMerge_VictoryRulesWholeReplacement(t *testing.T) {
	result := merge.Merge([]merge.Input{
		{Source: "base", Set: decode.RecordSet{VictoryRules: &entities.VictoryRules{DominationThreshold: 0.75}}},
		{Source: "mod", Set: decode.RecordSet{VictoryRules: &entities.VictoryRules{DominationThreshold: 0.5}}},
	})

	require.NotNil(t, result.VictoryRules)
	assert.InDelta(t, 0.5, result.VictoryRules.DominationThreshold, 1e-9)
	assert.Equal(t, "mod", result.Provenance.Origin(entities.ColVictoryRules, ""))
}

func TestMerge_VictoryRulesSurvivesSourcesWithout(t *testing.T) {
	result := merge.Merge([]merge.Input{
		{Source: "base", Set: decode.RecordSet{VictoryRules: &entities.VictoryRules{DominationThreshold: 0.75}}},
		{Source: "mod", Set: decode.RecordSet{Weapons: []entities.Weapon{weapon("laser", 1)}}},
	})

	require.NotNil(t, result.VictoryRules)
	assert.InDelta(t, 0.75, result.VictoryRules.DominationThreshold, 1e-9)
	assert.Equal(t, "base", result.Provenance.Origin(entities.ColVictoryRules, ""))
}

func TestMerge_TechEdgesKeyedByEndpoints(t *testing.T) {
	result := merge.Merge([]merge.Input{
		{Source: "base", Set: decode.RecordSet{TechEdges: []entities.TechEdge{{From: "a", To: "b"}}}},
		{Source: "mod", Set: decode.RecordSet{TechEdges: []entities.TechEdge{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
		}}},
	})

	require.Len(t, result.TechEdges, 2)
	assert.Equal(t, "mod", result.Provenance.Origin(entities.ColTechEdges, "a->b"))
}

func TestMerge_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}), 0, 12).Draw(t, "ids")
		costs := make([]int, len(ids))
		for i := range costs {
			costs[i] = rapid.IntRange(1, 100).Draw(t, fmt.Sprintf("cost%d", i))
		}
		split := rapid.IntRange(0, len(ids)).Draw(t, "split")

		build := func() merge.Result {
			var first, second []entities.Weapon
			for i, id := range ids {
				w := weapon(id, costs[i])
				if i < split {
					first = append(first, w)
				} else {
					second = append(second, w)
				}
			}
			return merge.Merge([]merge.Input{
				{Source: "base", Set: decode.RecordSet{Weapons: first}},
				{Source: "mod", Set: decode.RecordSet{Weapons: second}},
			})
		}

		one := build()
		two := build()
		require.Equal(t, one.Weapons, two.Weapons)

		// Every id appears exactly once and the last write for it won.
		seen := map[string]bool{}
		for _, w := range one.Weapons {
			require.False(t, seen[w.ID], "duplicate id %s", w.ID)
			seen[w.ID] = true
			for i := len(ids) - 1; i >= 0; i-- {
				if ids[i] == w.ID {
					require.Equal(t, costs[i], w.IndustryCost)
					break
				}
			}
		}
	})
}
