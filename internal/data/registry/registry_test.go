package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/starforge/internal/data/compute"
	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/merge"
	"github.com/zjrosen/starforge/internal/data/registry"
)

func mergedFixture() merge.Result {
	return merge.Result{
		Weapons: []entities.Weapon{
			{ID: "laser", Name: entities.Plain("Laser"), Strength: 1.5, UsesPerTurn: 2},
			{ID: "railgun", Name: entities.Plain("Railgun"), Strength: 4, UsesPerTurn: 1},
		},
		Engines: []entities.Engine{
			{ID: "ion_drive", Name: entities.Plain("Ion Drive"), PowerUse: 2, ThrustRating: 3},
		},
		Techs: []entities.Tech{
			{ID: "basic_physics", Name: entities.Plain("Basic Physics")},
			{ID: "lasers", Name: entities.Plain("Lasers")},
			{ID: "advanced_optics", Name: entities.Plain("Advanced Optics")},
		},
		TechEdges: []entities.TechEdge{
			{From: "basic_physics", To: "lasers"},
			{From: "lasers", To: "advanced_optics"},
		},
		VictoryRules: &entities.VictoryRules{DominationThreshold: 0.75},
		Provenance:   merge.Provenance{entities.ColWeapons: {"laser": "base", "railgun": "mod"}},
	}
}

func TestBuild_ResolveAndGet(t *testing.T) {
	m := mergedFixture()
	reg, err := registry.Build(m, compute.FromMerged(m))
	require.NoError(t, err)

	ref, ok := reg.Weapons().Resolve("railgun")
	require.True(t, ok)

	w, ok := reg.Weapons().Get(ref)
	require.True(t, ok)
	assert.Equal(t, "railgun", w.ID)

	_, ok = reg.Weapons().Resolve("ghost")
	assert.False(t, ok)

	_, ok = reg.Weapons().Get(registry.Ref[registry.WeaponID](99))
	assert.False(t, ok)

	byID, ok := reg.Weapons().ByID("laser")
	require.True(t, ok)
	assert.Equal(t, "laser", byID.ID)

	assert.Equal(t, 2, reg.Weapons().Len())
}

func TestBuild_RefsFollowMergeOrder(t *testing.T) {
	m := mergedFixture()
	reg, err := registry.Build(m, compute.FromMerged(m))
	require.NoError(t, err)

	for i, w := range reg.Weapons().All() {
		ref, ok := reg.Weapons().Resolve(registry.WeaponID(w.ID))
		require.True(t, ok)
		assert.Equal(t, registry.Ref[registry.WeaponID](i), ref)
	}
}

func TestBuild_DerivedStatsAligned(t *testing.T) {
	m := mergedFixture()
	reg, err := registry.Build(m, compute.FromMerged(m))
	require.NoError(t, err)

	ref, ok := reg.Weapons().Resolve("laser")
	require.True(t, ok)
	assert.InDelta(t, 3.0, reg.WeaponStats(ref).DamagePerTurn, 1e-9)

	engineRef, ok := reg.Engines().Resolve("ion_drive")
	require.True(t, ok)
	stats := reg.EngineStats(engineRef)
	assert.True(t, stats.HasEfficiency)
	assert.InDelta(t, 1.5, stats.Efficiency, 1e-9)
}

func TestBuild_ResearchGraph(t *testing.T) {
	m := mergedFixture()
	reg, err := registry.Build(m, compute.FromMerged(m))
	require.NoError(t, err)

	root, ok := reg.Techs().Resolve("basic_physics")
	require.True(t, ok)
	mid, ok := reg.Techs().Resolve("lasers")
	require.True(t, ok)
	leaf, ok := reg.Techs().Resolve("advanced_optics")
	require.True(t, ok)

	assert.Empty(t, reg.Prereqs(root))
	assert.Equal(t, []registry.Ref[registry.TechID]{mid}, reg.Unlocks(root))
	assert.Equal(t, []registry.Ref[registry.TechID]{root}, reg.Prereqs(mid))
	assert.Equal(t, []registry.Ref[registry.TechID]{mid}, reg.Prereqs(leaf))
	assert.Empty(t, reg.Unlocks(leaf))

	assert.Equal(t, 2, reg.TechStats(leaf).Depth)
}

func TestBuild_DuplicateIDFails(t *testing.T) {
	m := mergedFixture()
	m.Weapons = append(m.Weapons, entities.Weapon{ID: "laser"})

	_, err := registry.Build(m, compute.FromMerged(m))
	var dup *registry.DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, entities.ColWeapons, dup.Collection)
	assert.Equal(t, "laser", dup.ID)
}

func TestBuild_VictoryRulesAndProvenance(t *testing.T) {
	m := mergedFixture()
	reg, err := registry.Build(m, compute.FromMerged(m))
	require.NoError(t, err)

	assert.InDelta(t, 0.75, reg.VictoryRules().DominationThreshold, 1e-9)
	assert.Equal(t, "mod", reg.Origin(entities.ColWeapons, "railgun"))
	assert.Equal(t, "", reg.Origin(entities.ColWeapons, "ghost"))
}
