package source_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/data/source"
	"github.com/zjrosen/starforge/internal/testutil"
)

func TestResolve_BaseOnly(t *testing.T) {
	base := testutil.NewBasePack(t)

	res, err := source.Resolve(base.Dir(), filepath.Join(base.Dir(), "no-mods"))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Manifest.SchemaVersion)
	require.Len(t, res.Sources, 1)
	assert.Equal(t, source.BaseName, res.Sources[0].Name)
	assert.True(t, res.Sources[0].Base)
	assert.Empty(t, res.SkippedMods)
}

func TestResolve_MissingManifest(t *testing.T) {
	dir := t.TempDir()

	_, err := source.Resolve(dir, filepath.Join(dir, "mods"))
	require.ErrorIs(t, err, source.ErrMissingManifest)
}

func TestResolve_RejectsManifestWithoutVersion(t *testing.T) {
	base := testutil.NewBasePack(t).WithManifest(0)

	_, err := source.Resolve(base.Dir(), base.ModsRoot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema_version")
}

func TestResolve_ModOrdering(t *testing.T) {
	base := testutil.NewBasePack(t)
	mods := base.ModsRoot()

	// Same priority sorts by name; higher priority loads later.
	testutil.NewModPack(t, mods, "zeta").WithDescriptor(1)
	testutil.NewModPack(t, mods, "alpha").WithDescriptor(1)
	testutil.NewModPack(t, mods, "late").WithDescriptor(5)
	testutil.NewModPack(t, mods, "nopriority").Write("weapons.toml", "weapons = []\n")

	res, err := source.Resolve(base.Dir(), mods)
	require.NoError(t, err)

	var names []string
	for _, src := range res.Sources {
		names = append(names, src.Name)
	}
	assert.Equal(t, []string{"base", "nopriority", "alpha", "zeta", "late"}, names)
}

func TestResolve_SchemaGating(t *testing.T) {
	base := testutil.NewBasePack(t)
	mods := base.ModsRoot()

	testutil.NewModPack(t, mods, "future").WithVersionedDescriptor(0, 99)
	testutil.NewModPack(t, mods, "current").WithVersionedDescriptor(0, 1)

	res, err := source.Resolve(base.Dir(), mods)
	require.NoError(t, err)

	require.Len(t, res.Sources, 2)
	assert.Equal(t, "current", res.Sources[1].Name)
	require.Len(t, res.SkippedMods, 1)
	assert.Equal(t, "future", res.SkippedMods[0].Name)
	assert.Equal(t, 99, res.SkippedMods[0].SchemaVersion)
}

func TestResolve_IgnoresNonPackDirectories(t *testing.T) {
	base := testutil.NewBasePack(t)
	mods := base.ModsRoot()

	testutil.NewModPack(t, mods, "screenshots").Write("readme.txt", "not a pack")

	res, err := source.Resolve(base.Dir(), mods)
	require.NoError(t, err)
	require.Len(t, res.Sources, 1)
}

func TestDataFiles_EncodingPreference(t *testing.T) {
	base := testutil.NewBasePack(t)
	base.Write("weapons.toml", "weapons = []\n")
	base.Write("weapons.yaml", "weapons: []\n")
	base.Write("shields.yaml", "shields: []\n")

	res, err := source.Resolve(base.Dir(), base.ModsRoot())
	require.NoError(t, err)

	files, shadowed, err := res.Sources[0].DataFiles()
	require.NoError(t, err)

	byCol := map[entities.Collection]string{}
	for _, f := range files {
		byCol[f.Collection] = filepath.Base(f.Path)
	}
	assert.Equal(t, "weapons.toml", byCol[entities.ColWeapons])
	assert.Equal(t, "shields.yaml", byCol[entities.ColShields])

	require.Len(t, shadowed, 1)
	assert.Equal(t, "weapons.yaml", filepath.Base(shadowed[0]))
}

func TestDataFiles_CollectionOrder(t *testing.T) {
	base := testutil.NewBasePack(t).WithAllCollections()

	res, err := source.Resolve(base.Dir(), base.ModsRoot())
	require.NoError(t, err)

	files, _, err := res.Sources[0].DataFiles()
	require.NoError(t, err)
	require.Len(t, files, len(entities.Collections))
	for i, f := range files {
		assert.Equal(t, entities.Collections[i], f.Collection)
	}
}
