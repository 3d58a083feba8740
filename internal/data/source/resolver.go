// Package source enumerates the base pack and mod packs and fixes the
// deterministic load order the merge engine folds them in.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/zjrosen/starforge/internal/data/decode"
	"github.com/zjrosen/starforge/internal/data/entities"
	"github.com/zjrosen/starforge/internal/log"
)

// BaseName is the reserved source name of the base pack.
const BaseName = "base"

// ErrMissingManifest is returned when the base pack has no manifest file.
var ErrMissingManifest = errors.New("base pack is missing manifest.toml")

// Manifest is the base pack's declaration of the runtime data shape.
type Manifest struct {
	SchemaVersion int `toml:"schema_version"`
}

// Descriptor is a mod pack's optional mod.toml. A missing descriptor implies
// priority 0 and the runtime's schema version.
type Descriptor struct {
	Priority      int  `toml:"priority"`
	SchemaVersion *int `toml:"schema_version"`
}

// Source is one pack in load order.
type Source struct {
	// Name is "base" for the base pack, otherwise the mod folder name.
	Name string
	Dir  string
	// Priority orders mods; higher loads later and wins conflicts.
	// The base pack has implicit priority 0 and always loads first.
	Priority      int
	SchemaVersion int
	Base          bool
}

// Skipped records a mod excluded by schema gating.
type Skipped struct {
	Name          string
	Dir           string
	SchemaVersion int
}

// Resolution is the ordered source list for one load.
type Resolution struct {
	Manifest Manifest
	// Sources holds the base pack followed by accepted mods sorted by
	// (priority asc, folder name asc). The order is reproducible across
	// runs regardless of directory enumeration order.
	Sources []Source
	// SkippedMods lists mods whose declared schema version exceeds the
	// manifest's.
	SkippedMods []Skipped
}

// Resolve enumerates dataDir (base pack) and modsDir and produces the load
// order. A missing mods root yields a base-only resolution; a missing or
// unreadable manifest is an error because the runtime schema version would
// be undefined.
func Resolve(dataDir, modsDir string) (Resolution, error) {
	manifest, err := readManifest(dataDir)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Manifest: manifest}
	res.Sources = append(res.Sources, Source{
		Name:          BaseName,
		Dir:           dataDir,
		SchemaVersion: manifest.SchemaVersion,
		Base:          true,
	})

	mods, skipped, err := resolveMods(modsDir, manifest.SchemaVersion)
	if err != nil {
		return Resolution{}, err
	}
	res.Sources = append(res.Sources, mods...)
	res.SkippedMods = skipped

	return res, nil
}

func readManifest(dataDir string) (Manifest, error) {
	path := filepath.Join(dataDir, "manifest.toml")
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Manifest{}, fmt.Errorf("%w (looked in %s)", ErrMissingManifest, dataDir)
	}
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var manifest Manifest
	if err := toml.Unmarshal(content, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if manifest.SchemaVersion < 1 {
		return Manifest{}, fmt.Errorf("manifest %s: schema_version must be >= 1 (got %d)", path, manifest.SchemaVersion)
	}
	return manifest, nil
}

func resolveMods(modsDir string, runtimeVersion int) ([]Source, []Skipped, error) {
	entries, err := os.ReadDir(modsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read mods root: %w", err)
	}

	var mods []Source
	var skipped []Skipped
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(modsDir, entry.Name())
		if !hasDataLayout(dir) {
			log.Debug(log.CatSource, "ignoring directory without data layout", "dir", dir)
			continue
		}

		descriptor, err := readDescriptor(dir)
		if err != nil {
			return nil, nil, err
		}

		version := runtimeVersion
		if descriptor.SchemaVersion != nil {
			version = *descriptor.SchemaVersion
		}
		if version > runtimeVersion {
			skipped = append(skipped, Skipped{
				Name:          entry.Name(),
				Dir:           dir,
				SchemaVersion: version,
			})
			continue
		}

		mods = append(mods, Source{
			Name:          entry.Name(),
			Dir:           dir,
			Priority:      descriptor.Priority,
			SchemaVersion: version,
		})
	}

	// Load order: priority ascending, folder name ascending on ties. Later
	// sources win merge conflicts.
	sort.Slice(mods, func(i, j int) bool {
		if mods[i].Priority != mods[j].Priority {
			return mods[i].Priority < mods[j].Priority
		}
		return mods[i].Name < mods[j].Name
	})
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Name < skipped[j].Name })

	return mods, skipped, nil
}

// hasDataLayout reports whether dir looks like a pack: a descriptor or at
// least one recognized collection file.
func hasDataLayout(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if entry.Name() == "mod.toml" {
			return true
		}
		if _, ok := decode.CollectionForFile(entry.Name()); ok {
			return true
		}
	}
	return false
}

func readDescriptor(dir string) (Descriptor, error) {
	path := filepath.Join(dir, "mod.toml")
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Descriptor{}, nil
	}
	if err != nil {
		return Descriptor{}, fmt.Errorf("read descriptor: %w", err)
	}

	var descriptor Descriptor
	if err := toml.Unmarshal(content, &descriptor); err != nil {
		return Descriptor{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return descriptor, nil
}

// DataFile is one decodable collection file inside a source.
type DataFile struct {
	Path       string
	Collection entities.Collection
}

// DataFiles lists the source's collection files in the fixed collection
// order. When both encodings of a collection exist, the preferred encoding
// is kept and the others are returned as shadowed paths for diagnostics.
func (s Source) DataFiles() ([]DataFile, []string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read source %s: %w", s.Name, err)
	}

	present := map[string]bool{}
	for _, entry := range entries {
		if !entry.IsDir() {
			present[entry.Name()] = true
		}
	}

	var files []DataFile
	var shadowed []string
	for _, col := range entities.Collections {
		stem := decode.StemForCollection(col)
		chosen := ""
		for _, ext := range decode.Encodings {
			name := stem + ext
			if !present[name] {
				continue
			}
			if chosen == "" {
				chosen = name
				files = append(files, DataFile{
					Path:       filepath.Join(s.Dir, name),
					Collection: col,
				})
			} else {
				shadowed = append(shadowed, filepath.Join(s.Dir, name))
			}
		}
	}
	return files, shadowed, nil
}
