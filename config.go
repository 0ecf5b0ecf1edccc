package slobos

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultSlabBytes is substituted whenever a caller passes a zero
// slabBytes to Init (spec.md §4.9 step 3).
const defaultSlabBytes = 4096

// Config describes one allocator geometry: the largest entry size it will
// serve and the per-slab region size backing it. Mirrors the two knobs
// slobos_init took in the original C source (maxSize, cacheSize).
type Config struct {
	Name         string `yaml:"name"`
	MaxEntrySize uint32 `yaml:"max_entry_size"`
	SlabBytes    uint32 `yaml:"slab_bytes"`
}

// Built-in profiles, grounded on standardbeagle-lci's DefaultTierConfigs
// table-of-presets idiom: a small set of named, pre-validated geometries
// for callers who don't want to pick raw byte counts themselves.
var (
	// ProfileSmallObjects serves entries up to 512 bytes from one-page
	// slabs — good for short-lived, uniformly tiny allocations.
	ProfileSmallObjects = Config{Name: "small-objects", MaxEntrySize: 1024, SlabBytes: 4096}

	// ProfileDefault matches the "Hello allocation" scenario in spec.md §8.
	ProfileDefault = Config{Name: "default", MaxEntrySize: 0x1000, SlabBytes: 0x4000}

	// ProfileLargeSlabs trades slab count for per-mmap-call overhead when
	// entries approach the class ceiling.
	ProfileLargeSlabs = Config{Name: "large-slabs", MaxEntrySize: 0x10000, SlabBytes: 0x40000}
)

// profilesByName exists only for LoadProfile's file format, which
// references a profile by name.
var profilesByName = map[string]Config{
	ProfileSmallObjects.Name: ProfileSmallObjects,
	ProfileDefault.Name:      ProfileDefault,
	ProfileLargeSlabs.Name:   ProfileLargeSlabs,
}

// profileFile is the on-disk shape LoadProfile expects: a list of named
// configs, any of which can override or extend the built-ins.
type profileFile struct {
	Profiles []Config `yaml:"profiles"`
}

// LoadProfile reads a YAML file of named profiles and returns the one
// matching name, falling back to the built-in profiles if the file
// doesn't define it.
//
// Grounded on genc-murat-crystalcache/config/config.go's LoadConfig: read
// the file, unmarshal YAML, wrap read/parse failures with %w.
func LoadProfile(path string, name string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("slobos: reading profile file %q: %w", path, err)
	}

	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return Config{}, fmt.Errorf("slobos: parsing profile file %q: %w", path, err)
	}

	for _, cfg := range pf.Profiles {
		if cfg.Name == name {
			return cfg, nil
		}
	}
	if cfg, ok := profilesByName[name]; ok {
		return cfg, nil
	}
	return Config{}, fmt.Errorf("%w: %q in %q", ErrUnknownProfile, name, path)
}
