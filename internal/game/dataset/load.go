package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/lootforge/internal/game/loot"
	"github.com/cory-johannsen/lootforge/internal/game/manufacturer"
	"github.com/cory-johannsen/lootforge/internal/game/parts"
	"github.com/cory-johannsen/lootforge/internal/game/rarity"
)

// Dataset is the complete authored configuration, loaded and reference-
// resolved but not yet validated or indexed.
type Dataset struct {
	Rarity        *rarity.Table
	Floors        parts.Floors
	Manufacturers []manufacturer.Def
	Parts         []*parts.Def
	Items         []*loot.ItemDef
	Tables        []*loot.Table
	Uniques       []*parts.UniqueDef
}

// Load reads the authored dataset rooted at dir:
//
//	<dir>/rarities.yaml
//	<dir>/manufacturers.yaml
//	<dir>/parts/*.yaml      (pool files, each holding a parts list)
//	<dir>/items/*.yaml      (pool files, each holding an items list)
//	<dir>/tables/*.yaml     (one table per file)
//	<dir>/uniques/*.yaml    (one unique per file)
//
// The items and uniques directories are optional; everything else must
// exist. Decoding is strict: unknown fields are load errors, so authoring
// typos surface immediately.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a reference-resolved Dataset or an error naming
// the offending file.
func Load(dir string) (*Dataset, error) {
	ds := &Dataset{}

	var rarities rarityFile
	if err := decodeFile(filepath.Join(dir, "rarities.yaml"), &rarities); err != nil {
		return nil, err
	}
	table, floors, err := rarities.convert()
	if err != nil {
		return nil, fmt.Errorf("rarities.yaml: %w", err)
	}
	ds.Rarity = table
	ds.Floors = floors

	var manufacturers manufacturerFile
	if err := decodeFile(filepath.Join(dir, "manufacturers.yaml"), &manufacturers); err != nil {
		return nil, err
	}
	ds.Manufacturers = manufacturers.convert()

	partFiles, err := yamlFiles(filepath.Join(dir, "parts"))
	if err != nil {
		return nil, err
	}
	for _, path := range partFiles {
		var file partFile
		if err := decodeFile(path, &file); err != nil {
			return nil, err
		}
		defs, err := file.convert()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ds.Parts = append(ds.Parts, defs...)
	}

	itemFiles, err := optionalYamlFiles(filepath.Join(dir, "items"))
	if err != nil {
		return nil, err
	}
	for _, path := range itemFiles {
		var file itemFile
		if err := decodeFile(path, &file); err != nil {
			return nil, err
		}
		defs, err := file.convert()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ds.Items = append(ds.Items, defs...)
	}

	tableFiles, err := yamlFiles(filepath.Join(dir, "tables"))
	if err != nil {
		return nil, err
	}
	for _, path := range tableFiles {
		var file tableFile
		if err := decodeFile(path, &file); err != nil {
			return nil, err
		}
		converted, err := file.convert()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ds.Tables = append(ds.Tables, converted)
	}

	partsByID := make(map[string]*parts.Def, len(ds.Parts))
	for _, p := range ds.Parts {
		partsByID[p.ID] = p
	}

	uniqueFiles, err := optionalYamlFiles(filepath.Join(dir, "uniques"))
	if err != nil {
		return nil, err
	}
	for _, path := range uniqueFiles {
		var file uniqueFile
		if err := decodeFile(path, &file); err != nil {
			return nil, err
		}
		def, err := file.convert(partsByID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		ds.Uniques = append(ds.Uniques, def)
	}

	return ds, nil
}

// decodeFile reads path and strictly decodes it into out.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}

// yamlFiles lists the *.yaml files in dir in lexical order.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading dataset dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// optionalYamlFiles is yamlFiles for directories that may be absent.
func optionalYamlFiles(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	return yamlFiles(dir)
}
