package fields

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shearsapp/shears/internal/types"
)

// catalogFile is the on-disk shape of a YAML field catalog. Field lists
// authored as data use the same override-spec structure as the built-in
// Go catalogs.
type catalogFile struct {
	BaseTypes   []types.FieldDefinition         `json:"baseTypes"`
	RecordTypes map[string][]types.OverrideSpec `json:"recordTypes"`
}

// LoadCatalogFile reads a YAML catalog and applies it on top of the given
// catalog: extra base types extend the registry, record-type lists add to
// or replace the built-in ones.
//
// The YAML is decoded generically and re-decoded through the JSON tags so
// the file uses the same camelCase keys the HTTP schema endpoint serves.
func LoadCatalogFile(path string, into *Catalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading catalog file %q: %w", path, err)
	}

	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("parsing catalog file %q: %w", path, err)
	}
	bridged, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("converting catalog file %q: %w", path, err)
	}
	var cf catalogFile
	if err := json.Unmarshal(bridged, &cf); err != nil {
		return fmt.Errorf("decoding catalog file %q: %w", path, err)
	}

	for _, def := range cf.BaseTypes {
		if def.Field == "" {
			return fmt.Errorf("catalog file %q: base type with empty field key", path)
		}
		into.Registry().Register(def)
	}
	for name, specs := range cf.RecordTypes {
		into.SetRecordType(name, specs)
	}
	return nil
}
