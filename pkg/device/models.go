package device

import (
	_ "embed"
	"os"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//go:embed models.toml
var defaultModelTable []byte

// ModelTable maps hardware identifiers (e.g. iPhone15,2) to marketing names.
// It is read-only after construction.
type ModelTable struct {
	models map[string]string
}

type rawModelTable struct {
	Models map[string]string `toml:"models"`
}

// DefaultModelTable returns the table built into the binary.
func DefaultModelTable() *ModelTable {
	t, err := parseModelTable(defaultModelTable)
	if err != nil {
		panic(err)
	}
	return t
}

// LoadModelTable returns the built-in table with the entries from the TOML
// file at path layered on top. An empty path returns the built-in table.
func LoadModelTable(path string) (*ModelTable, error) {
	t := DefaultModelTable()
	if path == "" {
		return t, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read model table %s", path)
	}

	override, err := parseModelTable(b)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse model table %s", path)
	}

	for id, name := range override.models {
		t.models[id] = name
	}

	logrus.WithFields(logrus.Fields{
		"path":    path,
		"entries": len(override.models),
	}).Debug("loaded model table overrides")

	return t, nil
}

func parseModelTable(b []byte) (*ModelTable, error) {
	var raw rawModelTable
	if _, err := toml.Decode(string(b), &raw); err != nil {
		return nil, err
	}
	if raw.Models == nil {
		raw.Models = map[string]string{}
	}
	return &ModelTable{models: raw.Models}, nil
}

// Lookup returns the marketing name for id, or id itself if it is unmapped.
// A nil table maps nothing.
func (t *ModelTable) Lookup(id string) string {
	if t == nil {
		return id
	}
	if name, ok := t.models[id]; ok {
		return name
	}
	return id
}

// Len returns the number of entries.
func (t *ModelTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.models)
}
