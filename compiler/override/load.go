package override

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// Load reads the override file at path from fs. Files ending in .yaml or
// .yml use the YAML format, anything else the text format.
func Load(fs vfs.FileSystem, path string) (*Registry, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read overrides %s", path)
	}
	var r *Registry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		r, err = ParseYAML(data)
	default:
		r, err = ParseText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "parse overrides %s", path),
			"an override starts with a line \"override Name[: type]\"",
		)
	}
	return r, nil
}
