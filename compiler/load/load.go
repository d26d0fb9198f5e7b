// Package load reads models from files.
//
// Two formats are supported:
//
//   - Gaphor XML models (.gaphor, .xml)
//   - the native document format (.yaml, .yml, .json), see Document
//
// Loaded models are not linked: property types named by text stay
// placeholders until the generator's linking phase.
package load

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"github.com/syssam/modelcoder/model"
)

// ErrUnsupportedFormat is returned for an unknown model file extension.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Format is a model file format.
type Format string

// Supported formats.
const (
	FormatGaphor   Format = "gaphor"
	FormatDocument Format = "document"
)

// FormatOf returns the format of a model file by its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gaphor", ".xml":
		return FormatGaphor, nil
	case ".yaml", ".yml", ".json":
		return FormatDocument, nil
	default:
		return "", errors.WithHint(
			errors.Wrapf(ErrUnsupportedFormat, "%s", path),
			"use a .gaphor, .xml, .yaml, .yml or .json file",
		)
	}
}

// Load reads the model file at path from fs.
func Load(fs vfs.FileSystem, path string) (*model.Model, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read model %s", path)
	}
	m, err := Read(format, bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "load model %s", path)
	}
	return m, nil
}

// Read reads a model in the given format.
func Read(format Format, r io.Reader) (*model.Model, error) {
	switch format {
	case FormatGaphor:
		return ReadGaphor(r)
	case FormatDocument:
		return ReadDocument(r)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}
