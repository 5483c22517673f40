// Package filterset saves and loads filter forests as YAML or TOML files.
//
// A filter set file lists groups in order, each with a root pattern, a
// polarity and optional children:
//
//	groups:
//	  - pattern: ERROR
//	    polarity: include
//	    children:
//	      - pattern: retry
//	        polarity: exclude
//
// Loading replays every entry through the forest's add operations, so a set
// with an empty or duplicate pattern is rejected the same way interactive
// input is.
package filterset

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/logparser/internal/errors"
	"github.com/Iron-Ham/logparser/internal/filter"
)

// Format identifies the encoding of a filter set file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultSuffix is appended to a log file's path to name its filter set.
const DefaultSuffix = ".filters.yaml"

// File is the on-disk shape of a filter set.
type File struct {
	Groups []Group `yaml:"groups" toml:"groups"`
}

// Group is one root filter and its children.
type Group struct {
	Pattern  string  `yaml:"pattern" toml:"pattern"`
	Polarity string  `yaml:"polarity" toml:"polarity"`
	Children []Entry `yaml:"children,omitempty" toml:"children,omitempty"`
}

// Entry is a child filter.
type Entry struct {
	Pattern  string `yaml:"pattern" toml:"pattern"`
	Polarity string `yaml:"polarity" toml:"polarity"`
}

// DefaultPath returns the filter set path that goes with sourcePath.
func DefaultPath(sourcePath string) string {
	return sourcePath + DefaultSuffix
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported filter set extension %q: use .yaml, .yml or .toml", filepath.Ext(path))
	}
}

// FromForest converts a forest to its file form.
func FromForest(f *filter.Forest) File {
	var out File
	for _, g := range f.Groups() {
		group := Group{
			Pattern:  g.Root.Pattern,
			Polarity: g.Root.Polarity.String(),
		}
		for _, c := range g.Children {
			group.Children = append(group.Children, Entry{
				Pattern:  c.Pattern,
				Polarity: c.Polarity.String(),
			})
		}
		out.Groups = append(out.Groups, group)
	}
	return out
}

// Forest builds a forest from the file, validating every pattern.
func (file File) Forest() (*filter.Forest, error) {
	f := filter.New()
	for gi, g := range file.Groups {
		pol, err := filter.ParsePolarity(g.Polarity)
		if err != nil {
			return nil, errors.Wrapf(err, "group %d", gi+1)
		}
		root, err := f.Add(g.Pattern, pol)
		if err != nil {
			return nil, errors.Wrapf(err, "group %d", gi+1)
		}
		for ci, c := range g.Children {
			pol, err := filter.ParsePolarity(c.Polarity)
			if err != nil {
				return nil, errors.Wrapf(err, "group %d child %d", gi+1, ci+1)
			}
			if _, err := f.AddChild(root.ID, c.Pattern, pol); err != nil {
				return nil, errors.Wrapf(err, "group %d child %d", gi+1, ci+1)
			}
		}
	}
	return f, nil
}

// Encode serializes f in the given format.
func Encode(f *filter.Forest, format Format) ([]byte, error) {
	file := FromForest(f)
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		data, err := toml.Marshal(file)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown filter set format %q", format)
	}
}

// Decode parses data in the given format into a forest.
func Decode(data []byte, format Format) (*filter.Forest, error) {
	var file File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown filter set format %q", format)
	}
	return file.Forest()
}

// Load reads a filter set from path. A missing file is reported as a
// *errors.NotFoundError.
func Load(fs afero.Fs, path string) (*filter.Forest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if exists, _ := afero.Exists(fs, path); !exists {
			return nil, errors.NewNotFoundError("filter set", path).WithCause(err)
		}
		return nil, errors.Wrapf(err, "read filter set %s", path)
	}

	f, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "filter set %s", path)
	}
	return f, nil
}

// Save writes f to path, replacing any existing file atomically.
func Save(fs afero.Fs, path string, f *filter.Forest) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Encode(f, format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create filter set directory")
	}
	return atomicWriteFile(fs, path, data)
}

// atomicWriteFile writes to a temp file in the target directory, then
// renames it over path.
func atomicWriteFile(fs afero.Fs, path string, data []byte) error {
	tmp, err := afero.TempFile(fs, filepath.Dir(path), ".filterset-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := fs.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
