// Package linestore holds the immutable, ordered lines of a loaded text.
//
// A [Store] is built once per load and never modified; a reload produces a new
// Store that replaces the old one wholesale. Lines have their terminator
// stripped (one trailing "\r" as well as the "\n"), and a terminator at the
// very end of the input does not produce an extra empty line.
package linestore

import (
	"bufio"
	"io"
	"strings"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/logparser/internal/errors"
)

// MaxLineBytes bounds a single line when reading from a file.
const MaxLineBytes = 16 * 1024 * 1024

// Store is an immutable sequence of lines. The zero value and nil are both
// empty stores.
type Store struct {
	path  string
	lines []string
}

// Parse splits raw on "\n" into a Store.
func Parse(raw string) *Store {
	if raw == "" {
		return &Store{}
	}
	raw = strings.TrimSuffix(raw, "\n")
	lines := strings.Split(raw, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return &Store{lines: lines}
}

// FromLines builds a Store over a copy of lines.
func FromLines(lines []string) *Store {
	out := make([]string, len(lines))
	copy(out, lines)
	return &Store{lines: out}
}

// Read consumes r line by line.
func Read(r io.Reader) (*Store, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Store{lines: lines}, nil
}

// Load reads the file at path from fs. Any failure is reported as a
// *errors.SourceError matching errors.ErrSourceUnavailable.
func Load(fs afero.Fs, path string) (*Store, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.NewSourceError("cannot open file", err).WithPath(path)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.NewSourceError("cannot stat file", err).WithPath(path)
	}
	if info.IsDir() {
		return nil, errors.NewSourceError("path is a directory", nil).WithPath(path)
	}

	s, err := Read(f)
	if err != nil {
		return nil, errors.NewSourceError("cannot read file", err).WithPath(path)
	}
	s.path = path
	return s, nil
}

// Path returns the file the store was loaded from, or "" for parsed text.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Len returns the number of lines.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.lines)
}

// Line returns line i. It panics if i is out of range, like a slice index.
func (s *Store) Line(i int) string {
	return s.lines[i]
}

// Lines returns the backing lines. Callers must not modify the result.
func (s *Store) Lines() []string {
	if s == nil {
		return nil
	}
	return s.lines
}
