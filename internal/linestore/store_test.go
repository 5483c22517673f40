package linestore

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"

	lperrors "github.com/Iron-Ham/logparser/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single line no terminator", "abc", []string{"abc"}},
		{"single line with terminator", "abc\n", []string{"abc"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"trailing blank line kept", "a\n\n", []string{"a", ""}},
		{"only newline", "\n", []string{""}},
		{"crlf stripped", "a\r\nb\r\n", []string{"a", "b"}},
		{"only one cr stripped", "a\r\r\n", []string{"a\r"}},
		{"leading spaces preserved", "  x  \n", []string{"  x  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Parse(tt.raw)
			if s.Len() != len(tt.want) {
				t.Fatalf("Parse(%q).Len() = %d, want %d (%q)", tt.raw, s.Len(), len(tt.want), s.Lines())
			}
			for i, want := range tt.want {
				if got := s.Line(i); got != want {
					t.Errorf("Line(%d) = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestRead_MatchesParse(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"a\n",
		"a\nb\n\nc",
		"x\r\ny\r\n",
		"\n\n",
	}
	for _, raw := range inputs {
		s, err := Read(strings.NewReader(raw))
		if err != nil {
			t.Fatalf("Read(%q) error = %v", raw, err)
		}
		p := Parse(raw)
		if s.Len() != p.Len() {
			t.Errorf("Read(%q).Len() = %d, Parse = %d", raw, s.Len(), p.Len())
			continue
		}
		for i := 0; i < s.Len(); i++ {
			if s.Line(i) != p.Line(i) {
				t.Errorf("Read(%q) line %d = %q, Parse = %q", raw, i, s.Line(i), p.Line(i))
			}
		}
	}
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/logs/app.log", []byte("INFO up\nERROR down\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(fs, "/logs/app.log")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
	if s.Line(1) != "ERROR down" {
		t.Errorf("Line(1) = %q, want %q", s.Line(1), "ERROR down")
	}
	if s.Path() != "/logs/app.log" {
		t.Errorf("Path() = %q", s.Path())
	}
}

func TestLoad_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/logs", 0o755); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{"/missing.log", "/logs"} {
		t.Run(path, func(t *testing.T) {
			s, err := Load(fs, path)
			if s != nil {
				t.Error("Load() should return nil store on error")
			}
			if !errors.Is(err, lperrors.ErrSourceUnavailable) {
				t.Errorf("Load() error = %v, want ErrSourceUnavailable", err)
			}
			var srcErr *lperrors.SourceError
			if !errors.As(err, &srcErr) || srcErr.Path != path {
				t.Errorf("Load() error should be a SourceError for %q, got %v", path, err)
			}
			if !lperrors.IsUserFacing(err) {
				t.Error("source errors should be user facing")
			}
		})
	}
}

func TestStore_NilSafe(t *testing.T) {
	var s *Store
	if s.Len() != 0 || s.Lines() != nil || s.Path() != "" {
		t.Error("nil store should be empty")
	}
}

func TestFromLines_Copies(t *testing.T) {
	src := []string{"a", "b"}
	s := FromLines(src)
	src[0] = "mutated"
	if s.Line(0) != "a" {
		t.Error("FromLines() should copy its input")
	}
}
