package logging

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates nested directories", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

		rw, err := NewRotatingWriter(logPath, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		defer func() { _ = rw.Close() }()

		if _, err := os.Stat(logPath); os.IsNotExist(err) {
			t.Errorf("log file was not created at %s", logPath)
		}
		if rw.FilePath() != logPath {
			t.Errorf("FilePath() = %q, want %q", rw.FilePath(), logPath)
		}
	})

	t.Run("appends to existing file", func(t *testing.T) {
		logPath := filepath.Join(t.TempDir(), "test.log")
		if err := os.WriteFile(logPath, []byte("initial\n"), 0644); err != nil {
			t.Fatal(err)
		}

		rw, err := NewRotatingWriter(logPath, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewRotatingWriter failed: %v", err)
		}
		if rw.CurrentSize() != int64(len("initial\n")) {
			t.Errorf("CurrentSize() = %d, want existing size", rw.CurrentSize())
		}
		_, _ = rw.Write([]byte("appended\n"))
		_ = rw.Close()

		content, _ := os.ReadFile(logPath)
		if string(content) != "initial\nappended\n" {
			t.Errorf("content = %q", content)
		}
	})
}

func TestRotatingWriterRotation(t *testing.T) {
	tests := []struct {
		name        string
		maxBackups  int
		writes      int
		wantExist   []string
		wantMissing []string
	}{
		{
			name:       "single rotation creates .1",
			maxBackups: 3,
			writes:     3,
			wantExist:  []string{".1"},
		},
		{
			name:        "keeps only maxBackups files",
			maxBackups:  2,
			writes:      10,
			wantExist:   []string{".1", ".2"},
			wantMissing: []string{".3"},
		},
		{
			name:        "zero backups keeps none",
			maxBackups:  0,
			writes:      10,
			wantMissing: []string{".1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "test.log")

			rw, err := NewRotatingWriter(logPath, RotationConfig{MaxBackups: tt.maxBackups})
			if err != nil {
				t.Fatalf("NewRotatingWriter failed: %v", err)
			}
			rw.maxSizeB = 50

			for range tt.writes {
				if _, err := rw.Write([]byte("this message will trigger rotation\n")); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}
			_ = rw.Close()

			if _, err := os.Stat(logPath); err != nil {
				t.Errorf("current log file missing: %v", err)
			}
			for _, suffix := range tt.wantExist {
				if _, err := os.Stat(logPath + suffix); err != nil {
					t.Errorf("backup %s should exist", suffix)
				}
			}
			for _, suffix := range tt.wantMissing {
				if _, err := os.Stat(logPath + suffix); err == nil {
					t.Errorf("backup %s should not exist", suffix)
				}
			}
		})
	}
}

func TestRotatingWriterNoRotationWhenDisabled(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(logPath, RotationConfig{MaxSizeMB: 0, MaxBackups: 3})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	for range 100 {
		_, _ = rw.Write([]byte("message that would rotate if enabled\n"))
	}
	_ = rw.Close()

	if _, err := os.Stat(logPath + ".1"); err == nil {
		t.Error("backup file should not exist when rotation is disabled")
	}
}

func TestRotatingWriterCompression(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(logPath, RotationConfig{MaxBackups: 2, Compress: true})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	rw.maxSizeB = 40

	_, _ = rw.Write([]byte("first entry that fills the file\n"))
	_, _ = rw.Write([]byte("second entry forces a rotation\n"))
	// Close waits for background compression.
	_ = rw.Close()

	f, err := os.Open(logPath + ".1.gz")
	if err != nil {
		t.Fatalf("compressed backup missing: %v", err)
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader failed: %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read compressed backup: %v", err)
	}
	if !strings.Contains(string(data), "first entry") {
		t.Errorf("compressed backup = %q, want first entry", data)
	}
	if _, err := os.Stat(logPath + ".1"); err == nil {
		t.Error("uncompressed backup should be removed after compression")
	}
}

func TestRotatingWriterClose(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), "test.log"), DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if _, err := rw.Write([]byte("x")); err == nil {
		t.Error("Write after Close should fail")
	}
	if err := rw.Sync(); err != nil {
		t.Errorf("Sync after Close = %v, want nil", err)
	}
}

func TestRotatingWriterConcurrency(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")
	rw, err := NewRotatingWriter(logPath, RotationConfig{MaxBackups: 5})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	rw.maxSizeB = 1024

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = rw.Write([]byte("concurrent write\n"))
			}
		}()
	}
	wg.Wait()

	if err := rw.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestNewLoggerWithRotation(t *testing.T) {
	t.Run("logs to rotating file", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLoggerWithRotation(dir, LevelDebug, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLoggerWithRotation failed: %v", err)
		}
		logger.Info("test message", "key", "value")
		_ = logger.Close()

		entries := readEntries(t, dir)
		if len(entries) != 1 || entries[0]["msg"] != "test message" || entries[0]["key"] != "value" {
			t.Errorf("entries = %v", entries)
		}
	})

	t.Run("stderr when dir is empty", func(t *testing.T) {
		logger, err := NewLoggerWithRotation("", LevelInfo, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLoggerWithRotation failed: %v", err)
		}
		if logger.rotation != nil {
			t.Error("expected no rotation writer when dir is empty")
		}
	})

	t.Run("rotation triggers on size", func(t *testing.T) {
		dir := t.TempDir()

		logger, err := NewLoggerWithRotation(dir, LevelDebug, RotationConfig{MaxBackups: 3})
		if err != nil {
			t.Fatalf("NewLoggerWithRotation failed: %v", err)
		}
		logger.rotation.maxSizeB = 200

		for i := range 10 {
			logger.Info("this is a message that will trigger rotation when repeated", "iteration", i)
		}
		_ = logger.Close()

		if _, err := os.Stat(filepath.Join(dir, LogFileName+".1")); os.IsNotExist(err) {
			t.Error("backup file was not created after rotation")
		}
	})

	t.Run("child loggers share rotation writer", func(t *testing.T) {
		logger, err := NewLoggerWithRotation(t.TempDir(), LevelDebug, DefaultRotationConfig())
		if err != nil {
			t.Fatalf("NewLoggerWithRotation failed: %v", err)
		}
		defer func() { _ = logger.Close() }()

		child := logger.WithComponent("scan").WithGeneration(2)
		if child.rotation != logger.rotation {
			t.Error("child logger should share parent's rotation writer")
		}
	})
}
