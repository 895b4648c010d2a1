package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates the target path with the requested number of filler
// bytes, creating parent directories as needed. A size <= 0 writes a single
// byte so the file always exists with content.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	chunk := bytes.Repeat([]byte("cutroom "), 4096)
	for size > 0 {
		n := int64(len(chunk))
		if size < n {
			n = size
		}
		if _, err := f.Write(chunk[:n]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		size -= n
	}
}
