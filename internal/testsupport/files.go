package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteCorpus writes the given lines as a newline-delimited corpus file at
// path, creating parent directories as needed, and returns the path.
func WriteCorpus(t testing.TB, path string, lines ...string) string {
	t.Helper()

	var content strings.Builder
	for _, line := range lines {
		content.WriteString(line)
		content.WriteByte('\n')
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create corpus dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("write corpus %s: %v", path, err)
	}
	return path
}
