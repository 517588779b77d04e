package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestlandCSV is a small sparse input using the default column names.
// Alaska has one observation, Wyoming has none.
const TestlandCSV = `stateLabel,year,population
Alabama,1900,1000
Alabama,1910,2000
Alabama,1920,1500
Alaska,1950,400
`

// WriteFile writes content under a fresh temp dir and returns its path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// ReadLines reads a text file and splits it into lines, dropping the trailing newline
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
