package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadValidCatalog(t *testing.T) {
	path := writeCatalog(t, `
competitors:
  - id: cmp-a
    title: Heavy Rotation
    artist: The Benchmarks
    base_streams: 1000000
    genre: pop
  - id: cmp-b
    title: Second Wind
    artist: Control Group
    base_streams: 400000
`)
	comps, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("expected 2 competitors, got %d", len(comps))
	}
	if comps[0].ID != "cmp-a" || comps[0].BaseStreams != 1_000_000 {
		t.Fatalf("first competitor wrong: %+v", comps[0])
	}
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty", "competitors: []\n"},
		{"missing id", "competitors:\n  - title: X\n    base_streams: 100\n"},
		{"duplicate id", "competitors:\n  - id: a\n    base_streams: 100\n  - id: a\n    base_streams: 200\n"},
		{"zero streams", "competitors:\n  - id: a\n    base_streams: 0\n"},
	}
	for _, tc := range cases {
		if _, err := Load(writeCatalog(t, tc.body)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
