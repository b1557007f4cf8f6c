package circuit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewPaths(t *testing.T) {
	p, err := NewPaths("/work/circuit", "/work/bioname")
	if err != nil {
		t.Fatalf("NewPaths() error = %v", err)
	}
	tests := []struct{ got, want string }{
		{p.SonataPath("node_sets.json"), "/work/circuit/sonata/node_sets.json"},
		{p.BionamePath(ManifestFile), "/work/bioname/MANIFEST.yaml"},
		{p.NodesPopulationFile("neocortex_neurons"), "/work/circuit/sonata/networks/nodes/neocortex_neurons/nodes.h5"},
		{p.EdgesPopulationFile("glialglial"), "/work/circuit/sonata/networks/edges/glialglial/edges.h5"},
		{p.NodesPopulationMorphologiesDir("astrocytes/h5"), "/work/circuit/morphologies/astrocytes/h5"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestNewPaths_Relative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	p, err := NewPaths(".", "bioname")
	if err != nil {
		t.Fatalf("NewPaths() error = %v", err)
	}
	if !filepath.IsAbs(p.CircuitDir) || !filepath.IsAbs(p.BionameDir) {
		t.Errorf("paths must be absolute: %+v", p)
	}
	if filepath.Base(p.BionameDir) != "bioname" {
		t.Errorf("BionameDir = %q", p.BionameDir)
	}
}

func TestPaths_LogPath(t *testing.T) {
	p, err := NewPaths(t.TempDir(), "bioname")
	if err != nil {
		t.Fatal(err)
	}
	ts := Timestamp(time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	if ts != "20240305T140709" {
		t.Fatalf("Timestamp() = %q", ts)
	}
	got, err := p.LogPath("place_cells", ts)
	if err != nil {
		t.Fatalf("LogPath() error = %v", err)
	}
	if want := filepath.Join(p.LogsDir, ts, "place_cells.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
	if fi, err := os.Stat(filepath.Dir(got)); err != nil || !fi.IsDir() {
		t.Errorf("log dir not created: %v", err)
	}
}

func TestMakeAbs(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/vasculature.h5", "/bioname/data/vasculature.h5"},
		{"../atlas/v.obj", "/atlas/v.obj"},
		{"/gpfs/atlas/v.h5", "/gpfs/atlas/v.h5"},
		{"$CIRCUIT/v.h5", "$CIRCUIT/v.h5"},
	}
	for _, tt := range tests {
		if got := makeAbs("/bioname", tt.path); got != tt.want {
			t.Errorf("makeAbs(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
