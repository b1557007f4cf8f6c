package sonata

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestResolver_Path(t *testing.T) {
	tests := []struct {
		name       string
		circuitDir string
		baseDir    string
		path       string
		want       string
	}{
		{"empty", "/work/circuit", "/work/circuit/sonata", "", ""},
		{"variable", "/work/circuit", "/work/circuit/sonata", "$OTHER/x.h5", "$OTHER/x.h5"},
		{"under base", "/work/circuit", "/work/circuit/sonata", "/work/circuit/sonata/networks/nodes/X/nodes.h5", "$BASE_DIR/networks/nodes/X/nodes.h5"},
		{"base itself", "/work/circuit", "/work/circuit/sonata", "/work/circuit/sonata", "$BASE_DIR"},
		{"under circuit", "/work/circuit", "/work/circuit/sonata", "/work/circuit/morphologies/X", "$BASE_DIR/../morphologies/X"},
		{"two levels", "/work/circuit", "/work/circuit/a/b", "/work/circuit/emodels", "$BASE_DIR/../../emodels"},
		{"three levels", "/work/circuit", "/work/circuit/a/b/c", "/work/circuit/x.h5", "$BASE_DIR/../../../x.h5"},
		{"circuit itself", "/work/circuit", "/work/circuit/sonata", "/work/circuit", "$BASE_DIR/.."},
		{"same dirs", "/work/circuit", "/work/circuit", "/work/circuit/x.h5", "$BASE_DIR/x.h5"},
		{"outside circuit", "/work/circuit", "/work/circuit/sonata", "/gpfs/shared/atlas/brain_regions.nrrd", "$BASE_DIR/gpfs/shared/atlas/brain_regions.nrrd"},
		{"sibling prefix", "/work/circuit", "/work/circuit/sonata", "/work/circuit2/x.h5", "$BASE_DIR/work/circuit2/x.h5"},
		{"relative", "/work/circuit", "/work/circuit/sonata", "networks/x.h5", "$BASE_DIR/networks/x.h5"},
		{"relative dot", "/work/circuit", "/work/circuit/sonata", "./networks//x.h5", "$BASE_DIR/networks/x.h5"},
		{"trailing slash dirs", "/work/circuit/", "/work/circuit/sonata/", "/work/circuit/sonata/x.h5", "$BASE_DIR/x.h5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newResolver(tt.circuitDir, tt.baseDir)
			if err != nil {
				t.Fatalf("newResolver() error = %v", err)
			}
			if got := r.path(tt.path); got != tt.want {
				t.Errorf("path(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolver_ClimbsOneSegmentPerLevel(t *testing.T) {
	const circuitDir = "/work/circuit"
	baseDir := circuitDir
	for n := 0; n <= 3; n++ {
		if n > 0 {
			baseDir += fmt.Sprintf("/l%d", n)
		}
		r, err := newResolver(circuitDir, baseDir)
		if err != nil {
			t.Fatalf("newResolver(%q) error = %v", baseDir, err)
		}
		got := r.path(circuitDir + "/morphologies/X")
		want := BaseDirVar + "/" + strings.Repeat("../", n) + "morphologies/X"
		if got != want {
			t.Errorf("n=%d: path = %q, want %q", n, got, want)
		}
		if c := strings.Count(got, "../"); c != n {
			t.Errorf("n=%d: %d parent segments", n, c)
		}
	}
}

func TestResolve_RoundTrip(t *testing.T) {
	const baseDir = "/work/circuit/sonata"
	r, err := newResolver("/work/circuit", baseDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		"/work/circuit/sonata/node_sets.json",
		"/work/circuit/sonata/networks/nodes/X/nodes.h5",
		"/work/circuit/sonata/networks/edges/functional/X__X__chemical/edges.h5",
	} {
		got := strings.Replace(r.path(p), BaseDirVar, baseDir, 1)
		if got != p {
			t.Errorf("round trip of %q = %q", p, got)
		}
	}
}

func TestResolve_InvalidHierarchy(t *testing.T) {
	for _, dirs := range [][2]string{
		{"/work/circuit", "/work/other"},
		{"/work/circuit/sonata", "/work/circuit"},
		{"/work/circuit", "/work/circuit2"},
		{"/work/circuit", "work/circuit/sonata"},
		{"work/circuit", "work/circuit/sonata"},
		{"", "/work/circuit"},
	} {
		_, err := Resolve(mustBuild(t, nil, nil, ""), dirs[0], dirs[1])
		var hierErr *InvalidDirectoryHierarchyError
		if !errors.As(err, &hierErr) {
			t.Errorf("Resolve(%q, %q) error = %v, want *InvalidDirectoryHierarchyError", dirs[0], dirs[1], err)
			continue
		}
		if !errors.Is(err, ErrInvalidDirectoryHierarchy) {
			t.Errorf("error does not wrap ErrInvalidDirectoryHierarchy")
		}
	}
}

func TestResolve_Manifest(t *testing.T) {
	doc := mustBuild(t, nil, nil, "")
	doc.Manifest[BaseDirVar] = "/abs"
	if _, err := Resolve(doc, "/c", "/c"); err == nil {
		t.Fatal("Resolve() error = nil, want error for non-dot manifest")
	}
}

func TestResolve_EndToEnd(t *testing.T) {
	doc := mustBuild(t,
		[]NodePopulation{BiophysicalNodes{
			NodesFile:                  "/work/circuit/sonata/networks/nodes/X/nodes.h5",
			Name:                       "X",
			MorphologiesDir:            "/work/circuit/morphologies/X",
			BiophysicalNeuronModelsDir: "/work/circuit/emodels",
		}},
		[]EdgePopulation{ChemicalEdges{Edges{
			EdgesFile: "/work/circuit/sonata/networks/edges/functional/X__X__chemical/edges.h5",
			Name:      "X__X__chemical",
		}}},
		"/work/circuit/sonata/node_sets.json",
	)
	resolved, err := Resolve(doc, "/work/circuit", "/work/circuit/sonata")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := resolved.Networks.Nodes[0].File; got != "$BASE_DIR/networks/nodes/X/nodes.h5" {
		t.Errorf("nodes_file = %q", got)
	}
	if got := doc.Networks.Nodes[0].File; got != "/work/circuit/sonata/networks/nodes/X/nodes.h5" {
		t.Errorf("input document was modified: nodes_file = %q", got)
	}

	var buf strings.Builder
	if err := Encode(&buf, resolved); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	want := `{
  "version": 2,
  "manifest": {
    "$BASE_DIR": "."
  },
  "node_sets_file": "$BASE_DIR/node_sets.json",
  "networks": {
    "nodes": [
      {
        "nodes_file": "$BASE_DIR/networks/nodes/X/nodes.h5",
        "populations": {
          "X": {
            "type": "biophysical",
            "morphologies_dir": "$BASE_DIR/../morphologies/X",
            "biophysical_neuron_models_dir": "$BASE_DIR/../emodels"
          }
        }
      }
    ],
    "edges": [
      {
        "edges_file": "$BASE_DIR/networks/edges/functional/X__X__chemical/edges.h5",
        "populations": {
          "X__X__chemical": {
            "type": "chemical"
          }
        }
      }
    ]
  }
}
`
	if buf.String() != want {
		t.Errorf("Encode() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestResolve_AlternateMorphologies(t *testing.T) {
	doc := mustBuild(t, []NodePopulation{AstrocyteNodes{
		NodesFile:        "/c/sonata/astro.h5",
		Name:             "astrocytes",
		MorphologiesDir:  "/c/morphologies/astrocytes/h5",
		MicrodomainsFile: "/c/sonata/microdomains.h5",
	}}, nil, "")
	resolved, err := Resolve(doc, "/c", "/c/sonata")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	fields := resolved.Networks.Nodes[0].Populations[0].Fields
	morph, ok := fields[0].Value.(Morphologies)
	if !ok || len(morph) != 1 || morph[0].Dir != "$BASE_DIR/../morphologies/astrocytes/h5" {
		t.Errorf("alternate_morphologies = %#v", fields[0].Value)
	}
	if fields[1].Value != "$BASE_DIR/microdomains.h5" {
		t.Errorf("microdomains_file = %v", fields[1].Value)
	}
	orig := doc.Networks.Nodes[0].Populations[0].Fields[0].Value.(Morphologies)
	if orig[0].Dir != "/c/morphologies/astrocytes/h5" {
		t.Errorf("input morphologies were modified: %q", orig[0].Dir)
	}
}
