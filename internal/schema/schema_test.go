package schema

import (
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	var doc any
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	return doc
}

func TestValidate_Environments(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name: "module",
			doc: `
env_config:
  brainbuilder:
    env_type: MODULE
    modules: [archive/2022-03, brainbuilder/0.17.0]
`,
		},
		{
			name: "apptainer with env vars",
			doc: `
env_config:
  brainbuilder:
    env_type: APPTAINER
    image: nse/brainbuilder_0.17.1.sif
    env_vars:
      OMP_NUM_THREADS: "4"
`,
		},
		{
			name: "venv",
			doc: `
env_config:
  brainbuilder:
    env_type: VENV
    path: /path/to/venv
`,
		},
		{
			name: "unknown kind",
			doc: `
env_config:
  brainbuilder:
    env_type: CONDA
    path: /opt/conda
`,
			wantErr: true,
		},
		{
			name: "mixed kinds",
			doc: `
env_config:
  brainbuilder:
    env_type: VENV
    path: /path/to/venv
    modules: [a]
`,
			wantErr: true,
		},
		{
			name:    "missing env_config",
			doc:     "version: 1\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(Environments, decode(t, tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error %v does not wrap ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestValidate_Cluster(t *testing.T) {
	good := `
__default__:
  salloc: "-A ${SALLOC_ACCOUNT} -p prod --time 0:05:00"
spykfunc_s2f:
  jobname: s2f
  salloc: "-N 4"
  sm_run: "-m 0 -c 0"
  env_vars:
    SPARK_LOCAL_DIRS: /tmp
`
	if err := Validate(Cluster, decode(t, good)); err != nil {
		t.Fatalf("Validate(good) error = %v", err)
	}

	bad := `
brainbuilder:
  jobname: bb
`
	err := Validate(Cluster, decode(t, bad))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if verr.Schema != Cluster {
		t.Errorf("Schema = %q, want %q", verr.Schema, Cluster)
	}
	if !strings.Contains(err.Error(), "root.brainbuilder") {
		t.Errorf("error should locate root.brainbuilder, got: %v", err)
	}
}

func TestValidate_Manifest(t *testing.T) {
	good := `
common:
  node_population_name: neocortex_neurons
  edge_population_name: neocortex_neurons__chemical_synapse
  morph_release: /gpfs/morph/2017.10.31
  synthesis: false
  region: SSCX
ngv:
  common:
    vasculature: data/vasculature.h5
    base_circuit:
      nodes_file: base/nodes.h5
      node_population_name: All
      morphologies_dir: base/morphologies
      edges_file: base/edges.h5
      edge_population_name: default
`
	if err := Validate(Manifest, decode(t, good)); err != nil {
		t.Fatalf("Validate(good) error = %v", err)
	}

	bad := `
common:
  synthesis: "yes"
ngv:
  common:
    base_circuit:
      nodes_file: base/nodes.h5
`
	err := Validate(Manifest, decode(t, bad))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	msg := err.Error()
	for _, want := range []string{"root.common.synthesis", "root.ngv.common.base_circuit"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error should locate %s, got: %v", want, msg)
		}
	}
}

func TestValidate_UnknownSchema(t *testing.T) {
	if err := Validate("nope", map[string]any{}); err == nil {
		t.Fatal("expected error for unknown schema")
	}
}

func TestInstancePath(t *testing.T) {
	tests := map[string]string{
		"":                      "root",
		"/env_config/foo":       "root.env_config.foo",
		"/a~1b/c~0d":            "root.a/b.c~d",
		"/env_config/x/modules": "root.env_config.x.modules",
	}
	for in, want := range tests {
		if got := instancePath(in); got != want {
			t.Errorf("instancePath(%q) = %q, want %q", in, got, want)
		}
	}
}
