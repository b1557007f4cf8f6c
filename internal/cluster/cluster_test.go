package cluster

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/me/circuitbuild/internal/schema"
)

const sample = `
__default__:
  salloc: "-A ${SALLOC_ACCOUNT} -p prod_small --time 0:05:00"
brainbuilder:
  salloc: "-A ${SALLOC_ACCOUNT} -p prod_small --time 0:10:00"
brainbuilder_with_env_vars:
  jobname: brainbuilder
  salloc: "-A ${SALLOC_ACCOUNT} -p prod_small --time 0:10:00"
  env_vars:
    MYVAR1: VALUE1
    MYVAR2: VALUE2
`

func TestParseAndResolve(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []struct {
		queue   string
		jobName string
		salloc  string
		env     string
	}{
		{"brainbuilder", "brainbuilder", "-A ${SALLOC_ACCOUNT} -p prod_small --time 0:10:00", ""},
		{"brainbuilder_with_env_vars", "brainbuilder", "-A ${SALLOC_ACCOUNT} -p prod_small --time 0:10:00", "MYVAR1=VALUE1 MYVAR2=VALUE2"},
		{"touchdetector", "touchdetector", "-A ${SALLOC_ACCOUNT} -p prod_small --time 0:05:00", ""},
	}
	for _, tt := range tests {
		t.Run(tt.queue, func(t *testing.T) {
			s, err := c.Resolve(tt.queue)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if s.JobName != tt.jobName {
				t.Errorf("JobName = %q, want %q", s.JobName, tt.jobName)
			}
			if s.Salloc != tt.salloc {
				t.Errorf("Salloc = %q, want %q", s.Salloc, tt.salloc)
			}
			if got := s.EnvVars.String(); got != tt.env {
				t.Errorf("EnvVars = %q, want %q", got, tt.env)
			}
		})
	}
}

func TestResolve_MissingDefault(t *testing.T) {
	c := Config{"brainbuilder": {Salloc: "-p prod"}}
	_, err := c.Resolve("spykfunc")
	if !errors.Is(err, ErrMissingSchedulingConfig) {
		t.Fatalf("error = %v, want ErrMissingSchedulingConfig", err)
	}
	if !strings.Contains(err.Error(), "brainbuilder") {
		t.Errorf("error should list available queues, got: %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("brainbuilder:\n  time: 10\n"))
	if !errors.Is(err, schema.ErrInvalidConfiguration) {
		t.Fatalf("error = %v, want schema.ErrInvalidConfiguration", err)
	}
}

func TestParse_Empty(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(nil) error = %v", err)
	}
	if len(c) != 0 {
		t.Errorf("len = %d, want 0", len(c))
	}
}

func TestRead(t *testing.T) {
	c, err := Read("")
	if err != nil || len(c) != 0 {
		t.Fatalf("Read(\"\") = %v, %v", c, err)
	}

	path := filepath.Join(t.TempDir(), "cluster.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err = Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []string{"__default__", "brainbuilder", "brainbuilder_with_env_vars"}
	if got := c.Queues(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Queues() = %v, want %v", got, want)
	}

	if _, err := Read(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_SmRun(t *testing.T) {
	c, err := Parse([]byte(`
__default__:
  salloc: "-p prod"
spykfunc_s2f:
  salloc: "-p prod --exclusive"
  sm_run: "-m 400g -H"
`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := c["spykfunc_s2f"].SmRun; got != "-m 400g -H" {
		t.Errorf("SmRun = %q", got)
	}
	if got := c["__default__"].SmRun; got != "" {
		t.Errorf("default SmRun = %q, want empty", got)
	}
}
