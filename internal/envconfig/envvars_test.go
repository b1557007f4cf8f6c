package envconfig

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEnvVars_PreservesOrder(t *testing.T) {
	var holder struct {
		Vars EnvVars `yaml:"env_vars"`
	}
	src := "env_vars:\n  ZZ: last-alpha\n  AA: first-alpha\n  MM: \"3\"\n"
	if err := yaml.Unmarshal([]byte(src), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got := holder.Vars.String(); got != "ZZ=last-alpha AA=first-alpha MM=3" {
		t.Errorf("String() = %q", got)
	}

	out, err := yaml.Marshal(holder)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Index(string(out), "ZZ") > strings.Index(string(out), "AA") {
		t.Errorf("YAML output reordered keys:\n%s", out)
	}

	js, err := json.Marshal(holder.Vars)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if string(js) != `{"ZZ":"last-alpha","AA":"first-alpha","MM":"3"}` {
		t.Errorf("JSON = %s", js)
	}
}

func TestEnvVars_RejectsSequence(t *testing.T) {
	var v EnvVars
	if err := yaml.Unmarshal([]byte("- A=1\n"), &v); err == nil {
		t.Fatal("expected error for sequence node")
	}
}
