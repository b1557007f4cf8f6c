// Package schema validates circuit-build configuration documents against
// the JSON schemas embedded in the binary.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Names of the embedded schemas.
const (
	Environments = "environments"
	Cluster      = "cluster"
	Manifest     = "manifest"
)

// ErrInvalidConfiguration is the sentinel wrapped by every ValidationError.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ValidationError lists every problem found in a document.
type ValidationError struct {
	Schema   string
	Problems []string // "root.a.b: message", sorted
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid configuration [%s]", e.Schema)
	for i, p := range e.Problems {
		fmt.Fprintf(&b, "\n%d: Failed validating %s", i+1, p)
	}
	return b.String()
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfiguration }

var (
	mu       sync.Mutex
	compiled = map[string]*jsonschema.Schema{}
)

func load(name string) (*jsonschema.Schema, error) {
	mu.Lock()
	defer mu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://circuit-build.schemas.local/%s.schema.json", name)
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("schema %s load failed: %w", name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("schema %s compile failed: %w", name, err)
	}
	compiled[name] = s
	return s, nil
}

// Validate checks doc against the named schema. doc may be any value that
// encodes to JSON, typically the result of decoding YAML into an any.
func Validate(name string, doc any) error {
	s, err := load(name)
	if err != nil {
		return err
	}
	instance, err := normalize(doc)
	if err != nil {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	err = s.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema %s: %w", name, err)
	}
	problems := leafProblems(verr)
	sort.Strings(problems)
	return &ValidationError{Schema: name, Problems: problems}
}

// normalize round-trips doc through encoding/json so that the validator only
// sees map[string]any, []any, json.Number, string, bool and nil.
func normalize(doc any) (any, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func leafProblems(e *jsonschema.ValidationError) []string {
	if len(e.Causes) == 0 {
		return []string{fmt.Sprintf("%s: %s", instancePath(e.InstanceLocation), e.Message)}
	}
	var out []string
	for _, c := range e.Causes {
		out = append(out, leafProblems(c)...)
	}
	return out
}

// instancePath turns a JSON pointer ("/env_config/foo") into "root.env_config.foo".
func instancePath(pointer string) string {
	parts := []string{"root"}
	for _, p := range strings.Split(pointer, "/") {
		if p == "" {
			continue
		}
		p = strings.ReplaceAll(p, "~1", "/")
		p = strings.ReplaceAll(p, "~0", "~")
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}
