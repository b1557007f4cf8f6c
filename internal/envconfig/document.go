package envconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/circuitbuild/internal/schema"
	"gopkg.in/yaml.v3"
)

// FileName is the user override document looked up in the bioname directory.
const FileName = "environments.yaml"

// Document is a user override document.
type Document struct {
	EnvConfig map[string]Environment `yaml:"env_config"`
}

// ParseDocument validates data against the environments schema and decodes it.
func ParseDocument(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if err := schema.Validate(schema.Environments, raw); err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FileName, err)
	}
	return &doc, nil
}

// ReadDocument reads and parses an override document from path.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read environments: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadBioname loads the registry the way a pipeline run does: built-in
// defaults, then legacy overrides, then bionameDir/environments.yaml if the
// file exists.
func LoadBioname(d Defaults, legacy []string, bionameDir string, logger *slog.Logger) (Registry, error) {
	var doc *Document
	path := filepath.Join(bionameDir, FileName)
	if _, err := os.Stat(path); err == nil {
		if doc, err = ReadDocument(path); err != nil {
			return Registry{}, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Registry{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Load(d, legacy, doc, logger)
}

// WriteYAML dumps r to path, the resolved configuration kept next to the logs.
func WriteYAML(path string, r Registry) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode environments: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}
