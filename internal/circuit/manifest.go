package circuit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/me/circuitbuild/internal/schema"
)

// ManifestFile is the name of the build manifest inside the bioname dir.
const ManifestFile = "MANIFEST.yaml"

// Default NGV population names.
const (
	DefaultAstrocytesName            = "astrocytes"
	DefaultVasculatureName           = "vasculature"
	DefaultNeuronsAstrocytesName     = "neuroglial"
	DefaultAstrocytesAstrocytesName  = "glialglial"
	DefaultAstrocytesVasculatureName = "gliovascular"
)

// Manifest is the part of MANIFEST.yaml used to derive circuit configs.
// Other keys are ignored.
type Manifest struct {
	Timestamp string `yaml:"timestamp"`
	Common    Common `yaml:"common"`
	NGV       NGV    `yaml:"ngv"`
}

type Common struct {
	Atlas              string `yaml:"atlas"`
	NodePopulationName string `yaml:"node_population_name"`
	EdgePopulationName string `yaml:"edge_population_name"`
	MorphRelease       string `yaml:"morph_release"`
	EmodelRelease      string `yaml:"emodel_release"`
	Synthesis          bool   `yaml:"synthesis"`
}

type NGV struct {
	Common NGVCommon `yaml:"common"`
}

type NGVCommon struct {
	Vasculature     string          `yaml:"vasculature"`
	VasculatureMesh string          `yaml:"vasculature_mesh"`
	NodePopulations NodePopulations `yaml:"node_populations"`
	EdgePopulations EdgePopulations `yaml:"edge_populations"`

	// BaseCircuit, when set, makes the NGV build standalone: neurons come
	// from an existing circuit instead of this build.
	BaseCircuit *BaseCircuit `yaml:"base_circuit"`
}

type NodePopulations struct {
	Astrocytes  string `yaml:"astrocytes"`
	Vasculature string `yaml:"vasculature"`
}

type EdgePopulations struct {
	NeuronsAstrocytes     string `yaml:"neurons_astrocytes"`
	AstrocytesAstrocytes  string `yaml:"astrocytes_astrocytes"`
	AstrocytesVasculature string `yaml:"astrocytes_vasculature"`
}

// BaseCircuit points at the neuron populations of an existing circuit.
// Relative paths are relative to the bioname dir.
type BaseCircuit struct {
	NodesFile          string `yaml:"nodes_file"`
	NodePopulationName string `yaml:"node_population_name"`
	MorphologiesDir    string `yaml:"morphologies_dir"`
	EdgesFile          string `yaml:"edges_file"`
	EdgePopulationName string `yaml:"edge_population_name"`
}

// ParseManifest validates data against the manifest schema and decodes it.
func ParseManifest(data []byte) (*Manifest, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	if err := schema.Validate(schema.Manifest, raw); err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// ReadManifest reads and parses a MANIFEST.yaml file.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// LogTimestamp returns the manifest timestamp, or now formatted.
func (m *Manifest) LogTimestamp(now time.Time) string {
	if m != nil && m.Timestamp != "" {
		return m.Timestamp
	}
	return Timestamp(now)
}

// Standalone reports whether the NGV build reuses an existing circuit.
func (m *Manifest) Standalone() bool { return m.NGV.Common.BaseCircuit != nil }

// EmodelHocDir returns the hoc dir of the emodel release, or "" when
// synthesis is enabled or no release is configured. The release must
// contain mecombo_emodel.tsv and hoc.
func (m *Manifest) EmodelHocDir() (string, error) {
	release := m.Common.EmodelRelease
	if m.Common.Synthesis || release == "" {
		return "", nil
	}
	hoc := filepath.Join(release, "hoc")
	for _, p := range []string{filepath.Join(release, "mecombo_emodel.tsv"), hoc} {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s must contain 'mecombo_emodel.tsv' file and 'hoc' folder: %w", release, err)
		}
	}
	return hoc, nil
}

func (m *Manifest) astrocytesName() string {
	return orDefault(m.NGV.Common.NodePopulations.Astrocytes, DefaultAstrocytesName)
}

func (m *Manifest) vasculatureName() string {
	return orDefault(m.NGV.Common.NodePopulations.Vasculature, DefaultVasculatureName)
}

func (m *Manifest) neuronsAstrocytesName() string {
	return orDefault(m.NGV.Common.EdgePopulations.NeuronsAstrocytes, DefaultNeuronsAstrocytesName)
}

func (m *Manifest) astrocytesAstrocytesName() string {
	return orDefault(m.NGV.Common.EdgePopulations.AstrocytesAstrocytes, DefaultAstrocytesAstrocytesName)
}

func (m *Manifest) astrocytesVasculatureName() string {
	return orDefault(m.NGV.Common.EdgePopulations.AstrocytesVasculature, DefaultAstrocytesVasculatureName)
}

func orDefault(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
