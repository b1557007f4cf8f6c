// Package circuit knows the on-disk layout of a circuit and derives the
// standard SONATA populations of a build from its MANIFEST.yaml.
package circuit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout formats the per-build log directory name.
const TimestampLayout = "20060102T150405"

// Paths is the directory hierarchy of a circuit build. All fields are
// absolute.
type Paths struct {
	CircuitDir string
	BionameDir string

	MorphologiesDir string
	SonataDir       string
	NetworksDir     string
	NodesDir        string
	EdgesDir        string
	LogsDir         string
}

// NewPaths anchors the hierarchy at circuitDir. Relative directories are
// taken from the working directory and a leading "~" is expanded.
func NewPaths(circuitDir, bionameDir string) (Paths, error) {
	circuit, err := absPath(circuitDir)
	if err != nil {
		return Paths{}, fmt.Errorf("circuit dir: %w", err)
	}
	bioname, err := absPath(bionameDir)
	if err != nil {
		return Paths{}, fmt.Errorf("bioname dir: %w", err)
	}
	sonata := filepath.Join(circuit, "sonata")
	networks := filepath.Join(sonata, "networks")
	return Paths{
		CircuitDir:      circuit,
		BionameDir:      bioname,
		MorphologiesDir: filepath.Join(circuit, "morphologies"),
		SonataDir:       sonata,
		NetworksDir:     networks,
		NodesDir:        filepath.Join(networks, "nodes"),
		EdgesDir:        filepath.Join(networks, "edges"),
		LogsDir:         filepath.Join(circuit, "logs"),
	}, nil
}

func (p Paths) SonataPath(name string) string  { return filepath.Join(p.SonataDir, name) }
func (p Paths) BionamePath(name string) string { return filepath.Join(p.BionameDir, name) }

func (p Paths) NodesPath(population, name string) string {
	return filepath.Join(p.NodesDir, population, name)
}

func (p Paths) EdgesPath(population, name string) string {
	return filepath.Join(p.EdgesDir, population, name)
}

// NodesPopulationFile returns the nodes.h5 of a node population.
func (p Paths) NodesPopulationFile(population string) string {
	return p.NodesPath(population, "nodes.h5")
}

// EdgesPopulationFile returns the edges.h5 of an edge population.
func (p Paths) EdgesPopulationFile(population string) string {
	return p.EdgesPath(population, "edges.h5")
}

func (p Paths) NodesPopulationMorphologiesDir(population string) string {
	return filepath.Join(p.MorphologiesDir, population)
}

// LogPath returns logs/<timestamp>/<name>.log and creates its directory.
func (p Paths) LogPath(name, timestamp string) (string, error) {
	dir := filepath.Join(p.LogsDir, timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return filepath.Join(dir, name+".log"), nil
}

// Timestamp formats t as a log directory name.
func Timestamp(t time.Time) string { return t.Format(TimestampLayout) }

func absPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Abs(path)
}

// makeAbs resolves path against parent unless it is a manifest variable
// or already absolute.
func makeAbs(parent, path string) string {
	switch {
	case strings.HasPrefix(path, "$"):
		return path
	case filepath.IsAbs(path):
		return filepath.Clean(path)
	default:
		return filepath.Join(parent, path)
	}
}
