// Package validate checks population names declared in MANIFEST.yaml.
// Names that do not follow the naming convention are accepted with a
// warning; a missing name is an error.
package validate

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/me/circuitbuild/internal/logging"
)

const manifestDocURL = "https://bbpteam.epfl.ch/documentation/projects/circuit-build/latest/bioname.html#manifest-yaml"

// ErrMissingPopulationName is returned when a required population name is empty.
var ErrMissingPopulationName = errors.New("missing population name")

var (
	nodeParts       = []string{"ncx", "neocortex", "hippocampus", "thalamus", "mousify"}
	nodeTypes       = []string{"neurons", "astrocytes", "projections"}
	edgeConnections = []string{"electrical", "chemical_synapse", "synapse_astrocyte", "endfoot"}
)

// NodePopulationName checks that name fits "<part>_<type>".
func NodePopulationName(name string, logger *slog.Logger) (string, error) {
	msg := fmt.Sprintf(`"node_population_name" in MANIFEST.yaml must exist and should fit the pattern: "<part>_<type>", see %s for details`, manifestDocURL)
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingPopulationName, msg)
	}
	parts := strings.Split(name, "_")
	if len(parts) != 2 || !slices.Contains(nodeParts, parts[0]) || !slices.Contains(nodeTypes, parts[1]) {
		logging.OrDiscard(logger).Warn(msg, "name", name)
	}
	return name, nil
}

// EdgePopulationName checks that name fits
// "<source_population>__<target_population>__<connection>". The source
// part may be omitted.
func EdgePopulationName(name string, logger *slog.Logger) (string, error) {
	msg := fmt.Sprintf(`"edge_population_name" in MANIFEST.yaml must exist and should fit the pattern: "<source_population>__<target_population>__<connection>", see %s for details`, manifestDocURL)
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingPopulationName, msg)
	}
	parts := strings.Split(name, "__")
	if (len(parts) != 2 && len(parts) != 3) || !slices.Contains(edgeConnections, parts[len(parts)-1]) {
		logging.OrDiscard(logger).Warn(msg, "name", name)
	}
	return name, nil
}
