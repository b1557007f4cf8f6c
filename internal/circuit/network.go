package circuit

import (
	"log/slog"
	"path/filepath"

	"github.com/me/circuitbuild/internal/sonata"
	"github.com/me/circuitbuild/internal/validate"
)

// Network is the set of populations written to one circuit config.
type Network struct {
	Nodes        []sonata.NodePopulation
	Edges        []sonata.EdgePopulation
	NodeSetsFile string
}

// Write renders the network into outputFile with paths relative to its
// directory.
func (n Network) Write(outputFile, circuitDir string) error {
	return sonata.WriteConfig(outputFile, circuitDir, n.Nodes, n.Edges, n.NodeSetsFile)
}

// NeuronNetwork returns the neuron populations of a build: the biophysical
// nodes and their chemical connectome found under connectomeType
// (e.g. "functional" or "structural").
func NeuronNetwork(p Paths, m *Manifest, connectomeType string, logger *slog.Logger) (Network, error) {
	nodes, err := neuronNodes(p, m, logger)
	if err != nil {
		return Network{}, err
	}
	edges, err := neuronEdges(p, m, connectomeType, logger)
	if err != nil {
		return Network{}, err
	}
	return Network{
		Nodes:        []sonata.NodePopulation{nodes},
		Edges:        []sonata.EdgePopulation{edges},
		NodeSetsFile: p.SonataPath("node_sets.json"),
	}, nil
}

// NGVNetwork returns the neuro-glia-vascular populations. Neurons come from
// the base circuit when the manifest declares one.
func NGVNetwork(p Paths, m *Manifest, logger *slog.Logger) (Network, error) {
	var (
		neurons  sonata.NodePopulation
		synapses sonata.EdgePopulation
	)
	if bc := m.NGV.Common.BaseCircuit; bc != nil {
		morph := makeAbs(p.BionameDir, bc.MorphologiesDir)
		neurons = sonata.BiophysicalNodes{
			NodesFile: makeAbs(p.BionameDir, bc.NodesFile),
			Name:      bc.NodePopulationName,
			AlternateMorphologies: sonata.Morphologies{
				{Format: "h5v1", Dir: morph},
				{Format: "neurolucida-asc", Dir: morph},
			},
		}
		synapses = sonata.ChemicalEdges{Edges: sonata.Edges{
			EdgesFile: makeAbs(p.BionameDir, bc.EdgesFile),
			Name:      bc.EdgePopulationName,
		}}
	} else {
		var err error
		if neurons, err = neuronNodes(p, m, logger); err != nil {
			return Network{}, err
		}
		if synapses, err = neuronEdges(p, m, "functional", logger); err != nil {
			return Network{}, err
		}
	}

	astrocytes := m.astrocytesName()
	vasculature := m.vasculatureName()
	neuroglial := m.neuronsAstrocytesName()
	glialglial := m.astrocytesAstrocytesName()
	gliovascular := m.astrocytesVasculatureName()

	return Network{
		Nodes: []sonata.NodePopulation{
			neurons,
			sonata.AstrocyteNodes{
				NodesFile:        p.NodesPopulationFile(astrocytes),
				Name:             astrocytes,
				MorphologiesDir:  p.NodesPopulationMorphologiesDir(filepath.Join(astrocytes, "h5")),
				MicrodomainsFile: p.NodesPath(astrocytes, "microdomains.h5"),
			},
			sonata.VasculatureNodes{
				NodesFile:       p.NodesPopulationFile(vasculature),
				Name:            vasculature,
				VasculatureFile: makeAbs(p.BionameDir, m.NGV.Common.Vasculature),
				VasculatureMesh: makeAbs(p.BionameDir, m.NGV.Common.VasculatureMesh),
			},
		},
		Edges: []sonata.EdgePopulation{
			synapses,
			sonata.SynapseAstrocyteEdges{Edges: sonata.Edges{
				EdgesFile: p.EdgesPopulationFile(neuroglial),
				Name:      neuroglial,
			}},
			sonata.GlialGlialEdges{Edges: sonata.Edges{
				EdgesFile: p.EdgesPopulationFile(glialglial),
				Name:      glialglial,
			}},
			sonata.EndfootEdges{
				Edges:             sonata.Edges{EdgesFile: p.EdgesPopulationFile(gliovascular), Name: gliovascular},
				EndfeetMeshesFile: p.EdgesPath(gliovascular, "endfeet_meshes.h5"),
			},
		},
		NodeSetsFile: p.SonataPath("node_sets.json"),
	}, nil
}

func neuronNodes(p Paths, m *Manifest, logger *slog.Logger) (sonata.BiophysicalNodes, error) {
	name, err := validate.NodePopulationName(m.Common.NodePopulationName, logger)
	if err != nil {
		return sonata.BiophysicalNodes{}, err
	}
	hoc, err := m.EmodelHocDir()
	if err != nil {
		return sonata.BiophysicalNodes{}, err
	}
	h5, asc := filepath.Join(m.Common.MorphRelease, "h5v1"), filepath.Join(m.Common.MorphRelease, "ascii")
	if m.Common.Synthesis {
		h5 = p.NodesPopulationMorphologiesDir(name)
		asc = h5
	}
	return sonata.BiophysicalNodes{
		NodesFile: p.NodesPopulationFile(name),
		Name:      name,
		AlternateMorphologies: sonata.Morphologies{
			{Format: "h5v1", Dir: h5},
			{Format: "neurolucida-asc", Dir: asc},
		},
		BiophysicalNeuronModelsDir: hoc,
	}, nil
}

func neuronEdges(p Paths, m *Manifest, connectomeType string, logger *slog.Logger) (sonata.ChemicalEdges, error) {
	name, err := validate.EdgePopulationName(m.Common.EdgePopulationName, logger)
	if err != nil {
		return sonata.ChemicalEdges{}, err
	}
	return sonata.ChemicalEdges{Edges: sonata.Edges{
		EdgesFile: p.EdgesPath(connectomeType, filepath.Join(name, "edges.h5")),
		Name:      name,
	}}, nil
}
