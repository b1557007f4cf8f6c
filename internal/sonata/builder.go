package sonata

import "fmt"

// Build renders populations into an unresolved circuit config. Paths are
// copied verbatim; see Resolve for the $BASE_DIR rewrite.
//
// Populations must be passed by value. A pointer or nil element yields an
// *UnknownPopulationTypeError naming its Go type.
func Build(nodes []NodePopulation, edges []EdgePopulation, nodeSetsFile string) (Document, error) {
	doc := Document{
		Version:      2,
		Manifest:     map[string]string{BaseDirVar: "."},
		NodeSetsFile: nodeSetsFile,
		Networks: Networks{
			Nodes: make([]Network, 0, len(nodes)),
			Edges: make([]Network, 0, len(edges)),
		},
	}
	for i, n := range nodes {
		net, err := renderNodes(n)
		if err != nil {
			return Document{}, fmt.Errorf("nodes[%d]: %w", i, err)
		}
		doc.Networks.Nodes = append(doc.Networks.Nodes, net)
	}
	for i, e := range edges {
		net, err := renderEdges(e)
		if err != nil {
			return Document{}, fmt.Errorf("edges[%d]: %w", i, err)
		}
		doc.Networks.Edges = append(doc.Networks.Edges, net)
	}
	return doc, nil
}

func renderNodes(p NodePopulation) (Network, error) {
	var (
		file, name string
		fields     []Field
	)
	switch n := p.(type) {
	case BiophysicalNodes:
		file, name = n.NodesFile, n.Name
		if len(n.AlternateMorphologies) > 0 {
			fields = append(fields, Field{"alternate_morphologies", append(Morphologies(nil), n.AlternateMorphologies...)})
		} else {
			fields = append(fields, Field{"morphologies_dir", n.MorphologiesDir})
		}
		fields = append(fields, Field{"biophysical_neuron_models_dir", n.BiophysicalNeuronModelsDir})
	case VirtualNodes:
		file, name = n.NodesFile, n.Name
	case PointNeuronNodes:
		file, name = n.NodesFile, n.Name
	case AstrocyteNodes:
		file, name = n.NodesFile, n.Name
		fields = []Field{
			{"alternate_morphologies", Morphologies{{Format: "h5v1", Dir: n.MorphologiesDir}}},
			{"microdomains_file", n.MicrodomainsFile},
		}
	case VasculatureNodes:
		file, name = n.NodesFile, n.Name
		fields = []Field{
			{"vasculature_file", n.VasculatureFile},
			{"vasculature_mesh", n.VasculatureMesh},
		}
	default:
		return Network{}, &UnknownPopulationTypeError{Network: "nodes", Type: fmt.Sprintf("%T", p), Valid: NodeTypes}
	}
	return Network{
		FileKey:     "nodes_file",
		File:        file,
		Populations: []Population{{Name: name, Type: p.Type(), Fields: fields}},
	}, nil
}

func renderEdges(p EdgePopulation) (Network, error) {
	var (
		base   Edges
		fields []Field
	)
	switch e := p.(type) {
	case ChemicalEdges:
		base = e.Edges
	case ElectricalSynapseEdges:
		base = e.Edges
	case GlialGlialEdges:
		base = e.Edges
	case SynapseAstrocyteEdges:
		base = e.Edges
	case NeuromodulatoryEdges:
		base = e.Edges
	case TMSynapseEdges:
		base = e.Edges
	case EndfootEdges:
		base = e.Edges
		fields = []Field{{"endfeet_meshes_file", e.EndfeetMeshesFile}}
	default:
		return Network{}, &UnknownPopulationTypeError{Network: "edges", Type: fmt.Sprintf("%T", p), Valid: EdgeTypes}
	}
	return Network{
		FileKey:     "edges_file",
		File:        base.EdgesFile,
		Populations: []Population{{Name: base.Name, Type: p.Type(), Fields: fields}},
	}, nil
}
