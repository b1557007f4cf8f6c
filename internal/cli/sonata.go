package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/me/circuitbuild/internal/sonata"
)

// descriptorFile is the input of sonata-config.
type descriptorFile struct {
	Nodes        []sonata.Descriptor `yaml:"nodes"`
	Edges        []sonata.Descriptor `yaml:"edges"`
	NodeSetsFile string              `yaml:"node_sets_file"`
}

func readDescriptors(path string) (nodes []sonata.NodePopulation, edges []sonata.EdgePopulation, nodeSets string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("read descriptors: %w", err)
	}
	var f descriptorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, "", fmt.Errorf("parse descriptors %s: %w", path, err)
	}
	for i, d := range f.Nodes {
		n, err := sonata.DecodeNode(d)
		if err != nil {
			return nil, nil, "", fmt.Errorf("nodes[%d]: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	for i, d := range f.Edges {
		e, err := sonata.DecodeEdge(d)
		if err != nil {
			return nil, nil, "", fmt.Errorf("edges[%d]: %w", i, err)
		}
		edges = append(edges, e)
	}
	return nodes, edges, f.NodeSetsFile, nil
}

func newSonataConfigCmd() *cobra.Command {
	var (
		circuitDir string
		output     string
		nodeSets   string
	)

	cmd := &cobra.Command{
		Use:   "sonata-config DESCRIPTORS.yaml",
		Short: "Write a SONATA circuit config from population descriptors",
		Long: `Read node and edge population descriptors (population_type,
population_name and the fields of that type) and write the circuit config.
Paths are rewritten relative to the directory of --output, which must be
inside --circuit-dir.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, edges, fileNodeSets, err := readDescriptors(args[0])
			if err != nil {
				return err
			}
			if nodeSets == "" {
				nodeSets = fileNodeSets
			}
			if err := sonata.WriteConfig(output, circuitDir, nodes, edges, nodeSets); err != nil {
				return err
			}
			logger.Info("circuit config written", "path", output, "nodes", len(nodes), "edges", len(edges))
			return nil
		},
	}

	cmd.Flags().StringVar(&circuitDir, "circuit-dir", ".", "Root directory of the circuit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Circuit config file to write")
	cmd.Flags().StringVar(&nodeSets, "node-sets", "", "node_sets_file entry; overrides the descriptors file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
