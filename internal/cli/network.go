package cli

import (
	"github.com/spf13/cobra"

	"github.com/me/circuitbuild/internal/circuit"
)

func newNetworkConfigCmd() *cobra.Command {
	var (
		manifest   string
		circuitDir string
		output     string
		connectome string
		ngv        bool
	)

	cmd := &cobra.Command{
		Use:   "network-config",
		Short: "Write the circuit config of a build from its MANIFEST.yaml",
		Long: `Derive the standard populations of a build from MANIFEST.yaml and write
the circuit config. By default these are the neurons and their chemical
connectome; --ngv adds astrocytes, vasculature and their connectivity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := circuit.NewPaths(circuitDir, settings.BionameDir)
			if err != nil {
				return err
			}
			if manifest == "" {
				manifest = p.BionamePath(circuit.ManifestFile)
			}
			m, err := circuit.ReadManifest(manifest)
			if err != nil {
				return err
			}

			var net circuit.Network
			if ngv {
				net, err = circuit.NGVNetwork(p, m, logger)
			} else {
				net, err = circuit.NeuronNetwork(p, m, connectome, logger)
			}
			if err != nil {
				return err
			}
			if err := net.Write(output, p.CircuitDir); err != nil {
				return err
			}
			logger.Info("circuit config written", "path", output, "ngv", ngv, "standalone", ngv && m.Standalone())
			return nil
		},
	}

	cmd.Flags().StringVar(&manifest, "manifest", "", "MANIFEST.yaml (default: <bioname>/MANIFEST.yaml)")
	cmd.Flags().StringVar(&circuitDir, "circuit-dir", ".", "Root directory of the circuit")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Circuit config file to write")
	cmd.Flags().StringVar(&connectome, "connectome", "functional", "Connectome the neuron edges come from")
	cmd.Flags().BoolVar(&ngv, "ngv", false, "Write the neuro-glia-vascular config")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
