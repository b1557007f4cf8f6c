package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/me/circuitbuild/internal/envconfig"
)

func newEnvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Inspect the software environments",
	}
	cmd.AddCommand(newEnvDumpCmd())
	return cmd
}

func newEnvDumpCmd() *cobra.Command {
	var (
		output  string
		modules []string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged environment configuration as YAML",
		Long: `Merge the built-in environments, the --module overrides and the bioname
environments.yaml, and print the result. With --output the YAML is written
to a file instead, as kept next to the build logs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := loadRegistry(modules)
			if err != nil {
				return err
			}
			if output != "" {
				if err := envconfig.WriteYAML(output, r); err != nil {
					return err
				}
				logger.Info("environments written", "path", output, "count", r.Len())
				return nil
			}
			data, err := yaml.Marshal(r)
			if err != nil {
				return fmt.Errorf("encode environments: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringArrayVar(&modules, "module", nil, "Legacy override name:module1,module2[:modulepath] (repeatable, deprecated)")

	return cmd
}
