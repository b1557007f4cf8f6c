package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/me/circuitbuild/internal/circuit"
	"github.com/me/circuitbuild/internal/command"
)

// stepFlags are the flags shared by compose and run.
type stepFlags struct {
	env      string
	queue    string
	skipSrun bool
	modules  []string
	rule     string
}

func (f *stepFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.env, "env", "", "Environment to run CMD in (see 'env dump')")
	cmd.Flags().StringVar(&f.queue, "queue", "", "cluster.yaml entry to allocate with; __default__ when missing")
	cmd.Flags().BoolVar(&f.skipSrun, "skip-srun", false, "Run CMD directly under salloc, without srun")
	cmd.Flags().StringArrayVar(&f.modules, "module", nil, "Legacy override name:module1,module2[:modulepath] (repeatable, deprecated)")
	cmd.Flags().StringVar(&f.rule, "rule", "", "Name of the step; selects the timestamped log file")
}

// compose returns the composed command for args and the log file it
// redirects to.
func (f *stepFlags) compose(args []string) (string, string, error) {
	logPath := settings.LogPath
	if f.rule != "" {
		p, err := ruleLogPath(f.rule, time.Now())
		if err != nil {
			return "", "", err
		}
		logPath = p
	}
	c, err := newComposer(f.modules, logPath)
	if err != nil {
		return "", "", err
	}
	out, err := c.Compose(command.Request{
		Command:     args,
		Environment: f.env,
		Queue:       f.queue,
		SkipSrun:    f.skipSrun,
	})
	if err != nil {
		return "", "", err
	}
	return out, logPath, nil
}

func newComposeCmd() *cobra.Command {
	var flags stepFlags

	cmd := &cobra.Command{
		Use:   "compose [flags] -- CMD...",
		Short: "Print the shell command running CMD in its environment",
		Long: `Wrap CMD in the Slurm allocation of --queue and the software environment
named by --env, then redirect its output to the log file.

With --rule the log file is logs/<timestamp>/<rule>.log under the current
circuit directory instead of --log.`,
		Example: `  circuit-build compose --env brainbuilder --queue place_cells -- brainbuilder cells place --atlas atlas`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _, err := flags.compose(args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

// ruleLogPath returns the log file of a rule, using the MANIFEST.yaml
// timestamp when the bioname dir has one.
func ruleLogPath(rule string, now time.Time) (string, error) {
	p, err := circuit.NewPaths(".", settings.BionameDir)
	if err != nil {
		return "", err
	}
	m, err := circuit.ReadManifest(p.BionamePath(circuit.ManifestFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	return p.LogPath(rule, m.LogTimestamp(now))
}

// batchResult is one entry of the compose-batch output.
type batchResult struct {
	Name    string `yaml:"name"`
	Command string `yaml:"command"`
}

func newComposeBatchCmd() *cobra.Command {
	var (
		modules []string
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "compose-batch RULES.yaml",
		Short: "Compose the commands of many rules concurrently",
		Long: `Read a list of rules (name, command, env, queue, skip_srun) and print
each composed command as YAML, in input order. The first failing rule
aborts the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := command.ReadRules(args[0])
			if err != nil {
				return err
			}
			c, err := newComposer(modules, settings.LogPath)
			if err != nil {
				return err
			}
			composed, err := command.ComposeAll(cmd.Context(), c, rules, jobs)
			if err != nil {
				return err
			}
			results := make([]batchResult, len(rules))
			for i, r := range rules {
				results[i] = batchResult{Name: r.Name, Command: composed[i]}
			}
			logger.Info("composed rules", "count", len(results))

			var b strings.Builder
			enc := yaml.NewEncoder(&b)
			enc.SetIndent(2)
			if err := enc.Encode(results); err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
			if err := enc.Close(); err != nil {
				return fmt.Errorf("encode results: %w", err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}

	cmd.Flags().StringArrayVar(&modules, "module", nil, "Legacy override name:module1,module2[:modulepath] (repeatable, deprecated)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Maximum number of rules composed at once")

	return cmd
}
