// Package cli implements the circuit-build command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/me/circuitbuild/internal/cluster"
	"github.com/me/circuitbuild/internal/command"
	"github.com/me/circuitbuild/internal/config"
	"github.com/me/circuitbuild/internal/envconfig"
	"github.com/me/circuitbuild/internal/logging"
)

var (
	flagConfig string
	flagDebug  bool

	v        *viper.Viper
	settings config.Settings
	logger   *slog.Logger
)

// NewRootCmd creates the root cobra command for the circuit-build CLI.
func NewRootCmd() *cobra.Command {
	v = viper.New()

	root := &cobra.Command{
		Use:   "circuit-build",
		Short: "Compose circuit-build step commands and SONATA circuit configs",
		Long: `circuit-build turns pipeline steps into shell commands wrapped in their
software environment and Slurm allocation, and writes the SONATA circuit
configs of a build.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.Load(v, flagConfig)
			if err != nil {
				return err
			}
			settings = s
			logger = logging.New(cmd.ErrOrStderr(), logging.Options{Level: s.LogLevel, Format: s.LogFormat, Debug: flagDebug})
			return nil
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Settings file (yaml, json or toml)")
	pf.BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.StringP("bioname", "b", "bioname", "Bioname directory holding MANIFEST.yaml and environments.yaml")
	pf.StringP("cluster-config", "u", "", "cluster.yaml with the Slurm allocation per queue")
	pf.String("log", command.DefaultLogPath, "Log file the composed command redirects to")
	for key, flag := range map[string]string{
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
		config.KeyBioname:       "bioname",
		config.KeyClusterConfig: "cluster-config",
		config.KeyLogPath:       "log",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", flag, err))
		}
	}

	root.AddCommand(
		newComposeCmd(),
		newComposeBatchCmd(),
		newRunCmd(),
		newEnvCmd(),
		newSonataConfigCmd(),
		newNetworkConfigCmd(),
	)

	return root
}

// loadRegistry builds the environment registry from the built-in defaults,
// the legacy --module overrides and the bioname environments.yaml.
func loadRegistry(modules []string) (envconfig.Registry, error) {
	return envconfig.LoadBioname(envconfig.BuiltinDefaults(), modules, settings.BionameDir, logger)
}

func newComposer(modules []string, logPath string) (*command.Composer, error) {
	envs, err := loadRegistry(modules)
	if err != nil {
		return nil, err
	}
	clusterCfg, err := cluster.Read(settings.ClusterConfigPath)
	if err != nil {
		return nil, err
	}
	opts := command.Options{LogPath: logPath, LogToStderr: settings.LogAllToStderr}
	return command.NewComposer(envs, clusterCfg, opts, logger), nil
}
