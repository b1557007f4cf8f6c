// Package config loads the circuit-build CLI settings.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds configuration for the circuit-build CLI.
type Settings struct {
	LogLevel          string // Log level: debug, info, warn, error
	LogFormat         string // Log format: text, json
	LogAllToStderr    bool   // Tee step output to stderr as well as the log file
	BionameDir        string // Directory holding MANIFEST.yaml and environments.yaml
	ClusterConfigPath string // cluster.yaml with the Slurm allocation per queue; empty disables Slurm
	LogPath           string // Log file placeholder substituted by the workflow engine
}

// Keys used in config files and for environment binding.
const (
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyLogAllToStderr = "log_all_to_stderr"
	KeyBioname        = "bioname"
	KeyClusterConfig  = "cluster_config"
	KeyLogPath        = "log_path"
)

// EnvPrefix is prepended to every key when read from the process environment,
// except KeyLogAllToStderr which keeps its historical unprefixed name.
const EnvPrefix = "CIRCUIT_BUILD"

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		LogLevel:   "info",
		LogFormat:  "text",
		BionameDir: "bioname",
		LogPath:    "{log}",
	}
}

// Load layers defaults, the optional config file and the environment into v
// and returns the resulting settings. Flags bound to v by the caller take
// precedence over all three.
func Load(v *viper.Viper, configFile string) (Settings, error) {
	d := DefaultSettings()
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyLogAllToStderr, d.LogAllToStderr)
	v.SetDefault(KeyBioname, d.BionameDir)
	v.SetDefault(KeyClusterConfig, d.ClusterConfigPath)
	v.SetDefault(KeyLogPath, d.LogPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyLogAllToStderr, "LOG_ALL_TO_STDERR"); err != nil {
		return Settings{}, fmt.Errorf("bind LOG_ALL_TO_STDERR: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	return Settings{
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		LogAllToStderr:    v.GetBool(KeyLogAllToStderr),
		BionameDir:        v.GetString(KeyBioname),
		ClusterConfigPath: v.GetString(KeyClusterConfig),
		LogPath:           v.GetString(KeyLogPath),
	}, nil
}
