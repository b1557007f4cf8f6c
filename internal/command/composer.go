// Package command composes the shell commands executed by pipeline steps.
//
// A step command is wrapped, innermost first, with an optional container
// invocation, an optional Slurm allocation, the activation of its runtime
// environment, and finally "set -ex" plus output redirection to the log file.
// Composition only builds strings; nothing is executed here.
package command

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/me/circuitbuild/internal/cluster"
	"github.com/me/circuitbuild/internal/envconfig"
	"github.com/me/circuitbuild/internal/logging"
)

const moduleInit = ". /etc/profile.d/modules.sh"

// SmRunPlaceholder is a command token replaced by the sm_run arguments that
// cluster.yaml declares for the request's queue. The queue must match
// exactly; without an entry the token is dropped.
const SmRunPlaceholder = "{sm_run}"

// Options control the outermost redirection.
type Options struct {
	LogPath     string // Defaults to DefaultLogPath
	LogToStderr bool   // Copy the output to stderr as well (LOG_ALL_TO_STDERR)
}

// Request describes one step command.
type Request struct {
	Command     []string // Tokens joined with single spaces
	Environment string   // Registry entry to activate; empty for none
	Queue       string   // Slurm queue; empty runs on the current node
	SkipSrun    bool     // Run the command directly under salloc, without srun
}

// Composer turns Requests into shell command strings. It only reads its
// registry and cluster configuration, so one Composer may be shared by
// concurrent callers.
type Composer struct {
	envs    envconfig.Registry
	cluster cluster.Config
	opts    Options
	logger  *slog.Logger
}

// NewComposer creates a Composer. clusterCfg may be empty, in which case
// Queue is ignored.
func NewComposer(envs envconfig.Registry, clusterCfg cluster.Config, opts Options, logger *slog.Logger) *Composer {
	if opts.LogPath == "" {
		opts.LogPath = DefaultLogPath
	}
	return &Composer{
		envs:    envs,
		cluster: clusterCfg,
		opts:    opts,
		logger:  logging.Component(logger, "composer"),
	}
}

// Compose returns the full shell command for req.
func (c *Composer) Compose(req Request) (string, error) {
	inner := strings.Join(expandSmRun(req.Command, c.cluster[req.Queue].SmRun), " ")

	var env *envconfig.Environment
	if req.Environment != "" {
		e, err := c.envs.Lookup(req.Environment)
		if err != nil {
			return "", err
		}
		env = &e
	}

	// Slurm wraps the container invocation, not the bare command, so that
	// srun starts the container on the allocated node.
	payload := inner
	if env != nil && env.Kind == envconfig.KindApptainer {
		payload = containerExec(*env, inner)
	}

	if req.Queue != "" && len(c.cluster) > 0 {
		s, err := c.cluster.Resolve(req.Queue)
		if err != nil {
			return "", err
		}
		payload = slurmWrap(s, payload, req.SkipSrun)
	}

	cmd := payload
	if env != nil {
		var err error
		if cmd, err = activate(*env, payload); err != nil {
			return "", fmt.Errorf("environment %q: %w", req.Environment, err)
		}
	}

	c.logger.Debug("composed command",
		"env", req.Environment,
		"queue", req.Queue,
		"skip_srun", req.SkipSrun,
	)
	return Redirect(cmd, c.opts.LogPath, c.opts.LogToStderr), nil
}

func expandSmRun(tokens []string, args string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok == SmRunPlaceholder {
			if args == "" {
				continue
			}
			tok = args
		}
		out = append(out, tok)
	}
	return out
}

// slurmWrap runs payload through salloc (and srun unless skipSrun).
func slurmWrap(s cluster.Slurm, payload string, skipSrun bool) string {
	srun := "srun"
	if skipSrun {
		srun = ""
	}
	out := words("salloc", "-J", s.JobName, s.Salloc, srun, "sh", "-c", "'"+EscapeSingleQuotes(payload)+"'")
	if len(s.EnvVars) > 0 {
		out = "env " + s.EnvVars.String() + " " + out
	}
	return out
}

// containerExec feeds inner to a shell inside the image through a heredoc,
// after changing to the directory the host shell is in.
//
// The heredoc marker is unquoted so that "$(pwd)" names the host directory.
// The host shell therefore expands every $VAR of inner before the container
// starts; activate exports env_vars on the host as well, so references in
// the step text see the same values as under MODULE and VENV. The export
// inside the heredoc makes them visible to the step's own processes, which
// --cleanenv would otherwise hide.
func containerExec(env envconfig.Environment, inner string) string {
	script := andThen(`cd "$(pwd)"`, exportStep(env.EnvVars), inner)
	return fmt.Sprintf("%s <<%s\n%s\n%s\n",
		words(env.Executable, "exec", env.Options, env.Image, "bash"),
		heredocMarker, script, heredocMarker)
}

// activate prefixes payload with the activation steps of env.
func activate(env envconfig.Environment, payload string) (string, error) {
	switch env.Kind {
	case envconfig.KindModule:
		return andThen(
			moduleInit,
			"module purge",
			"export MODULEPATH="+env.ModulePath,
			"module load "+strings.Join(env.Modules, " "),
			"echo MODULEPATH="+env.ModulePath,
			"module list",
			exportStep(env.EnvVars),
			payload,
		), nil
	case envconfig.KindApptainer:
		return andThen(
			moduleInit,
			"module purge",
			"module use "+env.ModulePath,
			"module load "+strings.Join(env.Modules, " "),
			env.Executable+" --version",
			exportStep(env.EnvVars),
			payload,
		), nil
	case envconfig.KindVenv:
		return andThen(
			". "+env.Path+"/bin/activate",
			exportStep(env.EnvVars),
			payload,
		), nil
	default:
		return "", fmt.Errorf("%w: %q", envconfig.ErrInvalidKind, env.Kind)
	}
}

func exportStep(vars envconfig.EnvVars) string {
	if len(vars) == 0 {
		return ""
	}
	return "export " + vars.String()
}
