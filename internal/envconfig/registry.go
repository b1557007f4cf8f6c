package envconfig

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/me/circuitbuild/internal/logging"
	"github.com/me/circuitbuild/internal/schema"
)

// Registry is an immutable mapping of environment name to Environment.
// Every stage of the load pipeline returns a new Registry; none modifies
// its input, so a loaded Registry can be shared between goroutines.
type Registry struct {
	envs map[string]Environment
}

// NewRegistry builds a Registry from envs after validating every entry.
// The entries are copied and completed with d.
func NewRegistry(d Defaults, envs map[string]Environment) (Registry, error) {
	out := make(map[string]Environment, len(envs))
	for name, env := range envs {
		if err := env.Validate(); err != nil {
			return Registry{}, fmt.Errorf("environment %q: %w", name, err)
		}
		out[name] = env.withDefaults(d)
	}
	return Registry{envs: out}, nil
}

// Lookup returns a copy of the named environment.
func (r Registry) Lookup(name string) (Environment, error) {
	env, ok := r.envs[name]
	if !ok {
		return Environment{}, &UnknownEnvironmentError{Name: name, Known: r.Names()}
	}
	return env.clone(), nil
}

// Has reports whether name is a known environment.
func (r Registry) Has(name string) bool {
	_, ok := r.envs[name]
	return ok
}

// Names returns the environment names in sorted order.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r.envs))
	for name := range r.envs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of environments.
func (r Registry) Len() int { return len(r.envs) }

// Map returns a copy of the registry contents.
func (r Registry) Map() map[string]Environment {
	out := make(map[string]Environment, len(r.envs))
	for name, env := range r.envs {
		out[name] = env.clone()
	}
	return out
}

// MarshalYAML dumps the registry as a name -> environment mapping.
func (r Registry) MarshalYAML() (any, error) {
	return r.Map(), nil
}

// replace returns a copy of r with the given entries replacing existing ones.
func (r Registry) replace(entries map[string]Environment) Registry {
	out := make(map[string]Environment, len(r.envs)+len(entries))
	for name, env := range r.envs {
		out[name] = env
	}
	for name, env := range entries {
		out[name] = env
	}
	return Registry{envs: out}
}

// Builtin is the first stage: the defaults' environments as a Registry.
func Builtin(d Defaults) (Registry, error) {
	return NewRegistry(d, d.Environments)
}

// ApplyLegacy is the second stage: each override of the form
// name:module1,module2[,...][:modulepath] replaces the entry for name with a
// MODULE environment. name must already be known to base.
func ApplyLegacy(base Registry, d Defaults, overrides []string) (Registry, error) {
	entries := make(map[string]Environment, len(overrides))
	for _, override := range overrides {
		name, env, err := ParseLegacy(override, d)
		if err != nil {
			return Registry{}, err
		}
		if !base.Has(name) {
			return Registry{}, &UnknownEnvironmentError{Name: name, Known: base.Names()}
		}
		entries[name] = env
	}
	return base.replace(entries), nil
}

// ParseLegacy parses one name:module1,module2[,...][:modulepath] override.
// Without the third part the default MODULE search path of d is used.
func ParseLegacy(override string, d Defaults) (string, Environment, error) {
	parts := strings.Split(override, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", Environment{}, &LegacyFormatError{Override: override, Reason: fmt.Sprintf("got %d colon-separated parts", len(parts))}
	}
	name := parts[0]
	if name == "" {
		return "", Environment{}, &LegacyFormatError{Override: override, Reason: "empty environment name"}
	}
	modules := strings.Split(parts[1], ",")
	for _, m := range modules {
		if m == "" {
			return "", Environment{}, &LegacyFormatError{Override: override, Reason: "empty module name"}
		}
	}
	modulePath := d.ModulePath
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", Environment{}, &LegacyFormatError{Override: override, Reason: "empty module path"}
		}
		modulePath = parts[2]
	}
	return name, Environment{Kind: KindModule, ModulePath: modulePath, Modules: modules}, nil
}

// ApplyOverrides is the third stage: entries of doc replace whole entries of
// base, last writer wins. Nothing is merged across fields or kinds.
func ApplyOverrides(base Registry, d Defaults, doc *Document) (Registry, error) {
	if doc == nil || len(doc.EnvConfig) == 0 {
		return base, nil
	}
	overrides, err := NewRegistry(d, doc.EnvConfig)
	if err != nil {
		return Registry{}, err
	}
	return base.replace(overrides.envs), nil
}

// Load runs the three stages and validates the final result against the
// environments schema.
func Load(d Defaults, legacy []string, doc *Document, logger *slog.Logger) (Registry, error) {
	logger = logging.Component(logger, "envconfig")

	r, err := Builtin(d)
	if err != nil {
		return Registry{}, fmt.Errorf("built-in environments: %w", err)
	}
	if len(legacy) > 0 {
		logger.Info("loading custom modules (deprecated, use environments.yaml)", "count", len(legacy))
		if r, err = ApplyLegacy(r, d, legacy); err != nil {
			return Registry{}, err
		}
	}
	if doc != nil {
		logger.Info("loading custom environments", "count", len(doc.EnvConfig))
		if r, err = ApplyOverrides(r, d, doc); err != nil {
			return Registry{}, err
		}
	}
	if err := schema.Validate(schema.Environments, map[string]any{"env_config": r.envs}); err != nil {
		return Registry{}, err
	}
	logger.Debug("environments loaded", "names", r.Names())
	return r, nil
}
