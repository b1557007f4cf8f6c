// Package envconfig holds the runtime environments that pipeline steps are
// executed in: environment modules, Apptainer images and Python virtualenvs.
package envconfig

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind selects how an environment is activated.
type Kind string

const (
	KindModule    Kind = "MODULE"
	KindApptainer Kind = "APPTAINER"
	KindVenv      Kind = "VENV"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindModule, KindApptainer, KindVenv}

// Environment describes one named runtime environment.
//
// Only the fields belonging to Kind may be set: ModulePath and Modules for
// MODULE; Image, Executable, Options, ModulePath and Modules for APPTAINER;
// Path for VENV. EnvVars is valid for every kind.
type Environment struct {
	Kind       Kind     `yaml:"env_type" json:"env_type"`
	ModulePath string   `yaml:"modulepath,omitempty" json:"modulepath,omitempty"`
	Modules    []string `yaml:"modules,omitempty" json:"modules,omitempty"`
	Image      string   `yaml:"image,omitempty" json:"image,omitempty"`
	Executable string   `yaml:"executable,omitempty" json:"executable,omitempty"`
	Options    string   `yaml:"options,omitempty" json:"options,omitempty"`
	Path       string   `yaml:"path,omitempty" json:"path,omitempty"`
	EnvVars    EnvVars  `yaml:"env_vars,omitempty" json:"env_vars,omitempty"`
}

// Validate checks that exactly the field set of e.Kind is populated.
func (e Environment) Validate() error {
	switch e.Kind {
	case KindModule:
		if len(e.Modules) == 0 {
			return fmt.Errorf("%w: MODULE requires modules", ErrInvalidEnvironment)
		}
		if e.Image != "" || e.Executable != "" || e.Options != "" || e.Path != "" {
			return fmt.Errorf("%w: MODULE accepts only modulepath, modules and env_vars", ErrInvalidEnvironment)
		}
	case KindApptainer:
		if e.Image == "" {
			return fmt.Errorf("%w: APPTAINER requires image", ErrInvalidEnvironment)
		}
		if e.Path != "" {
			return fmt.Errorf("%w: APPTAINER does not accept path", ErrInvalidEnvironment)
		}
	case KindVenv:
		if e.Path == "" {
			return fmt.Errorf("%w: VENV requires path", ErrInvalidEnvironment)
		}
		if e.ModulePath != "" || len(e.Modules) > 0 || e.Image != "" || e.Executable != "" || e.Options != "" {
			return fmt.Errorf("%w: VENV accepts only path and env_vars", ErrInvalidEnvironment)
		}
	default:
		return fmt.Errorf("%w: %q (expected one of %v)", ErrInvalidKind, e.Kind, Kinds)
	}
	for _, m := range e.Modules {
		if m == "" {
			return fmt.Errorf("%w: empty module name", ErrInvalidEnvironment)
		}
	}
	return nil
}

// withDefaults fills the optional fields of e from d. The result shares no
// slices with e or d.
func (e Environment) withDefaults(d Defaults) Environment {
	out := e.clone()
	switch e.Kind {
	case KindModule:
		if out.ModulePath == "" {
			out.ModulePath = d.ModulePath
		}
	case KindApptainer:
		if out.ModulePath == "" {
			out.ModulePath = d.Apptainer.ModulePath
		}
		if len(out.Modules) == 0 {
			out.Modules = append([]string(nil), d.Apptainer.Modules...)
		}
		if out.Executable == "" {
			out.Executable = d.Apptainer.Executable
		}
		if out.Options == "" {
			out.Options = d.Apptainer.Options
		}
		if !filepath.IsAbs(out.Image) && !strings.Contains(out.Image, "://") && d.Apptainer.ImagePath != "" {
			out.Image = filepath.Join(d.Apptainer.ImagePath, out.Image)
		}
	}
	return out
}

func (e Environment) clone() Environment {
	out := e
	if e.Modules != nil {
		out.Modules = append([]string(nil), e.Modules...)
	}
	out.EnvVars = e.EnvVars.clone()
	return out
}
