package sonata

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPopulationType is returned for a type tag outside NodeTypes or EdgeTypes.
	ErrUnknownPopulationType = errors.New("unknown population type")

	// ErrPopulationArgumentMismatch is returned when a descriptor's fields do not match its type.
	ErrPopulationArgumentMismatch = errors.New("population fields do not match type")

	// ErrInvalidDirectoryHierarchy is returned when the config directory is
	// not inside the circuit directory.
	ErrInvalidDirectoryHierarchy = errors.New("invalid directory hierarchy")
)

// UnknownPopulationTypeError names the rejected tag and the accepted ones.
type UnknownPopulationTypeError struct {
	Network string // "nodes" or "edges"
	Type    string
	Valid   []string
}

func (e *UnknownPopulationTypeError) Error() string {
	return fmt.Sprintf("population type %q is not available for %s, choose one of: %s",
		e.Type, e.Network, strings.Join(e.Valid, ", "))
}

func (e *UnknownPopulationTypeError) Unwrap() error { return ErrUnknownPopulationType }

// ArgumentMismatchError reports the fields a descriptor provided against
// the ones its type requires.
type ArgumentMismatchError struct {
	Type     string
	Provided []string
	Expected []string
}

func (e *ArgumentMismatchError) Error() string {
	return fmt.Sprintf("population type %q: provided arguments [%s] do not match expected [%s]",
		e.Type, strings.Join(e.Provided, ", "), strings.Join(e.Expected, ", "))
}

func (e *ArgumentMismatchError) Unwrap() error { return ErrPopulationArgumentMismatch }

// InvalidDirectoryHierarchyError carries the two directories involved.
type InvalidDirectoryHierarchyError struct {
	CircuitDir string
	BaseDir    string
}

func (e *InvalidDirectoryHierarchyError) Error() string {
	return fmt.Sprintf("base dir %s is not inside circuit dir %s", e.BaseDir, e.CircuitDir)
}

func (e *InvalidDirectoryHierarchyError) Unwrap() error { return ErrInvalidDirectoryHierarchy }
