package envconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrUnknownEnvironment  = errors.New("unknown environment")
	ErrInvalidLegacyFormat = errors.New("invalid legacy module override")
	ErrInvalidKind         = errors.New("invalid environment kind")
	ErrInvalidEnvironment  = errors.New("invalid environment")
)

// UnknownEnvironmentError reports a name missing from the registry.
type UnknownEnvironmentError struct {
	Name  string
	Known []string
}

func (e *UnknownEnvironmentError) Error() string {
	return fmt.Sprintf("unknown environment %q, known environments: %s", e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownEnvironmentError) Unwrap() error { return ErrUnknownEnvironment }

// LegacyFormatError reports a module override string that does not match
// name:module1,module2[,...][:modulepath].
type LegacyFormatError struct {
	Override string
	Reason   string
}

func (e *LegacyFormatError) Error() string {
	return fmt.Sprintf("invalid module override %q: %s (expected name:module1,module2[:modulepath])", e.Override, e.Reason)
}

func (e *LegacyFormatError) Unwrap() error { return ErrInvalidLegacyFormat }
