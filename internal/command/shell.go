package command

import (
	"fmt"
	"strings"
)

// DefaultLogPath is the placeholder the workflow engine substitutes with the
// log file of the running step.
const DefaultLogPath = "{log}"

// heredocMarker terminates the script fed to a container shell.
const heredocMarker = "CIRCUIT_BUILD_EOF"

// EscapeSingleQuotes makes s safe to embed between single quotes in a POSIX
// shell: every ' becomes '\''.
func EscapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

// Redirect prefixes cmd with "set -ex;" and sends its output to logPath.
// With toStderr the output is also copied to stderr, and pipefail keeps the
// exit status of cmd instead of the one of tee.
func Redirect(cmd, logPath string, toStderr bool) string {
	cmd = "set -ex; " + cmd
	if toStderr {
		return fmt.Sprintf("set -o pipefail; ( %s ) 2>&1 | tee -a %s 1>&2", cmd, logPath)
	}
	return fmt.Sprintf("( %s ) >%s 2>&1", cmd, logPath)
}

// andThen joins shell steps with &&, skipping empty ones.
func andThen(steps ...string) string {
	out := steps[:0:0]
	for _, s := range steps {
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " && ")
}

// words joins non-empty words with single spaces.
func words(ws ...string) string {
	out := ws[:0:0]
	for _, w := range ws {
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}
