// Package format holds the post-generation text passes: a safety pass that
// comments out generic-instantiation artifacts the walker cannot always
// resolve, and best-effort invocations of external formatter and
// import-sorter commands. The external passes are cosmetic and never fail
// generation.
package format

import (
	"os/exec"
	"regexp"

	"github.com/tristendillon/capnp-stubgen/core/logger"
)

var (
	builderArtifact = regexp.MustCompile(`(?m)^(.*\])Builder$`)
	readerArtifact  = regexp.MustCompile(`(?m)^(.*\])Reader$`)
)

// PatchGenerics comments out lines that end in an unresolvable generic
// instantiation artifact (a closing bracket followed by the Builder or
// Reader suffix), which the brand-resolution algorithm cannot always render
// as valid syntax. Returns the patched text and the number of lines touched.
func PatchGenerics(raw string) (string, int) {
	patched := 0

	out := builderArtifact.ReplaceAllStringFunc(raw, func(line string) string {
		patched++
		return "# " + line
	})
	out = readerArtifact.ReplaceAllStringFunc(out, func(line string) string {
		patched++
		return "# " + line
	})

	if patched > 0 {
		logger.Warn("Commented %d lines due to generics not being handled properly. These will not have type hints.", patched)
	}

	return out, patched
}

// Apply runs an external command on a written output file, best effort. The
// command gets the file path appended as its final argument. Failures are
// logged and swallowed: formatting is not part of the correctness contract.
func Apply(command []string, path string) {
	if len(command) == 0 {
		return
	}

	args := append(append([]string(nil), command[1:]...), path)
	cmd := exec.Command(command[0], args...)

	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Debug("Formatter %q failed on %s: %v (%s)", command[0], path, err, out)
	}
}
