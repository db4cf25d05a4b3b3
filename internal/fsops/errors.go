package fsops

import (
	"fmt"

	"github.com/petasbytes/sandbox-agent/internal/safety"
)

// outside rewrites a containment rejection into the per-operation message the
// model sees. Other errors pass through unchanged.
func outside(verb, relPath string, err error) error {
	if safety.KindOf(err) != safety.KindContainment {
		return err
	}
	return safety.ToolError{
		Kind:    safety.KindContainment,
		Message: fmt.Sprintf("Cannot %s %q as it is outside the permitted working directory", verb, relPath),
	}
}
