//go:build !unix

package fsops

import "os/exec"

// setProcessGroup keeps the default cancellation, which kills the
// interpreter process only.
func setProcessGroup(cmd *exec.Cmd) {}
