package sh

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"github.com/madlambda/shx/ast"
)

// RunSimple executes a KindSimple node as a real child process (C4),
// resolving argv[0] against PATH the same way execvp does. A
// child-side failure (command not found, exec permission denied) is never
// an engine-level error: it is folded into the returned status, exactly
// like a non-zero exit, with a diagnostic written to stderr.
func RunSimple(n *ast.Node, streams Streams, status *Status) (int, error) {
	cmd := exec.Command(n.Argv[0], n.Argv[1:]...)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	cmd.Env = buildEnvWithStatus(n.Locals, status)

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return FromWaitError(exitErr, 1), nil
	}

	fmt.Fprintf(streams.Stderr, "%s: %s\n", n.Argv[0], err)
	return errnoOf(err), nil
}

// buildEnvWithStatus is buildEnv plus the "?" binding sanctioned as the
// alternative to literally mutating an environment variable named "?".
func buildEnvWithStatus(locals map[string]string, status *Status) []string {
	vars := make(map[string]string, len(locals)+1)
	for k, v := range locals {
		vars[k] = v
	}
	vars["?"] = status.Env()
	return buildEnv(vars)
}

// errnoOf extracts the errno an exec-path failure should be reported
// as. exec.LookPath failures (argv[0] not on PATH) are reported as ENOENT,
// matching what execvp itself would set; anything else that carries a real
// syscall.Errno reports that, clamped into a byte.
func errnoOf(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno) & 0xff
	}

	var lookErr *exec.Error
	if errors.As(err, &lookErr) {
		return int(syscall.ENOENT)
	}

	return 1
}
