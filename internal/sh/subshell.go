package sh

import (
	"os"

	"github.com/madlambda/shx/ast"
)

// execSubshell implements KindSubcmd (C7): left runs in a forked child
// with its own directory stack and environment, so a `cd` or
// variable assignment inside the subshell never leaks back to the parent.
// n.Locals, if set, seed the child's environment on top of the parent's.
func (e *Engine) execSubshell(n *ast.Node) (int, error) {
	streams, err := e.redirector.Apply(n, Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
	if err != nil {
		return errnoOf(err), err
	}
	defer streams.Close()

	locals := mergeLocals(e.locals, n.Locals)

	cmd, err := forkSelf(e.cfg.SelfExecutable, n.Left, locals, e.cwd(), e.status, *streams)
	if err != nil {
		return 1, err
	}

	waitErr := cmd.Wait()
	return FromWaitError(waitErr, 1), nil
}

func mergeLocals(base, overlay map[string]string) map[string]string {
	if len(overlay) == 0 {
		return base
	}
	merged := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}
