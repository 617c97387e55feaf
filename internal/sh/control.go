package sh

import (
	"fmt"
	"os"

	"github.com/madlambda/shx/ast"
)

// execControl implements the four control-flow node kinds (C6): short
// circuit AND/OR, sequencing, and backgrounding.
func (e *Engine) execControl(n *ast.Node) (int, error) {
	switch n.Kind {
	case ast.KindSepAnd:
		status, err := e.exec(n.Left)
		if err != nil || status != 0 {
			return status, err
		}
		return e.exec(n.Right)

	case ast.KindSepOr:
		status, err := e.exec(n.Left)
		if err == nil && status == 0 {
			return status, nil
		}
		if _, isExit := IsExit(err); isExit {
			return status, err
		}
		return e.exec(n.Right)

	case ast.KindSepEnd:
		status, err := e.exec(n.Left)
		if err != nil {
			if _, isExit := IsExit(err); isExit {
				return status, err
			}
		}
		if n.Right == nil {
			return status, err
		}
		return e.exec(n.Right)

	case ast.KindSepBg:
		if err := e.background(n.Left); err != nil {
			return 1, err
		}
		if n.Right == nil {
			return 0, nil
		}
		return e.exec(n.Right)

	default:
		panic("sh: execControl called with non-control node")
	}
}

// background starts left as a forked child and returns immediately
// without waiting, matching a shell's job-control model. Its pid is handed
// to the reaper's registry so a later top-level Interpret call collects its
// exit status via waitpid(-1, WNOHANG) rather than a synchronous Wait,
// which would defeat the point of "&".
func (e *Engine) background(left *ast.Node) error {
	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	cmd, err := forkSelf(e.cfg.SelfExecutable, left, e.locals, e.cwd(), e.status, streams)
	if err != nil {
		return err
	}
	if e.reaper != nil {
		e.reaper.Track(cmd.Process.Pid)
	}
	fmt.Fprintf(os.Stderr, "Backgrounded: %d\n", cmd.Process.Pid)
	return nil
}
