package sh

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/madlambda/shx/ast"
)

func (e *Engine) execPipe(n *ast.Node) (int, error) {
	streams := Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	return RunPipeline(n, streams, e.cfg, e.locals, e.cwd(), e.status)
}

// RunPipeline executes a KindPipe node (C5). Both sides run as real,
// separate OS processes joined by an anonymous OS pipe, obtained by
// re-executing the engine's own binary for each side since Go
// cannot fork the running process mid-execution and continue arbitrary Go
// code in the child. The pipeline's status is the right side's.
func RunPipeline(n *ast.Node, streams Streams, cfg *Config, locals map[string]string, dir string, status *Status) (int, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return 1, fmt.Errorf("sh: pipeline: %w", err)
	}

	leftStreams := Streams{Stdin: streams.Stdin, Stdout: pw, Stderr: streams.Stderr}
	rightStreams := Streams{Stdin: pr, Stdout: streams.Stdout, Stderr: streams.Stderr}

	leftCmd, err := forkSelf(cfg.SelfExecutable, n.Left, locals, dir, status, leftStreams)
	if err != nil {
		pr.Close()
		pw.Close()
		return 1, err
	}

	rightCmd, err := forkSelf(cfg.SelfExecutable, n.Right, locals, dir, status, rightStreams)
	if err != nil {
		pw.Close()
		pr.Close()
		leftCmd.Wait()
		return 1, err
	}

	pw.Close()
	pr.Close()

	leftErr := leftCmd.Wait()
	rightErr := rightCmd.Wait()

	_ = FromWaitError(leftErr, 1)

	if _, ok := rightErr.(*exec.ExitError); !ok && rightErr != nil {
		return 1, fmt.Errorf("sh: pipeline: right side: %w", rightErr)
	}

	return FromWaitError(rightErr, 0), nil
}
