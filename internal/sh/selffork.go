package sh

import (
	"encoding/gob"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/madlambda/shx/ast"
)

// ReexecFlag is the hidden argv[1] the engine's own binary recognizes as
// "you are a forked child, not the top-level shell". The embedding
// CLI's main() must call Bootstrap before doing anything else so this
// contract is honored; that wiring lives outside this package.
const ReexecFlag = "-shx-exec-"

// forkPayload is everything a re-exec'd child needs to reconstruct the
// subtree it's responsible for. Every field must be gob-encodable, which is
// why ast.Node only ever has exported fields.
type forkPayload struct {
	Node *ast.Node
	Dir  string
}

// Bootstrap inspects args (normally os.Args) and, if they carry
// ReexecFlag, becomes a forked child: it decodes its subtree from fd 3,
// interprets it, and calls os.Exit with the resulting status. It never
// returns in that case. When args don't carry the flag, it returns false
// immediately so the caller can proceed as the top-level shell.
func Bootstrap(args []string) bool {
	if len(args) < 2 || args[1] != ReexecFlag {
		return false
	}

	pipeFile := os.NewFile(3, "shx-fork-payload")
	defer pipeFile.Close()

	var payload forkPayload
	if err := gob.NewDecoder(pipeFile).Decode(&payload); err != nil {
		fmt.Fprintf(os.Stderr, "shx: fork child: decoding payload: %s\n", err)
		os.Exit(126)
	}

	if payload.Dir != "" {
		if err := os.Chdir(payload.Dir); err != nil {
			fmt.Fprintf(os.Stderr, "shx: fork child: chdir: %s\n", err)
			os.Exit(126)
		}
	}

	inherited, _ := strconv.Atoi(os.Getenv("?"))

	eng, err := NewEngine(EngineOptions{Config: DefaultConfig(), InitialStatus: inherited})
	if err != nil {
		fmt.Fprintf(os.Stderr, "shx: fork child: %s\n", err)
		os.Exit(126)
	}

	status, err := eng.Interpret(payload.Node)
	if err != nil {
		if code, ok := IsExit(err); ok {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "shx: %s\n", err)
	}

	os.Exit(status)
	panic("unreachable")
}

// forkSelf re-executes selfExecutable with ReexecFlag, handing it node to
// interpret in a brand new OS process. streams are wired as the
// child's stdio directly, exactly as a real fork+exec would inherit them.
// status is the parent's last exit status, synthesized into the child's
// "?" the same way a literal fork would carry it forward. The returned Cmd
// has already been started; the caller owns Wait.
func forkSelf(selfExecutable string, node *ast.Node, locals map[string]string, dir string, status *Status, streams Streams) (*exec.Cmd, error) {
	if selfExecutable == "" {
		return nil, fmt.Errorf("sh: fork: no self-executable configured")
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("sh: fork: creating payload pipe: %w", err)
	}

	cmd := exec.Command(selfExecutable, ReexecFlag)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	cmd.ExtraFiles = []*os.File{r}
	// locals land in the child's real OS environment at process-creation
	// time, exactly as a literal fork+exec would apply them.
	cmd.Env = buildEnvWithStatus(locals, status)

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("sh: fork: starting self-exec: %w", err)
	}

	r.Close()

	payload := forkPayload{Node: node, Dir: dir}
	go func() {
		defer w.Close()
		gob.NewEncoder(w).Encode(&payload)
	}()

	return cmd, nil
}
