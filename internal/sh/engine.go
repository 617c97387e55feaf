package sh

import (
	"fmt"
	"os"

	"github.com/madlambda/shx/ast"
	shxerrors "github.com/madlambda/shx/errors"
)

// Engine is the top-level interpreter tying together the directory stack,
// builtin dispatcher, redirection applier, status tracker, and background
// job reaper. One Engine corresponds to one shell
// process (or one re-exec'd fork of it).
type Engine struct {
	cfg        *Config
	log        LogFn
	builtins   *Builtins
	redirector *Redirector
	status     *Status
	reaper     *Reaper
	locals     map[string]string
}

// EngineOptions configures NewEngine. Config is required; the rest have
// sane zero values.
type EngineOptions struct {
	Config *Config
	Locals map[string]string

	// InitialStatus seeds the "?" a forked child sees before it runs
	// anything of its own; Bootstrap sets this from the "?" it inherited
	// through its environment so $? inside a subshell or pipeline stage
	// starts at the parent's last status instead of 0.
	InitialStatus int
}

// NewEngine builds a ready-to-use Engine. If opts.Config.EnableReaper is
// set, Interpret reaps finished background jobs at the top of every call.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("sh: engine: nil config")
	}

	builtins, err := NewBuiltins()
	if err != nil {
		return nil, err
	}

	status := NewStatus()
	status.Set(opts.InitialStatus)

	e := &Engine{
		cfg:        opts.Config,
		log:        NewLog("engine", opts.Config.Debug),
		builtins:   builtins,
		redirector: NewRedirector(),
		status:     status,
		locals:     opts.Locals,
	}

	if opts.Config.EnableReaper {
		e.reaper = NewReaper(opts.Config.ReaperPollLimit)
		e.reaper.log = NewLog("reaper", opts.Config.Debug)
	}

	return e, nil
}

// Close releases any resources the Engine holds. It currently has none of
// its own, but embedders that hold onto an Engine across many Interpret
// calls are expected to call it on teardown regardless, should that change.
func (e *Engine) Close() {}

// Status returns the tracker holding the last command's exit status.
func (e *Engine) Status() *Status { return e.status }

// Interpret validates and runs a node top to bottom, reaping any
// finished background jobs first so a burst of them doesn't accumulate as
// zombies across many Interpret calls. It never recurses into itself for
// reaping; only the top-level call does.
func (e *Engine) Interpret(n *ast.Node) (int, error) {
	if err := n.Validate(); err != nil {
		return 1, err
	}

	if e.reaper != nil {
		e.reaper.ReapAvailable()
	}

	e.log("interpret %s", n.Kind)
	return e.exec(n)
}

// exec writes "?" after every node, not just at the top: nested
// nodes that read "?" through locals must observe their nearest preceding
// sibling's status, and the outermost write is simply the last one left
// standing once recursion unwinds.
func (e *Engine) exec(n *ast.Node) (int, error) {
	status, err := e.execKind(n)
	e.status.Set(status)
	return status, err
}

func (e *Engine) execKind(n *ast.Node) (int, error) {
	switch n.Kind {
	case ast.KindSimple:
		return e.execSimple(n)
	case ast.KindPipe:
		return e.execPipe(n)
	case ast.KindSepAnd, ast.KindSepOr, ast.KindSepEnd, ast.KindSepBg:
		return e.execControl(n)
	case ast.KindSubcmd:
		return e.execSubshell(n)
	default:
		return 1, shxerrors.NewUnknownNodeError("sh: unknown node kind %s", n.Kind)
	}
}

func (e *Engine) execSimple(n *ast.Node) (int, error) {
	// Built-ins run in this process and never consume redirections or
	// locals; only the fall-through exec path below does.
	if result := e.builtins.Dispatch(n.Argv, os.Stdout, os.Stderr); result.Handled() {
		return result.Status(), result.Err()
	}

	streams, err := e.redirector.Apply(n, Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
	if err != nil {
		return errnoOf(err), err
	}
	defer streams.Close()

	return RunSimple(n, *streams, e.status)
}

func (e *Engine) cwd() string {
	return e.builtins.Dirs.Cwd()
}
