package sh

import (
	"errors"
	"fmt"
	"io"
	"os"

	shxerrors "github.com/madlambda/shx/errors"
)

// BuiltinResult replaces the "-1 means not a builtin" sentinel from the
// original C dispatcher. A zero value means "argv[0] does not name a
// builtin"; the caller should fall through to the external-program path.
type BuiltinResult struct {
	handled bool
	status  int
	err     error
}

// Handled reports whether argv[0] named a recognized builtin.
func (r BuiltinResult) Handled() bool { return r.handled }

// Status is the exit status the builtin produced, meaningful only when
// Handled is true.
func (r BuiltinResult) Status() int { return r.status }

// Err is any error the builtin returned, distinct from a non-zero status.
func (r BuiltinResult) Err() error { return r.err }

func notBuiltin() BuiltinResult { return BuiltinResult{err: shxerrors.ErrNotBuiltin} }

func handled(status int, err error) BuiltinResult {
	return BuiltinResult{handled: true, status: status, err: err}
}

// Builtins holds the state builtins need across calls, namely the
// directory stack backing cd/pushd/popd/pwd.
type Builtins struct {
	Dirs *DirStack
}

// NewBuiltins wires a fresh Builtins off the process's current directory.
func NewBuiltins() (*Builtins, error) {
	dirs, err := NewDirStack()
	if err != nil {
		return nil, err
	}
	return &Builtins{Dirs: dirs}, nil
}

// Dispatch runs argv as a builtin if it names one. stdout and
// stderr are the streams the builtin writes to; the engine passes its own
// process streams, since builtins do not take a node's redirections.
func (b *Builtins) Dispatch(argv []string, stdout, stderr io.Writer) BuiltinResult {
	if len(argv) == 0 {
		return notBuiltin()
	}

	switch argv[0] {
	case "cd":
		return handled(b.cd(argv[1:], stderr))
	case "pushd":
		return handled(b.pushd(argv[1:], stdout, stderr))
	case "popd":
		return handled(b.popd(stdout, stderr))
	case "pwd":
		return handled(b.pwd(argv[1:], stdout, stderr))
	case "exit":
		return handled(b.exit(argv[1:], stderr))
	default:
		return notBuiltin()
	}
}

func (b *Builtins) cd(args []string, stderr io.Writer) (int, error) {
	if len(args) > 1 {
		err := shxerrors.NewUsageError("cd: too many arguments")
		fmt.Fprintln(stderr, err)
		return 1, err
	}

	target := ""
	if len(args) == 0 {
		home := os.Getenv("HOME")
		if home == "" {
			err := shxerrors.NewUsageError("cd: HOME not set")
			fmt.Fprintln(stderr, err)
			return 1, err
		}
		target = home
	} else {
		target = args[0]
	}

	if err := b.Dirs.Chdir(target); err != nil {
		fmt.Fprintf(stderr, "cd: %s\n", err)
		sysErr := shxerrors.NewSyscallError(errnoOf(err), "cd: %s", err)
		return shxerrors.Errno(sysErr), sysErr
	}

	return 0, nil
}

func (b *Builtins) pushd(args []string, stdout, stderr io.Writer) (int, error) {
	if len(args) != 1 {
		err := shxerrors.NewUsageError("pushd: expects one argument")
		fmt.Fprintln(stderr, err)
		return 1, err
	}

	line, err := b.Dirs.Push(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "pushd: %s\n", err)
		sysErr := shxerrors.NewSyscallError(errnoOf(err), "pushd: %s", err)
		return shxerrors.Errno(sysErr), sysErr
	}

	fmt.Fprintln(stdout, line)
	return 0, nil
}

func (b *Builtins) popd(stdout, stderr io.Writer) (int, error) {
	line, err := b.Dirs.Pop()
	if err != nil {
		fmt.Fprintf(stderr, "popd: %s\n", err)
		if errors.Is(err, errDirStackEmpty) {
			return 1, err
		}
		sysErr := shxerrors.NewSyscallError(errnoOf(err), "popd: %s", err)
		return shxerrors.Errno(sysErr), sysErr
	}

	fmt.Fprintln(stdout, line)
	return 0, nil
}

func (b *Builtins) pwd(args []string, stdout, stderr io.Writer) (int, error) {
	if len(args) != 0 {
		err := shxerrors.NewUsageError("pwd: expects no arguments")
		fmt.Fprintln(stderr, err)
		return 1, err
	}

	fmt.Fprintln(stdout, b.Dirs.Cwd())
	return 0, nil
}

func (b *Builtins) exit(args []string, stderr io.Writer) (int, error) {
	status := 0
	if len(args) > 1 {
		err := shxerrors.NewUsageError("exit: too many arguments")
		fmt.Fprintln(stderr, err)
		return 1, err
	}
	if len(args) == 1 {
		n, err := parseExitStatus(args[0])
		if err != nil {
			fmt.Fprintf(stderr, "exit: %s\n", err)
			return 2, shxerrors.NewUsageError("exit: %s", err)
		}
		status = n
	}

	return status, errExit{status: status}
}

// errExit is returned by the exit builtin to unwind the interpreter's call
// stack up to Interpret, which hands it back to its caller. Bootstrap turns
// it into a process exit in a forked child; a top-level caller detects it
// with IsExit. It is never a "failure" in the engine-error sense.
type errExit struct{ status int }

func (e errExit) Error() string { return fmt.Sprintf("exit %d", e.status) }

// IsExit reports whether err was produced by the exit builtin, and if so
// what status it carries.
func IsExit(err error) (int, bool) {
	e, ok := err.(errExit)
	return e.status, ok
}

func parseExitStatus(s string) (int, error) {
	n := 0
	neg := false
	i := 0
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		i = 1
	}
	if i == len(s) {
		return 0, fmt.Errorf("invalid status %q", s)
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid status %q", s)
		}
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		n = -n
	}
	return n & 0xff, nil
}
