package sh

import (
	"fmt"
	"os"
)

// DirStack backs the pushd/popd/cd/pwd builtins. It holds the
// directories a popd should return to, most-recently-pushed last; the
// current directory itself is tracked separately and is never a member of
// the stack.
type DirStack struct {
	cwd   string
	stack []string
}

// NewDirStack seeds the stack with the process's current working directory
// and an empty pushd history.
func NewDirStack() (*DirStack, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("sh: dirstack: %w", err)
	}

	return &DirStack{cwd: cwd}, nil
}

// Cwd returns the current working directory.
func (d *DirStack) Cwd() string {
	return d.cwd
}

// Chdir changes into dir without touching the pushd history, as plain `cd`
// does.
func (d *DirStack) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}

	abs, err := os.Getwd()
	if err != nil {
		return err
	}

	d.cwd = abs
	return nil
}

// Push records the current directory as a return point, changes into dir,
// and reports the line pushd prints: the new cwd followed by the stack
// top-to-bottom.
func (d *DirStack) Push(dir string) (line string, err error) {
	prev := d.cwd

	if err := os.Chdir(dir); err != nil {
		return "", err
	}

	abs, err := os.Getwd()
	if err != nil {
		os.Chdir(prev)
		return "", err
	}

	d.cwd = abs
	d.stack = append(d.stack, prev)
	return d.renderLine(), nil
}

// errDirStackEmpty is returned by Pop when there is nothing to pop; it is
// a usage error, not a syscall failure, so callers must not run it through
// errno extraction.
var errDirStackEmpty = fmt.Errorf("sh: dirstack: stack empty")

// Pop changes into the most recently pushed directory and reports the line
// popd prints. The stack entry is consumed even if the chdir itself fails.
func (d *DirStack) Pop() (line string, err error) {
	if len(d.stack) == 0 {
		return "", errDirStackEmpty
	}

	top := d.stack[len(d.stack)-1]
	d.stack = d.stack[:len(d.stack)-1]

	if err := os.Chdir(top); err != nil {
		return "", err
	}

	d.cwd = top
	return d.renderLine(), nil
}

// renderLine is cwd followed by the stack top-to-bottom, space-separated.
func (d *DirStack) renderLine() string {
	line := d.cwd
	for i := len(d.stack) - 1; i >= 0; i-- {
		line += " " + d.stack[i]
	}
	return line
}

// List returns the pushd history, top (most recently pushed) first.
func (d *DirStack) List() []string {
	out := make([]string, len(d.stack))
	for i := range d.stack {
		out[i] = d.stack[len(d.stack)-1-i]
	}
	return out
}
