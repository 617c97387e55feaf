package sh

import (
	"fmt"
	"io"
	"os"

	"github.com/madlambda/shx/ast"
	"github.com/spf13/afero"
)

// Streams is the resolved stdin/stdout/stderr trio a Simple or Subcmd node
// runs with, after the redirection applier (C3) has processed its
// FromType/ToType. Close releases anything the applier opened; it is always
// safe to call, even when nothing needed opening.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	closers []io.Closer
	cleanup []func()
}

// Close releases every file the applier opened for this node, then runs any
// cleanup the applier registered. A here-document temp file has already
// been unlinked by hereDoc, so closing its descriptor frees it.
func (s *Streams) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	for _, fn := range s.cleanup {
		fn()
	}
	return first
}

// Redirector applies a node's redirection onto an inherited base stream
// trio. It is backed by afero.Fs so tests can exercise it against
// an in-memory filesystem instead of touching disk.
type Redirector struct {
	Fs afero.Fs
}

// NewRedirector builds a Redirector against the real filesystem.
func NewRedirector() *Redirector {
	return &Redirector{Fs: afero.NewOsFs()}
}

// Apply resolves n's FromType/ToType against base, returning the concrete
// streams a Simple or Subcmd execution should use.
func (r *Redirector) Apply(n *ast.Node, base Streams) (*Streams, error) {
	out := &Streams{Stdin: base.Stdin, Stdout: base.Stdout, Stderr: base.Stderr}

	switch n.FromType {
	case ast.FromNone:
	case ast.FromRedIn:
		f, err := r.Fs.Open(n.FromFile)
		if err != nil {
			return nil, fmt.Errorf("sh: redirect: opening %s for input: %w", n.FromFile, err)
		}
		out.Stdin = f
		out.closers = append(out.closers, f)
	case ast.FromRedInHere:
		f, cleanup, err := r.hereDoc(n.FromFile)
		if err != nil {
			return nil, err
		}
		out.Stdin = f
		out.closers = append(out.closers, f)
		out.cleanup = append(out.cleanup, cleanup)
	default:
		return nil, fmt.Errorf("sh: redirect: unknown FromType %d", n.FromType)
	}

	switch n.ToType {
	case ast.ToNone:
	case ast.ToRedOut:
		f, err := r.Fs.OpenFile(n.ToFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("sh: redirect: opening %s for output: %w", n.ToFile, err)
		}
		out.Stdout = f
		out.closers = append(out.closers, f)
	case ast.ToRedOutApp:
		f, err := r.Fs.OpenFile(n.ToFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("sh: redirect: opening %s for append: %w", n.ToFile, err)
		}
		out.Stdout = f
		out.closers = append(out.closers, f)
	case ast.ToRedOutErr:
		f, err := r.Fs.OpenFile(n.ToFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("sh: redirect: opening %s for output: %w", n.ToFile, err)
		}
		out.Stdout = f
		out.Stderr = f
		out.closers = append(out.closers, f)
	default:
		out.Close()
		return nil, fmt.Errorf("sh: redirect: unknown ToType %d", n.ToType)
	}

	return out, nil
}

// hereDoc materializes a here-document body into a temp file, matching the
// design note preferring a temp file to a pipe so an oversized body can't
// deadlock a child that doesn't read its stdin promptly. The name is
// unlinked immediately once the body is written and the descriptor rewound;
// the already-open descriptor keeps the data available to whoever reads
// stdin until they close it, and no path is left behind for anything else
// to observe or race against.
func (r *Redirector) hereDoc(body string) (afero.File, func(), error) {
	f, err := afero.TempFile(r.Fs, "", "shx-heredoc-")
	if err != nil {
		return nil, nil, fmt.Errorf("sh: heredoc: %w", err)
	}

	if _, err := f.WriteString(body); err != nil {
		f.Close()
		r.Fs.Remove(f.Name())
		return nil, nil, fmt.Errorf("sh: heredoc: writing body: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		r.Fs.Remove(f.Name())
		return nil, nil, fmt.Errorf("sh: heredoc: rewinding: %w", err)
	}

	name := f.Name()
	if err := r.Fs.Remove(name); err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("sh: heredoc: unlinking: %w", err)
	}

	return f, func() {}, nil
}
