// Package ast defines the command tree contract consumed by the execution
// engine. The tree itself is built by an external parser; this package only
// fixes the shape both sides agree on.
package ast

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

type (
	// Kind tags the variant a Node holds.
	Kind int

	// FromType is the input-redirection variant of a Simple or Subcmd node.
	FromType int

	// ToType is the output-redirection variant of a Simple or Subcmd node.
	ToType int
)

const (
	// KindSimple is a program invocation with its argument vector.
	KindSimple Kind = iota
	// KindPipe joins two children by an anonymous pipe.
	KindPipe
	// KindSepAnd is short-circuit AND ("&&").
	KindSepAnd
	// KindSepOr is short-circuit OR ("||").
	KindSepOr
	// KindSepEnd is a sequence (";").
	KindSepEnd
	// KindSepBg backgrounds its left child ("&").
	KindSepBg
	// KindSubcmd runs its left child in an isolated subshell.
	KindSubcmd
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindPipe:
		return "Pipe"
	case KindSepAnd:
		return "SepAnd"
	case KindSepOr:
		return "SepOr"
	case KindSepEnd:
		return "SepEnd"
	case KindSepBg:
		return "SepBg"
	case KindSubcmd:
		return "Subcmd"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	// FromNone means no input redirection.
	FromNone FromType = iota
	// FromRedIn is "<file".
	FromRedIn
	// FromRedInHere is "<<body".
	FromRedInHere
)

const (
	// ToNone means no output redirection.
	ToNone ToType = iota
	// ToRedOut is ">file" (create+truncate).
	ToRedOut
	// ToRedOutApp is ">>file" (create+append).
	ToRedOutApp
	// ToRedOutErr is "&>file" (stdout and stderr both).
	ToRedOutErr
)

// Node is the tagged variant described in the node contract. Only the
// fields relevant to Kind are meaningful; the allocator producing the tree
// is responsible for zeroing the rest. Validate checks part of that
// (redirections outside Simple/Subcmd, a right child on Subcmd); other
// stray fields, such as Argv on a non-Simple node, are not checked.
type Node struct {
	Kind Kind

	// Argv is populated only on KindSimple; Argv[0] is the program name.
	Argv []string

	// Locals is populated on KindSimple and KindSubcmd. Nil and empty are
	// equivalent; iteration order over it is never observable.
	Locals map[string]string

	FromType FromType
	FromFile string

	ToType ToType
	ToFile string

	Left  *Node
	Right *Node
}

// NewSimple builds a program invocation. locals may be nil.
func NewSimple(argv []string, locals map[string]string) *Node {
	return &Node{Kind: KindSimple, Argv: argv, Locals: locals}
}

// NewPipe joins left and right with an anonymous pipe.
func NewPipe(left, right *Node) *Node {
	return &Node{Kind: KindPipe, Left: left, Right: right}
}

// NewSepAnd builds a short-circuit AND node.
func NewSepAnd(left, right *Node) *Node {
	return &Node{Kind: KindSepAnd, Left: left, Right: right}
}

// NewSepOr builds a short-circuit OR node.
func NewSepOr(left, right *Node) *Node {
	return &Node{Kind: KindSepOr, Left: left, Right: right}
}

// NewSepEnd builds a sequence node. right may be nil.
func NewSepEnd(left, right *Node) *Node {
	return &Node{Kind: KindSepEnd, Left: left, Right: right}
}

// NewSepBg backgrounds left. right, if non-nil, runs synchronously after
// left is started.
func NewSepBg(left, right *Node) *Node {
	return &Node{Kind: KindSepBg, Left: left, Right: right}
}

// NewSubcmd runs left in an isolated subshell. locals may be nil.
func NewSubcmd(left *Node, locals map[string]string) *Node {
	return &Node{Kind: KindSubcmd, Left: left, Locals: locals}
}

// RedirectIn sets a "<file" input redirection. Valid on KindSimple and
// KindSubcmd only; Validate enforces that.
func (n *Node) RedirectIn(path string) *Node {
	n.FromType = FromRedIn
	n.FromFile = path
	return n
}

// RedirectHere sets a "<<body" here-document input redirection.
func (n *Node) RedirectHere(body string) *Node {
	n.FromType = FromRedInHere
	n.FromFile = body
	return n
}

// RedirectOut sets a ">file" output redirection (create+truncate).
func (n *Node) RedirectOut(path string) *Node {
	n.ToType = ToRedOut
	n.ToFile = path
	return n
}

// RedirectOutApp sets a ">>file" output redirection (create+append).
func (n *Node) RedirectOutApp(path string) *Node {
	n.ToType = ToRedOutApp
	n.ToFile = path
	return n
}

// RedirectOutErr sets an "&>file" redirection covering both stdout and
// stderr.
func (n *Node) RedirectOutErr(path string) *Node {
	n.ToType = ToRedOutErr
	n.ToFile = path
	return n
}

// shape is the flattened view validator/v10 actually checks; Node's
// recursive, kind-dependent invariants don't map onto struct tags directly,
// so Validate builds one of these per node and hands it to validator for
// the leaf-level checks, then does the tagged-union shape checks by hand.
type shape struct {
	Argv []string `validate:"omitempty,dive,required"`
}

var validate = validator.New()

// Validate walks the tree checking the invariants from the node contract:
// argc>=1 on Simple, non-nil children where the kind requires them, and
// that redirections only appear on Simple/Subcmd. It is meant to be called
// once, on the root, before interpretation begins.
func (n *Node) Validate() error {
	if n == nil {
		return fmt.Errorf("ast: nil node")
	}

	if err := validate.Struct(shape{Argv: n.Argv}); err != nil {
		return fmt.Errorf("ast: %s: %w", n.Kind, err)
	}

	switch n.Kind {
	case KindSimple:
		if len(n.Argv) < 1 {
			return fmt.Errorf("ast: Simple node requires argc>=1")
		}
	case KindPipe, KindSepAnd, KindSepOr:
		if n.Left == nil || n.Right == nil {
			return fmt.Errorf("ast: %s requires non-null left and right", n.Kind)
		}
		if n.FromType != FromNone || n.ToType != ToNone {
			return fmt.Errorf("ast: %s may not carry redirections", n.Kind)
		}
	case KindSepEnd:
		if n.Left == nil {
			return fmt.Errorf("ast: SepEnd requires a non-null left")
		}
	case KindSepBg:
		if n.Left == nil {
			return fmt.Errorf("ast: SepBg requires a non-null left")
		}
	case KindSubcmd:
		if n.Left == nil {
			return fmt.Errorf("ast: Subcmd requires a non-null left")
		}
		if n.Right != nil {
			return fmt.Errorf("ast: Subcmd must not have a right child")
		}
	default:
		return fmt.Errorf("ast: unknown node kind %d", int(n.Kind))
	}

	if n.Kind != KindSimple && n.Kind != KindSubcmd {
		if n.FromType != FromNone || n.ToType != ToNone {
			return fmt.Errorf("ast: redirections only allowed on Simple and Subcmd nodes, not %s", n.Kind)
		}
	}

	for _, child := range []*Node{n.Left, n.Right} {
		if child != nil {
			if err := child.Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}
