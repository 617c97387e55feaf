package sh

import (
	"os"
	"testing"

	"github.com/madlambda/shx/ast"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SelfExecutable = os.Args[0]
	cfg.EnableReaper = false

	eng, err := NewEngine(EngineOptions{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(eng.Close)
	return eng
}

func TestInterpretSimpleTrue(t *testing.T) {
	eng := newTestEngine(t)
	status, err := eng.Interpret(ast.NewSimple([]string{"true"}, nil))
	require.NoError(t, err)
	require.Equal(t, 0, status)
	require.Equal(t, 0, eng.Status().Code())
}

func TestInterpretSimpleFalse(t *testing.T) {
	eng := newTestEngine(t)
	status, err := eng.Interpret(ast.NewSimple([]string{"false"}, nil))
	require.NoError(t, err)
	require.Equal(t, 1, status)
}

func TestInterpretUnknownCommand(t *testing.T) {
	eng := newTestEngine(t)
	status, err := eng.Interpret(ast.NewSimple([]string{"shx-definitely-not-a-real-command"}, nil))
	require.NoError(t, err, "command-not-found is a status, not an engine error")
	require.Equal(t, 2, status, "ENOENT")
}

func TestInterpretSepAndShortCircuits(t *testing.T) {
	eng := newTestEngine(t)
	tree := ast.NewSepAnd(
		ast.NewSimple([]string{"false"}, nil),
		ast.NewSimple([]string{"shx-should-never-run"}, nil),
	)

	status, err := eng.Interpret(tree)
	require.NoError(t, err)
	require.Equal(t, 1, status)
}

func TestInterpretSepOrRunsRightOnFailure(t *testing.T) {
	eng := newTestEngine(t)
	tree := ast.NewSepOr(
		ast.NewSimple([]string{"false"}, nil),
		ast.NewSimple([]string{"true"}, nil),
	)

	status, err := eng.Interpret(tree)
	require.NoError(t, err)
	require.Equal(t, 0, status)
}

func TestInterpretSepEndRunsBoth(t *testing.T) {
	eng := newTestEngine(t)
	tree := ast.NewSepEnd(
		ast.NewSimple([]string{"false"}, nil),
		ast.NewSimple([]string{"true"}, nil),
	)

	status, err := eng.Interpret(tree)
	require.NoError(t, err)
	require.Equal(t, 0, status)
}

func TestInterpretInvalidTreeRejected(t *testing.T) {
	eng := newTestEngine(t)
	_, err := eng.Interpret(ast.NewSimple(nil, nil))
	require.Error(t, err)
}
