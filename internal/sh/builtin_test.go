package sh

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	shxerrors "github.com/madlambda/shx/errors"
	"github.com/stretchr/testify/require"
)

func newTestBuiltins(t *testing.T) *Builtins {
	t.Helper()
	start, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(start) })

	b, err := NewBuiltins()
	require.NoError(t, err)
	return b
}

func TestDispatchNotBuiltin(t *testing.T) {
	b := newTestBuiltins(t)
	result := b.Dispatch([]string{"ls", "-la"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.False(t, result.Handled())
	require.True(t, shxerrors.NotBuiltin(result.Err()))
}

func TestDispatchPwd(t *testing.T) {
	b := newTestBuiltins(t)
	var out bytes.Buffer

	result := b.Dispatch([]string{"pwd"}, &out, &bytes.Buffer{})
	require.True(t, result.Handled())
	require.Equal(t, 0, result.Status())
	require.Equal(t, b.Dirs.Cwd()+"\n", out.String())
}

func TestDispatchCdChangesDirStack(t *testing.T) {
	b := newTestBuiltins(t)
	tmp := t.TempDir()

	result := b.Dispatch([]string{"cd", tmp}, &bytes.Buffer{}, &bytes.Buffer{})
	require.True(t, result.Handled())
	require.Equal(t, 0, result.Status())

	resolvedTmp, err := filepath.EvalSymlinks(tmp)
	require.NoError(t, err)
	resolvedCwd, err := filepath.EvalSymlinks(b.Dirs.Cwd())
	require.NoError(t, err)
	require.Equal(t, resolvedTmp, resolvedCwd)
}

func TestDispatchCdTooManyArgs(t *testing.T) {
	b := newTestBuiltins(t)
	var errBuf bytes.Buffer

	result := b.Dispatch([]string{"cd", "a", "b"}, &bytes.Buffer{}, &errBuf)
	require.True(t, result.Handled())
	require.Equal(t, 1, result.Status())
	require.NotEmpty(t, errBuf.String())
}

func TestDispatchPushdPopd(t *testing.T) {
	b := newTestBuiltins(t)
	tmp := t.TempDir()

	result := b.Dispatch([]string{"pushd", tmp}, &bytes.Buffer{}, &bytes.Buffer{})
	require.True(t, result.Handled())
	require.Equal(t, 0, result.Status())

	result = b.Dispatch([]string{"popd"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.True(t, result.Handled())
	require.Equal(t, 0, result.Status())
}

func TestDispatchExitReturnsErrExit(t *testing.T) {
	b := newTestBuiltins(t)
	result := b.Dispatch([]string{"exit", "7"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.True(t, result.Handled())
	require.Equal(t, 7, result.Status())

	status, ok := IsExit(result.Err())
	require.True(t, ok)
	require.Equal(t, 7, status)
}

func TestDispatchExitBadArg(t *testing.T) {
	b := newTestBuiltins(t)
	var errBuf bytes.Buffer

	result := b.Dispatch([]string{"exit", "nope"}, &bytes.Buffer{}, &errBuf)
	require.True(t, result.Handled())
	require.Equal(t, 2, result.Status())
}

func TestParseExitStatusWraps(t *testing.T) {
	n, err := parseExitStatus("300")
	require.NoError(t, err)
	require.Equal(t, 300&0xff, n)
}
