package sh

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TestBuiltinDiagnostics locks down the exact stderr text each builtin's
// usage errors produce, since these strings are user-visible diagnostics
// and not just internal error plumbing.
func TestBuiltinDiagnostics(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))

	b := newTestBuiltins(t)

	var out bytes.Buffer

	writeDiag := func(argv []string) {
		var errBuf bytes.Buffer
		b.Dispatch(argv, &bytes.Buffer{}, &errBuf)
		out.Write(errBuf.Bytes())
	}

	writeDiag([]string{"cd", "a", "b"})
	writeDiag([]string{"pushd"})
	writeDiag([]string{"pushd", "a", "b"})
	writeDiag([]string{"popd"})
	writeDiag([]string{"pwd", "extra"})
	writeDiag([]string{"exit", "a", "b"})
	writeDiag([]string{"exit", "nope"})

	g.Assert(t, "builtin-diagnostics", out.Bytes())
}
