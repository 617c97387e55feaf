package sh

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/madlambda/shx/ast"
	"github.com/stretchr/testify/require"
)

func TestForkPayloadGobRoundTrip(t *testing.T) {
	node := ast.NewPipe(
		ast.NewSimple([]string{"echo", "hi"}, map[string]string{"X": "1"}),
		ast.NewSimple([]string{"wc", "-l"}, nil),
	)

	payload := forkPayload{Node: node, Dir: "/tmp"}

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(&payload))

	var decoded forkPayload
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))

	require.Equal(t, payload.Dir, decoded.Dir)
	require.Equal(t, node.Left.Argv, decoded.Node.Left.Argv)
	require.Equal(t, node.Right.Argv, decoded.Node.Right.Argv)
	require.Equal(t, ast.KindPipe, decoded.Node.Kind)
}

func TestForkSelfRequiresSelfExecutable(t *testing.T) {
	_, err := forkSelf("", ast.NewSimple([]string{"true"}, nil), nil, "", NewStatus(), Streams{})
	require.Error(t, err)
}
