package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommandEndToEnd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("func main() { 1 + 2 * 3; }"))
	root.SetArgs([]string{"run", "--entry", "main"})
	err := root.Execute()
	require.NoError(t, err)
	require.Equal(t, "7\n", out.String())
}

func TestBuildSkeletonCommandWritesWasmMagic(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("func add(a, b) a + b"))
	root.SetArgs([]string{"build-skeleton"})
	err := root.Execute()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x61, 0x73, 0x6d}, out.Bytes()[:4])
}
