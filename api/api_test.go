package api

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunEndToEnd(t *testing.T) {
	var out bytes.Buffer
	src := `func main() { var i = 0 in { while (i < 3) { println(i); i = i + 1; }; 0; } }`
	result, err := Run(src, "main", nil, &out)
	require.NoError(t, err)
	require.EqualValues(t, 0, result)
	require.Equal(t, "0\n1\n2\n", out.String())
}

func TestCompileSurfacesSyntaxError(t *testing.T) {
	_, err := Compile("func f() if (1) 2")
	require.Error(t, err)
}

func TestBuildSkeletonAndFunc(t *testing.T) {
	src := "func add(a, b) a + b"
	skel, err := BuildSkeleton(src)
	require.NoError(t, err)
	require.Len(t, skel.Funcs, 1)

	mf, err := BuildFunc(src, 0)
	require.NoError(t, err)
	require.Len(t, mf.Funcs, 1)
	require.Equal(t, "add", mf.Funcs[0].Name)
}
