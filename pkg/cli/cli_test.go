package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokens(t *testing.T) {
	out, err := run(t, "tokens", "2z")
	require.NoError(t, err)
	require.Equal(t, "number 2\noperator *\nvariable z\n", out)

	_, err = run(t, "tokens", "2§")
	require.ErrorContains(t, err, "unexpected character")
}

func TestParse(t *testing.T) {
	out, err := run(t, "parse", "z^3-1")
	require.NoError(t, err)
	require.Equal(t, "((z ^ 3) - 1)\nnodes: 5, depth: 3, variables: z\n", out)

	out, err = run(t, "parse", "--latex", "1/z")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "\\frac{1}{z}\n"), out)
}

func TestDiff(t *testing.T) {
	out, err := run(t, "diff", "z*z")
	require.NoError(t, err)
	require.Equal(t, "((1 * z) + (z * 1))\n", out)

	out, err = run(t, "diff", "--var", "w", "w^2")
	require.NoError(t, err)
	require.Equal(t, "((2 * (w ^ 1)) * 1)\n", out)

	_, err = run(t, "diff", "2^z")
	require.ErrorContains(t, err, "not constant")
}

func TestEval(t *testing.T) {
	defer bigdec.SetPrecision(bigdec.Precision())

	out, err := run(t, "eval", "z^2-1", "--set", "z=1+2i")
	require.NoError(t, err)
	require.Equal(t, "-4+4i\n", out)

	out, err = run(t, "eval", "1/z", "--derivative", "z", "--set", "z=2", "--backend", "big")
	require.NoError(t, err)
	require.Equal(t, "-0.25+0i\n", out)

	out, err = run(t, "eval", "z/4", "--set", "Z=1", "--backend", "decimal")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "0.25"), out)

	_, err = run(t, "eval", "w", "--set", "z=1")
	require.ErrorContains(t, err, `variable "w" is not bound`)

	_, err = run(t, "eval", "z", "--set", "z")
	require.ErrorContains(t, err, "want name=value")

	_, err = run(t, "eval", "z", "--set", "z=1", "--backend", "float")
	require.ErrorContains(t, err, "unknown backend")
}

func TestPresets(t *testing.T) {
	out, err := run(t, "presets")
	require.NoError(t, err)
	require.Contains(t, out, "cubic")
	require.Contains(t, out, "z^3-1")
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 6)
}

func TestNewton(t *testing.T) {
	out, err := run(t, "newton", "--width", "12", "--height", "6", "--workers", "2")
	require.NoError(t, err)
	require.Contains(t, out, "Formula:    ((z ^ 3) - 1)")
	require.Contains(t, out, "--- Basins ---")
}

func TestNewtonConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
formula: z^4-1
width: 40
height: 2
format: json
`), 0o644))

	// --width overrides the file, the file overrides the defaults.
	out, err := run(t, "newton", "--config", path, "--width", "6")
	require.NoError(t, err)
	require.Contains(t, out, `"formula": "z^4-1"`)
	require.Contains(t, out, `"width": 6`)
	require.Contains(t, out, `"height": 2`)
}
