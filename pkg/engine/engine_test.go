package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
	"go.uber.org/zap"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 24
	cfg.Height = 12
	cfg.Workers = 4
	return cfg
}

func requireCubeRoots(t *testing.T, r Report) {
	t.Helper()
	want := []complex128{
		complex(-0.5, -math.Sqrt(3)/2),
		complex(-0.5, math.Sqrt(3)/2),
		1,
	}
	require.Len(t, r.Roots, 3)
	total := 0
	for i, root := range r.Roots {
		require.Equal(t, i, root.Index)
		require.InDelta(t, 0, cmplx.Abs(complex(root.Re, root.Im)-want[i]), 1e-9, "root %d = %s", i, root.Value)
		require.Positive(t, root.Count)
		total += root.Count
	}
	require.Equal(t, r.Config.Width*r.Config.Height, total+r.Unconverged)
}

func TestEngine_CubeRoots(t *testing.T) {
	e, err := New(smallConfig(), zap.NewNop())
	require.NoError(t, err)

	r, err := e.Run(context.Background())
	require.NoError(t, err)
	requireCubeRoots(t, r)

	require.Len(t, r.Basins, 12)
	for _, row := range r.Basins {
		require.Len(t, row, 24)
	}
	// The point nearest 1 on the positive real axis lies in the basin of 1.
	require.Equal(t, 2, r.Basins[5][19])

	hist := 0
	for _, c := range r.Histogram {
		hist += c
	}
	require.Equal(t, 24*12, hist)
}

func TestEngine_Backends(t *testing.T) {
	for _, backend := range []string{BackendDecimal, BackendBig} {
		t.Run(backend, func(t *testing.T) {
			defer bigdec.SetPrecision(bigdec.Precision())
			cfg := smallConfig()
			cfg.Width, cfg.Height = 9, 5
			cfg.Backend = backend
			cfg.Precision = 40
			cfg.Tolerance = 1e-20
			e, err := New(cfg, zap.NewNop())
			require.NoError(t, err)
			r, err := e.Run(context.Background())
			require.NoError(t, err)
			requireCubeRoots(t, r)
		})
	}
}

func TestEngine_Cycle(t *testing.T) {
	// The start point 0 is caught in the 0 <-> 1 cycle and never converges.
	cfg := smallConfig()
	cfg.Preset = "cycle"
	cfg.Width, cfg.Height = 1, 1
	cfg.Span = "1"
	e, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	r, err := e.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, r.Unconverged)
	require.Equal(t, [][]int{{-1}}, r.Basins)
	require.Equal(t, 1, r.Stops["max-iterations"])
}

func TestEngine_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e, err := New(smallConfig(), zap.NewNop())
	require.NoError(t, err)
	_, err = e.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"unknown preset", func(c *Config) { c.Preset = "nonesuch" }, "unknown preset"},
		{"bad backend", func(c *Config) { c.Backend = "float32" }, "unknown backend"},
		{"bad span", func(c *Config) { c.Span = "-1" }, "span must be positive"},
		{"bad center", func(c *Config) { c.CenterRe = "1,5" }, "center_re"},
		{"empty grid", func(c *Config) { c.Width = 0 }, "grid must be at least 1x1"},
		{"no derivative", func(c *Config) { c.Formula = "2^z" }, "not constant"},
		{"unbound", func(c *Config) { c.Formula = "z^2+c" }, "unbound variables [c]"},
		{"syntax", func(c *Config) { c.Formula = "z^" }, "syntax error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := smallConfig()
			tt.edit(&cfg)
			_, err := New(cfg, nil)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
formula: z^4-1
center_re: "-0.25"
span: "2.5"
width: 10
height: 6
backend: big
precision: 50
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "z^4-1", cfg.Formula)
	require.Equal(t, "-0.25", cfg.CenterRe)
	require.Equal(t, "0", cfg.CenterIm)
	require.Equal(t, 10, cfg.Width)
	require.Equal(t, BackendBig, cfg.Backend)
	require.Equal(t, 50, cfg.Precision)
	require.Equal(t, DefaultConfig().MaxIterations, cfg.MaxIterations)
	require.NoError(t, cfg.Validate())

	require.NoError(t, os.WriteFile(path, []byte("widht: 10\n"), 0o644))
	_, err = LoadConfig(path)
	require.ErrorContains(t, err, "widht")
}

func TestWriteReports(t *testing.T) {
	cfg := smallConfig()
	cfg.Width, cfg.Height = 8, 4
	e, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	r, err := e.Run(context.Background())
	require.NoError(t, err)

	var text bytes.Buffer
	WriteTextReport(&text, r)
	out := text.String()
	require.Contains(t, out, "Formula:    ((z ^ 3) - 1)")
	require.Contains(t, out, "--- Basins ---")
	lines := strings.Split(out, "\n")
	var grid []string
	for i, l := range lines {
		if l == "--- Basins ---" {
			grid = lines[i+1 : i+1+cfg.Height]
		}
	}
	require.Len(t, grid, cfg.Height)
	for _, l := range grid {
		require.Len(t, l, cfg.Width)
		require.Equal(t, "", strings.Trim(l, "012."))
	}

	var js bytes.Buffer
	require.NoError(t, WriteJSONReport(&js, r))
	var decoded Report
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	require.Equal(t, r.Basins, decoded.Basins)
	require.Equal(t, r.Formula, decoded.Formula)
}
