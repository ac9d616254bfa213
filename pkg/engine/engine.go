// Package engine scans a grid of start points with Newton's method and
// groups the points by the root they converge to.
package engine

import (
	"context"
	"math"
	"math/cmplx"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/wildfunctions/newton_formula/pkg/bigdec"
	"github.com/wildfunctions/newton_formula/pkg/cplx"
	"github.com/wildfunctions/newton_formula/pkg/formula"
	"github.com/wildfunctions/newton_formula/pkg/newton"
	"github.com/wildfunctions/newton_formula/pkg/preset"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine runs a basin scan.
type Engine struct {
	cfg     Config
	formula *formula.Formula
	log     *zap.Logger
}

// New resolves the formula and validates cfg. A nil logger discards logs.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Formula == "" && cfg.Preset != "" {
		p, err := preset.Get(cfg.Preset)
		if err != nil {
			return nil, err
		}
		cfg.Formula = p.Source
		if cfg.Span == "" {
			cfg.Span = p.Span
		}
	}
	if cfg.Span == "" {
		cfg.Span = defaultSpan
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	f, err := formula.Compile(cfg.Formula, cfg.Var)
	if err != nil {
		return nil, err
	}
	if f.DerivativeErr != nil {
		return nil, errors.Wrapf(f.DerivativeErr, "differentiating %q", cfg.Formula)
	}
	if extra := f.Unbound(); len(extra) > 0 {
		return nil, errors.Newf("formula %q has unbound variables %v", cfg.Formula, extra)
	}
	return &Engine{cfg: cfg, formula: f, log: log}, nil
}

// Config returns the resolved configuration.
func (e *Engine) Config() Config { return e.cfg }

// pixel is the outcome of one start point.
type pixel struct {
	root       complex128
	text       string
	iterations int
	stop       newton.Stop
}

// Run scans the grid. The big backend's precision is set before any
// worker starts and stays fixed for the whole scan.
func (e *Engine) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	if e.cfg.Backend == BackendBig {
		bigdec.SetPrecision(e.cfg.Precision)
	}

	points, err := e.startPoints()
	if err != nil {
		return Report{}, err
	}

	e.log.Info("scan started",
		zap.String("formula", e.formula.Tree.String()),
		zap.String("derivative", e.formula.Deriv.String()),
		zap.String("backend", e.cfg.Backend),
		zap.Int("width", e.cfg.Width),
		zap.Int("height", e.cfg.Height),
		zap.Int("workers", e.cfg.Workers),
	)

	var pixels [][]pixel
	switch e.cfg.Backend {
	case BackendDouble:
		pixels, err = scan[cplx.Double](ctx, e, points, nil)
	case BackendDecimal:
		pixels, err = scan[cplx.Decimal](ctx, e, narrow(points), nil)
	case BackendBig:
		prec := e.cfg.Precision
		pixels, err = scan[cplx.Big](ctx, e, points, func(z cplx.Big) cplx.Big { return z.Truncate(prec) })
	default:
		err = errors.AssertionFailedf("unknown backend %q", e.cfg.Backend)
	}
	if err != nil {
		return Report{}, err
	}

	report := e.summarize(pixels)
	report.Elapsed = time.Since(start)
	e.log.Info("scan finished",
		zap.Int("roots", len(report.Roots)),
		zap.Int("unconverged", report.Unconverged),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// startPoints returns the pixel centres, row 0 at the top of the view.
func (e *Engine) startPoints() ([][]cplx.Big, error) {
	cre, err := bigdec.Parse(e.cfg.CenterRe)
	if err != nil {
		return nil, err
	}
	cim, err := bigdec.Parse(e.cfg.CenterIm)
	if err != nil {
		return nil, err
	}
	span, err := bigdec.Parse(e.cfg.Span)
	if err != nil {
		return nil, err
	}
	w := bigdec.NewFromInt64(int64(e.cfg.Width))
	h := bigdec.NewFromInt64(int64(e.cfg.Height))
	step, err := span.Div(w)
	if err != nil {
		return nil, err
	}
	half := bigdec.MustParse("0.5")
	left := cre.Sub(step.Mul(w).Mul(half))
	top := cim.Add(step.Mul(h).Mul(half))

	points := make([][]cplx.Big, e.cfg.Height)
	for r := range points {
		y := top.Sub(step.Mul(bigdec.NewFromInt64(int64(r)).Add(half)))
		row := make([]cplx.Big, e.cfg.Width)
		for c := range row {
			x := left.Add(step.Mul(bigdec.NewFromInt64(int64(c)).Add(half)))
			row[c] = cplx.NewBig(x, y)
		}
		points[r] = row
	}
	return points, nil
}

// narrow cuts coordinates to the scale a fixed decimal can hold.
func narrow(points [][]cplx.Big) [][]cplx.Big {
	for _, row := range points {
		for c, p := range row {
			row[c] = cplx.NewBig(p.Re.TruncateScale(bigdec.MaxApdScale), p.Im.TruncateScale(bigdec.MaxApdScale))
		}
	}
	return points
}

// scan runs Newton's method from every point, one row per task.
func scan[T cplx.Value[T]](ctx context.Context, e *Engine, points [][]cplx.Big, round func(T) T) ([][]pixel, error) {
	b, err := formula.Bind[T](e.formula)
	if err != nil {
		return nil, err
	}
	opts := newton.Options[T]{
		MaxIterations: e.cfg.MaxIterations,
		Tolerance:     e.cfg.Tolerance,
		Escape:        e.cfg.Escape,
		Round:         round,
	}

	workers := e.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var zero T
	out := make([][]pixel, len(points))
	for r := range points {
		r := r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]pixel, len(points[r]))
			for c, p := range points[r] {
				z0, err := zero.FromBig(p)
				if err != nil {
					return errors.Wrapf(err, "start point (%d, %d)", r, c)
				}
				res := newton.Solve(b, z0, opts)
				if res.Err != nil {
					e.log.Debug("iteration failed",
						zap.Int("row", r), zap.Int("col", c), zap.Error(res.Err))
				}
				row[c] = pixel{
					root:       res.Root.Complex128(),
					text:       res.Root.String(),
					iterations: res.Iterations,
					stop:       res.Stop,
				}
			}
			out[r] = row
			if e.cfg.Verbose {
				e.log.Debug("row done", zap.Int("row", r))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// summarize clusters converged roots and builds the basin map.
func (e *Engine) summarize(pixels [][]pixel) Report {
	type cluster struct {
		at    complex128
		text  string
		count int
	}
	var clusters []cluster
	find := func(z complex128) int {
		for i, c := range clusters {
			if cmplx.Abs(c.at-z) < e.cfg.ClusterTolerance {
				return i
			}
		}
		return -1
	}

	report := Report{
		Config:     e.cfg,
		Formula:    e.formula.Tree.String(),
		Derivative: e.formula.Deriv.String(),
		Histogram:  make([]int, e.cfg.MaxIterations+1),
		Stops:      map[string]int{},
	}
	raw := make([][]int, len(pixels))
	for r, row := range pixels {
		raw[r] = make([]int, len(row))
		for c, p := range row {
			report.Stops[p.stop.String()]++
			report.Histogram[p.iterations]++
			if p.stop != newton.Converged {
				raw[r][c] = -1
				report.Unconverged++
				continue
			}
			i := find(p.root)
			if i < 0 {
				i = len(clusters)
				clusters = append(clusters, cluster{at: p.root, text: p.text})
			}
			clusters[i].count++
			raw[r][c] = i
		}
	}

	// Order roots by real then imaginary part so indices are stable.
	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca, cb := clusters[order[a]].at, clusters[order[b]].at
		if math.Abs(real(ca)-real(cb)) >= e.cfg.ClusterTolerance {
			return real(ca) < real(cb)
		}
		return imag(ca) < imag(cb)
	})
	remap := make([]int, len(clusters))
	for idx, i := range order {
		remap[i] = idx
		c := clusters[i]
		report.Roots = append(report.Roots, Root{
			Index: idx,
			Re:    real(c.at),
			Im:    imag(c.at),
			Value: c.text,
			Count: c.count,
		})
	}

	report.Basins = raw
	for _, row := range raw {
		for c, i := range row {
			if i >= 0 {
				row[c] = remap[i]
			}
		}
	}
	return report
}
