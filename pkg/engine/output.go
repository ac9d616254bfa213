package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
)

// Root is one cluster of converged start points.
type Root struct {
	Index int     `json:"index"`
	Re    float64 `json:"re"`
	Im    float64 `json:"im"`
	// Value is the first member of the cluster at full backend precision.
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Report summarizes a scan.
type Report struct {
	Config     Config `json:"config"`
	Formula    string `json:"formula"`
	Derivative string `json:"derivative"`
	Roots      []Root `json:"roots"`
	// Basins holds the root index per pixel, -1 when unconverged.
	Basins [][]int `json:"basins"`
	// Histogram counts pixels by iterations used.
	Histogram   []int          `json:"histogram"`
	Stops       map[string]int `json:"stops"`
	Unconverged int            `json:"unconverged"`
	Elapsed     time.Duration  `json:"elapsed_ns"`
}

const basinGlyphs = "0123456789abcdefghijklmnopqrstuvwxyz"

func glyph(i int) byte {
	switch {
	case i < 0:
		return '.'
	case i < len(basinGlyphs):
		return basinGlyphs[i]
	default:
		return '#'
	}
}

// WriteBasinMap draws one character per pixel: the root index, '.' when
// unconverged, '#' past the last glyph.
func WriteBasinMap(w io.Writer, basins [][]int) {
	var sb strings.Builder
	for _, row := range basins {
		sb.Reset()
		for _, i := range row {
			sb.WriteByte(glyph(i))
		}
		fmt.Fprintln(w, sb.String())
	}
}

// WriteTextReport writes the report in human-readable format.
func WriteTextReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "========== NEWTON BASINS ==========")
	fmt.Fprintf(w, "Formula:    %s\n", r.Formula)
	fmt.Fprintf(w, "Derivative: %s\n", r.Derivative)
	fmt.Fprintf(w, "Backend:    %s\n", r.Config.Backend)
	fmt.Fprintf(w, "View:       center (%s, %s), span %s, %dx%d\n",
		r.Config.CenterRe, r.Config.CenterIm, r.Config.Span, r.Config.Width, r.Config.Height)
	fmt.Fprintf(w, "Elapsed:    %s\n", r.Elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Roots ---")
	for _, root := range r.Roots {
		fmt.Fprintf(w, "  %c: %-40s %6d pixels\n", glyph(root.Index), root.Value, root.Count)
	}
	if r.Unconverged > 0 {
		fmt.Fprintf(w, "  .: unconverged %34d pixels\n", r.Unconverged)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Stops ---")
	stops := make([]string, 0, len(r.Stops))
	for k := range r.Stops {
		stops = append(stops, k)
	}
	sort.Strings(stops)
	for _, k := range stops {
		fmt.Fprintf(w, "  %-16s %d\n", k, r.Stops[k])
	}
	fmt.Fprintf(w, "  mean iterations  %.2f\n", meanIterations(r.Histogram))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "--- Basins ---")
	WriteBasinMap(w, r.Basins)
	fmt.Fprintln(w, "===================================")
}

func meanIterations(hist []int) float64 {
	var n, sum int
	for k, c := range hist {
		n += c
		sum += k * c
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// WriteJSONReport writes the report as JSON.
func WriteJSONReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
