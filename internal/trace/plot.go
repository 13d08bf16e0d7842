package trace

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Plot renders one sample column as an ASCII chart.
func Plot(r *Result, series string, width, height int) string {
	data := r.Series(series)
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s (seed %d)", series, r.Seed)),
	)
}

// PlotEnsemble overlays the same column of several runs.
func PlotEnsemble(results []*Result, series string, width, height int) string {
	if len(results) == 0 {
		return ""
	}
	data := make([][]float64, 0, len(results))
	for _, r := range results {
		if s := r.Series(series); len(s) > 0 {
			data = append(data, s)
		}
	}
	if len(data) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Yellow, asciigraph.HotPink, asciigraph.Cyan, asciigraph.Green, asciigraph.White}
	palette := make([]asciigraph.AnsiColor, len(data))
	for i := range palette {
		palette[i] = colors[i%len(colors)]
	}
	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(palette...),
		asciigraph.Caption(fmt.Sprintf("%s, %d runs", series, len(data))),
	)
}

// Summary formats metrics and event counts in stable order.
func Summary(r *Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "seed %d, %d frames, %v\n", r.Seed, len(r.Samples), r.Duration)
	for _, k := range sortedKeys(r.Metrics) {
		fmt.Fprintf(&sb, "  %-16s %.4f\n", k, r.Metrics[k])
	}
	for _, k := range sortedKeys(r.Events) {
		fmt.Fprintf(&sb, "  %-16s %d\n", k, r.Events[k])
	}
	return sb.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
