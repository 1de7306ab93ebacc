package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Yates-Labs/crumbs/internal/chart"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	pngWidth  = 1024
	pngHeight = 512
)

// ErrEmptyFigure is reported for figures without data; no file is written
var ErrEmptyFigure = errors.New("figure has no data")

// ArtifactError records a figure that could not be exported
type ArtifactError struct {
	Figure string
	Err    error
}

func (e ArtifactError) Error() string {
	return fmt.Sprintf("%s: %v", e.Figure, e.Err)
}

func (e ArtifactError) Unwrap() error {
	return e.Err
}

// ExportPNG writes one PNG per figure into dir. A failing figure does not
// stop the others; it is returned as an ArtifactError next to the written
// paths. The error result is reserved for failures that stop the export.
func (r *Report) ExportPNG(dir string) ([]string, []ArtifactError, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var (
		paths  []string
		failed []ArtifactError
	)
	for _, f := range r.Figures {
		if f.Empty() {
			failed = append(failed, ArtifactError{Figure: f.Title, Err: ErrEmptyFigure})
			continue
		}
		path := filepath.Join(dir, f.ID+".png")
		if err := writeFile(path, func(w io.Writer) error { return RenderPNG(f, w) }); err != nil {
			os.Remove(path)
			failed = append(failed, ArtifactError{Figure: f.Title, Err: err})
			continue
		}
		paths = append(paths, path)
	}
	return paths, failed, nil
}

// RenderPNG draws a single figure. Line figures with fewer than two points
// are drawn as bars.
func RenderPNG(f chart.Figure, w io.Writer) error {
	switch {
	case f.Kind == chart.KindPie:
		return renderPie(f, w)
	case f.Kind == chart.KindLine && len(f.Labels) >= 2:
		return renderLine(f, w)
	default:
		return renderBars(f, w)
	}
}

func renderBars(f chart.Figure, w io.Writer) error {
	var bars []gochart.Value
	for _, s := range f.Series {
		for i, v := range s.Values {
			if i >= len(f.Labels) {
				break
			}
			label := f.Labels[i]
			if len(f.Series) > 1 {
				label = s.Name
				if len(f.Labels) > 1 {
					label = s.Name + " " + f.Labels[i]
				}
			}
			bars = append(bars, gochart.Value{
				Label: label,
				Value: v,
				Style: fill(s.Color),
			})
		}
	}

	width := barWidth(len(bars))
	graph := gochart.BarChart{
		Title:    title(f),
		Width:    pngWidth,
		Height:   pngHeight,
		BarWidth: width,
		// go-chart falls back to a 100px gap when this is zero
		BarSpacing: width / 2,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: upperBound(f)},
		},
		Bars: bars,
	}
	return graph.Render(gochart.PNG, w)
}

func renderLine(f chart.Figure, w io.Writer) error {
	xs := make([]float64, len(f.Labels))
	ticks := make([]gochart.Tick, len(f.Labels))
	for i, l := range f.Labels {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: l}
	}

	series := make([]gochart.Series, 0, len(f.Series))
	for _, s := range f.Series {
		style := gochart.Style{StrokeWidth: 2}
		if s.Color != "" {
			style.StrokeColor = color(s.Color)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style:   style,
		})
	}

	graph := gochart.Chart{
		Title:  title(f),
		Width:  pngWidth,
		Height: pngHeight,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40},
		},
		XAxis: gochart.XAxis{
			Name:  f.XLabel,
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  f.YLabel,
			Range: &gochart.ContinuousRange{Min: 0, Max: upperBound(f)},
		},
		Series: series,
	}
	return graph.Render(gochart.PNG, w)
}

func renderPie(f chart.Figure, w io.Writer) error {
	var values []gochart.Value
	for _, s := range f.Series {
		for i, v := range s.Values {
			if i >= len(f.Labels) || v <= 0 {
				continue
			}
			value := gochart.Value{Label: f.Labels[i], Value: v}
			if i < len(s.PointColors) {
				value.Style = fill(s.PointColors[i])
			}
			values = append(values, value)
		}
	}

	graph := gochart.PieChart{
		Title:  title(f),
		Width:  pngHeight,
		Height: pngHeight,
		Values: values,
	}
	return graph.Render(gochart.PNG, w)
}

func title(f chart.Figure) string {
	if f.Annotation != "" {
		return f.Title + " (" + f.Annotation + ")"
	}
	return f.Title
}

// upperBound leaves headroom above the largest value
func upperBound(f chart.Figure) float64 {
	top := 0.0
	for _, s := range f.Series {
		for _, v := range s.Values {
			top = max(top, v)
		}
	}
	if top <= 0 {
		return 1
	}
	return top * 1.1
}

// barWidth fits n bars plus half-width gaps into the plot area
func barWidth(n int) int {
	if n == 0 {
		return 40
	}
	return max(8, min(60, 2*(pngWidth-200)/(3*n)))
}

func fill(hex string) gochart.Style {
	if hex == "" {
		return gochart.Style{}
	}
	c := color(hex)
	return gochart.Style{FillColor: c, StrokeColor: c}
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}
