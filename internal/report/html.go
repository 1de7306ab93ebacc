package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/Yates-Labs/crumbs/internal/chart"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	IndexFile  = "index.html"
	ChartsFile = "charts.html"

	chartWidth  = "900px"
	chartHeight = "500px"

	// sentimentRows bounds the sentiment table on the landing page
	sentimentRows = 50
)

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 960px; color: #222; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.8rem; text-align: left; }
th { background: #f5f5f5; }
.note { color: #888; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .RepoPath}}<p>Repository: <code>{{.RepoPath}}</code></p>{{end}}
{{if .Summary}}
<h2>Summary</h2>
<table>
{{range .Summary}}<tr><th>{{.Key}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
{{end}}
<h2>Charts</h2>
<p><a href="{{.ChartsFile}}">Open interactive charts</a></p>
<ul>
{{range .Figures}}<li>{{.Title}}{{if .Annotation}} <span class="note">({{.Annotation}})</span>{{end}}</li>
{{end}}</ul>
{{if .Sentiment}}
<h2>Sentiment</h2>
<table>
<tr><th>Commit</th><th>Message</th><th>Sentiment</th><th>Confidence</th><th>Tone</th><th>Summary</th></tr>
{{range .Sentiment}}<tr><td><code>{{.SHA}}</code></td><td>{{.Subject}}</td>{{with .Sentiment}}<td>{{.Sentiment}}</td><td>{{printf "%.2f" .Confidence}}</td><td>{{.Tone}}</td><td>{{.Summary}}</td>{{else}}<td colspan="4" class="note">not analyzed</td>{{end}}</tr>
{{end}}</table>
{{end}}
</body>
</html>
`))

type indexData struct {
	Title      string
	RepoPath   string
	Summary    []Row
	Figures    []chart.Figure
	Sentiment  []CommitSentiment
	ChartsFile string
}

// RenderIndex writes the landing page with the summary and sentiment tables
func (r *Report) RenderIndex(w io.Writer) error {
	var rows []CommitSentiment
	if len(r.Sentiment) > 0 {
		rows = r.CommitSentiments()
	}
	if len(rows) > sentimentRows {
		rows = rows[:sentimentRows]
	}
	return indexTemplate.Execute(w, indexData{
		Title:      r.DisplayTitle(),
		RepoPath:   r.RepoPath,
		Summary:    r.Summary(),
		Figures:    r.Figures,
		Sentiment:  rows,
		ChartsFile: ChartsFile,
	})
}

// RenderCharts writes one interactive page holding every figure
func (r *Report) RenderCharts(w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = r.DisplayTitle()
	for _, f := range r.Figures {
		page.AddCharts(echartsFor(f))
	}
	return page.Render(w)
}

// WriteHTML writes index.html and charts.html into dir and returns the
// index path
func (r *Report) WriteHTML(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if err := writeFile(filepath.Join(dir, ChartsFile), r.RenderCharts); err != nil {
		return "", err
	}
	index := filepath.Join(dir, IndexFile)
	if err := writeFile(index, r.RenderIndex); err != nil {
		return "", err
	}
	return index, nil
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}

func echartsFor(f chart.Figure) components.Charter {
	global := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: f.Title, Subtitle: f.Annotation}),
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: f.ID,
			Width:   chartWidth,
			Height:  chartHeight,
		}),
	}

	switch f.Kind {
	case chart.KindPie:
		pie := charts.NewPie()
		pie.SetGlobalOptions(global...)
		for _, s := range f.Series {
			pie.AddSeries(s.Name, pieData(f.Labels, s))
		}
		return pie

	case chart.KindLine:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(f.Labels)
		for _, s := range f.Series {
			data := make([]opts.LineData, len(s.Values))
			for i, v := range s.Values {
				data[i] = opts.LineData{Value: v}
			}
			line.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		return line

	default:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(f.Labels)
		for _, s := range f.Series {
			data := make([]opts.BarData, len(s.Values))
			for i, v := range s.Values {
				data[i] = opts.BarData{Value: v}
			}
			bar.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		return bar
	}
}

func pieData(labels []string, s chart.Series) []opts.PieData {
	data := make([]opts.PieData, 0, len(s.Values))
	for i, v := range s.Values {
		if i >= len(labels) {
			break
		}
		item := opts.PieData{Name: labels[i], Value: v}
		if i < len(s.PointColors) {
			item.ItemStyle = &opts.ItemStyle{Color: s.PointColors[i]}
		}
		data = append(data, item)
	}
	return data
}
