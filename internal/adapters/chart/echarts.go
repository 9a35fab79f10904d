// Package chart renders content statistics as a standalone HTML page
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/postkit/postkit/internal/core/domain"
	"github.com/postkit/postkit/internal/core/ports"
)

// EChartsRenderer draws a stats report with go-echarts
type EChartsRenderer struct {
	Title string
}

// NewEChartsRenderer creates a renderer with the given page title
func NewEChartsRenderer(title string) *EChartsRenderer {
	if title == "" {
		title = "postkit stats"
	}
	return &EChartsRenderer{Title: title}
}

var _ ports.ChartRenderer = (*EChartsRenderer)(nil)

// Render writes a page with posts per month, status, tags and languages
func (r *EChartsRenderer) Render(w io.Writer, report domain.StatsReport) error {
	page := components.NewPage()
	page.PageTitle = r.Title

	page.AddCharts(
		monthBar(report),
		statusPie(report),
		countBar("Tags", report.Tags),
		countBar("Code languages", report.Languages),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func monthBar(report domain.StatsReport) *charts.Bar {
	bar := countBar("Posts per month", report.PerMonth)
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Posts per month",
			Subtitle: fmt.Sprintf("%d posts, %d words", report.Posts, report.Words),
		}),
	)
	return bar
}

func statusPie(report domain.StatsReport) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Status"}))

	var data []opts.PieData
	for _, c := range []domain.Count{
		{Label: "published", Value: report.Published},
		{Label: "draft", Value: report.Drafts},
		{Label: "invalid", Value: report.Invalid},
	} {
		if c.Value > 0 {
			data = append(data, opts.PieData{Name: c.Label, Value: c.Value})
		}
	}

	pie.AddSeries("status", data)
	return pie
}

func countBar(title string, counts []domain.Count) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))

	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		data[i] = opts.BarData{Value: c.Value}
	}

	bar.SetXAxis(labels).AddSeries(title, data)
	return bar
}
