// Package chart renders the corpus growth time series as an
// interactive HTML line chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/specgrowth/specgrowth/pkg/results"
)

// ErrEmptyTable is returned when there is nothing to plot.
var ErrEmptyTable = errors.New("result table is empty, nothing to render")

// Series names shown in the legend.
const (
	seriesLines = "content lines"
	seriesFiles = "spec files"
)

const (
	chartWidth   = "1200px"
	chartHeight  = "600px"
	dataZoomFull = 100
)

// Build constructs the growth chart from the loaded table. Rows are
// consumed in file order, which the writer guarantees is chronological.
func Build(table *results.Table) (*charts.Line, error) {
	if table == nil || len(table.Rows) == 0 {
		return nil, ErrEmptyTable
	}

	labels := make([]string, len(table.Rows))
	lines := make([]opts.LineData, len(table.Rows))
	files := make([]opts.LineData, len(table.Rows))

	for i, row := range table.Rows {
		labels[i] = row.Date.Format(time.DateOnly)
		lines[i] = opts.LineData{Value: row.TotalLines}
		files[i] = opts.LineData{Value: row.NumFiles}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Specification corpus growth",
			Subtitle: fmt.Sprintf("%d weekly samples", len(table.Rows)),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "8%", Left: "center"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: dataZoomFull},
			opts.DataZoom{Type: "inside"},
		),
		charts.WithXAxisOpts(opts.XAxis{Name: "commit date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)

	line.SetXAxis(labels)
	line.AddSeries(seriesLines, lines,
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.2)}))
	line.AddSeries(seriesFiles, files)

	return line, nil
}

// Render writes the chart as a standalone HTML document.
func Render(table *results.Table, w io.Writer) error {
	line, err := Build(table)
	if err != nil {
		return err
	}

	err = line.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

// WriteFile renders the chart to the given path. The file is only
// created once there is something to plot.
func WriteFile(table *results.Table, path string) error {
	line, err := Build(table)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	renderErr := line.Render(file)
	if renderErr != nil {
		renderErr = fmt.Errorf("render chart: %w", renderErr)
	}

	closeErr := file.Close()

	if renderErr != nil {
		return renderErr
	}

	if closeErr != nil {
		return fmt.Errorf("close chart file: %w", closeErr)
	}

	return nil
}
