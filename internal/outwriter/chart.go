package outwriter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"slices"

	"github.com/huangsam/perflog/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Figure geometry: one tall panel on the left, two stacked panels on the right.
const (
	figureWidth  = 1000
	figureHeight = 600
	leftWidth    = figureWidth * 2 / 3
)

var seriesColors = []drawing.Color{chart.ColorBlue, chart.ColorOrange, chart.ColorGreen, chart.ColorRed}

// panel is one line plot of a composed figure.
type panel struct {
	xName, yName string
	series       []chart.ContinuousSeries
}

func intTicks(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}

// render draws the panel into a width x height image. Panels without a drawable
// series (fewer than two points) come back blank.
func (p panel) render(width, height int) (image.Image, error) {
	blank := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(blank, blank.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	var series []chart.Series
	minX, maxX, maxY := 0.0, 0.0, 0.0
	first := true
	for _, s := range p.series {
		if len(s.XValues) < 2 {
			continue
		}
		series = append(series, s)
		lo, hi := slices.Min(s.XValues), slices.Max(s.XValues)
		if first || lo < minX {
			minX = lo
		}
		if first || hi > maxX {
			maxX = hi
		}
		maxY = max(maxY, slices.Max(s.YValues))
		first = false
	}
	if len(series) == 0 {
		return blank, nil
	}
	if maxX <= minX {
		maxX = minX + 1
	}
	if maxY <= 0 {
		maxY = 1
	}

	ch := chart.Chart{
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 14}},
		XAxis:      chart.XAxis{Name: p.xName, Range: &chart.ContinuousRange{Min: minX, Max: maxX}, ValueFormatter: intTicks},
		YAxis:      chart.YAxis{Name: p.yName, Range: &chart.ContinuousRange{Min: 0, Max: maxY}},
		Series:     series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering %q panel: %w", p.xName, err)
	}
	return png.Decode(&buf)
}

func lineSeries(name string, xs, ys []float64, idx int) chart.ContinuousSeries {
	col := seriesColors[idx%len(seriesColors)]
	return chart.ContinuousSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: col, StrokeWidth: 1.5},
	}
}

func unitSeries(name string, units []schema.UnitCost) chart.ContinuousSeries {
	xs := make([]float64, len(units))
	ys := make([]float64, len(units))
	for i, u := range units {
		xs[i] = float64(u.Unit)
		ys[i] = u.Value
	}
	return lineSeries(name, xs, ys, 0)
}

// RenderDispatchChart draws accumulated cost against the driver on the left, the
// typical band top right and the tail band bottom right.
func RenderDispatchChart(w io.Writer, result *schema.DispatchResult) error {
	collapsed := result.Reconstructed.Collapsed
	xs := make([]float64, len(collapsed))
	ys := make([]float64, len(collapsed))
	for i, s := range collapsed {
		xs[i] = float64(s.Driver)
		ys[i] = float64(s.Dependent)
	}
	top := result.Partitioned.Percentile

	panels := []struct {
		p    panel
		rect image.Rectangle
	}{
		{
			panel{"Tasks Dispatched", "Accumulated Time (us)", []chart.ContinuousSeries{lineSeries("accumulated", xs, ys, 0)}},
			image.Rect(0, 0, leftWidth, figureHeight),
		},
		{
			panel{fmt.Sprintf("Task ID (top %.2f%%)", top), "Dispatching Time (us)", []chart.ContinuousSeries{unitSeries("typical", result.Partitioned.Below)}},
			image.Rect(leftWidth, 0, figureWidth, figureHeight/2),
		},
		{
			panel{fmt.Sprintf("Task ID (tail %.2f%%)", 100-top), "Dispatching Time (us)", []chart.ContinuousSeries{unitSeries("tail", result.Partitioned.AtOrAbove)}},
			image.Rect(leftWidth, figureHeight/2, figureWidth, figureHeight),
		},
	}

	canvas := image.NewRGBA(image.Rect(0, 0, figureWidth, figureHeight))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for _, pn := range panels {
		img, err := pn.p.render(pn.rect.Dx(), pn.rect.Dy())
		if err != nil {
			return err
		}
		draw.Draw(canvas, pn.rect, img, img.Bounds().Min, draw.Src)
	}
	return png.Encode(w, canvas)
}

// RenderWorkerChart draws one line per state field against the driver.
func RenderWorkerChart(w io.Writer, result *schema.WorkerResult) error {
	ss := result.Series
	xs := make([]float64, len(ss.Points))
	cols := make([][]float64, len(ss.StateFields))
	for i := range cols {
		cols[i] = make([]float64, len(ss.Points))
	}
	for i, p := range ss.Points {
		xs[i] = float64(p.Driver)
		for j, v := range p.Values {
			if j < len(cols) {
				cols[j][i] = float64(v)
			}
		}
	}

	p := panel{xName: "Tasks Done", yName: "Number of Workers"}
	for j, name := range ss.StateFields {
		p.series = append(p.series, lineSeries(name, xs, cols[j], j))
	}
	img, err := p.render(figureWidth, figureHeight)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
