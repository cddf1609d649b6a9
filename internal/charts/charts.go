// Package charts renders the dashboard charts as SVG using go-chart.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gradesdash/internal/grades"
)

// ErrNoData is returned when every point of a chart is missing.
var ErrNoData = errors.New("no data to chart")

// Default canvas size.
const (
	DefaultWidth  = 900
	DefaultHeight = 420
)

// scoreCeiling is the minimum Y axis top; grades are on a 0-20 scale.
const scoreCeiling = 20

var (
	barColor  = drawing.ColorFromHex("1f77b4")
	lineColor = drawing.ColorFromHex("ff7f0e")
)

// Point is one labelled score on a chart.
type Point struct {
	Label string
	Score grades.Score
}

// Renderer draws charts at a fixed size.
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer returns a renderer, using the defaults for non-positive sizes.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{Width: width, Height: height}
}

// Bars renders a bar chart of the given points. Missing scores are left out.
func (r *Renderer) Bars(w io.Writer, title string, points []Point) error {
	var bars []chart.Value
	maxY := 0.0
	for _, p := range points {
		if !p.Score.Valid {
			continue
		}
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Score.Value,
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor, StrokeWidth: 1},
		})
		maxY = math.Max(maxY, p.Score.Value)
	}
	if len(bars) == 0 {
		return ErrNoData
	}

	barWidth := r.Width / (2 * (len(bars) + 1))
	if barWidth > 60 {
		barWidth = 60
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(maxY)},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

// Line renders one series over the given points, x positions 1..len(points).
// Missing scores are skipped; the line joins the remaining points.
func (r *Renderer) Line(w io.Writer, title, series string, points []Point) error {
	var xs, ys []float64
	ticks := make([]chart.Tick, 0, len(points))
	maxY := 0.0
	for i, p := range points {
		x := float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: x, Label: p.Label})
		if !p.Score.Valid {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, p.Score.Value)
		maxY = math.Max(maxY, p.Score.Value)
	}
	if len(xs) == 0 {
		return ErrNoData
	}

	ch := chart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(points)) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: yMax(maxY)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    series,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    4,
				},
			},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render line chart: %w", err)
	}
	return nil
}

// Placeholder draws an empty canvas with a centered message. Handlers use it
// when a chart has ErrNoData.
func (r *Renderer) Placeholder(w io.Writer, message string) error {
	rd, err := chart.SVG(r.Width, r.Height)
	if err != nil {
		return fmt.Errorf("failed to create svg renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("failed to load chart font: %w", err)
	}
	rd.SetFont(font)
	rd.SetFontSize(16)
	rd.SetFontColor(drawing.ColorFromHex("777777"))
	box := rd.MeasureText(message)
	rd.Text(message, (r.Width-box.Width())/2, (r.Height+box.Height())/2)
	return rd.Save(w)
}

// yMax keeps the axis on the 0-20 scale unless a score exceeds it.
func yMax(v float64) float64 {
	if v <= scoreCeiling {
		return scoreCeiling
	}
	return math.Ceil(v)
}
