// Package charts renders the category breakdown as an image.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gestor/internal/core"
)

// palette cycles over the slices in breakdown order.
var palette = []string{"34d399", "10b981", "f87171", "60a5fa", "fbbf24", "a78bfa"}

const placeholderColor = "4b5563"

// SliceColor returns the CSS hex color of the i-th slice, so HTML legends
// match the rendered image.
func SliceColor(i int, placeholder bool) string {
	if placeholder {
		return "#" + placeholderColor
	}
	return "#" + palette[i%len(palette)]
}

func fill(i int, placeholder bool) drawing.Color {
	return drawing.ColorFromHex(SliceColor(i, placeholder)[1:])
}

// Generator renders category pies at a fixed size.
type Generator struct {
	Width  int
	Height int
}

func NewGenerator() *Generator {
	return &Generator{Width: 480, Height: 480}
}

// Values maps a breakdown to pie slices. A placeholder entry becomes a single
// grey slice labelled with its name only.
func Values(b core.Breakdown) []chart.Value {
	total := b.Total().Units()
	values := make([]chart.Value, 0, len(b))
	for i, c := range b {
		if c.Placeholder {
			values = append(values, chart.Value{
				Label: c.Name,
				Value: c.Amount.Units(),
				Style: chart.Style{FillColor: fill(i, true), StrokeColor: chart.ColorWhite},
			})
			continue
		}
		label := c.Name
		if total > 0 {
			label = fmt.Sprintf("%s (%.0f%%)", c.Name, c.Amount.Units()/total*100)
		}
		values = append(values, chart.Value{
			Label: label,
			Value: c.Amount.Units(),
			Style: chart.Style{FillColor: fill(i, false), StrokeColor: chart.ColorWhite},
		})
	}
	return values
}

// CategoryPie renders b as a PNG pie chart.
func (g *Generator) CategoryPie(b core.Breakdown) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("render category pie: empty breakdown")
	}
	pie := chart.PieChart{
		Width:  g.Width,
		Height: g.Height,
		Values: Values(b),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    20,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorTransparent,
		},
		Canvas: chart.Style{FillColor: chart.ColorTransparent},
		SliceStyle: chart.Style{
			FontSize:  11,
			FontColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render category pie: %w", err)
	}
	return buffer.Bytes(), nil
}
