// Package charts renders a day of sun positions as an interactive HTML
// chart and the room as a floor plan image.
package charts

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/simulate"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
)

// DayPoint is one sample of a day chart.
type DayPoint struct {
	Time         time.Time
	AzimuthDeg   float64
	ElevationDeg float64
	IsHit        bool
	WindowID     string
}

// DayPoints pairs sun positions with the batch results computed from them.
// The slices must be index aligned.
func DayPoints(ps []solar.Position, results []simulate.TimestampResult) ([]DayPoint, error) {
	if len(ps) != len(results) {
		return nil, fmt.Errorf("charts: %d positions but %d results", len(ps), len(results))
	}
	out := make([]DayPoint, len(ps))
	for i, p := range ps {
		out[i] = DayPoint{
			Time:         p.Time,
			AzimuthDeg:   p.AzimuthDeg,
			ElevationDeg: p.ElevationDeg,
			IsHit:        results[i].Result.IsHit,
			WindowID:     results[i].Result.WindowID,
		}
	}
	return out, nil
}

// missing is how echarts marks a gap in a series.
const missing = "-"

// DayChart writes an HTML page plotting sun elevation and azimuth across
// the day, with the direct-sun samples highlighted.
func DayChart(w io.Writer, title string, points []DayPoint) error {
	if title == "" {
		title = "Direct sun on plant"
	}
	x := make([]string, len(points))
	elevation := make([]opts.LineData, len(points))
	azimuth := make([]opts.LineData, len(points))
	lit := make([]opts.LineData, len(points))
	hits := 0
	for i, p := range points {
		x[i] = p.Time.Format("15:04")
		elevation[i] = opts.LineData{Value: p.ElevationDeg}
		azimuth[i] = opts.LineData{Value: p.AzimuthDeg}
		if p.IsHit {
			hits++
			lit[i] = opts.LineData{Value: p.ElevationDeg, Name: p.WindowID}
		} else {
			lit[i] = opts.LineData{Value: missing}
		}
	}

	subtitle := fmt.Sprintf("%d of %d samples in direct sun", hits, len(points))
	if len(points) > 0 {
		subtitle = points[0].Time.Format("2006-01-02 MST") + " - " + subtitle
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Local time", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Elevation (°)", Min: -5, Max: 90}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "Azimuth (°)", Min: 0, Max: 360, Position: "right"})

	line.SetXAxis(x).
		AddSeries("elevation", elevation,
			charts.WithLineStyleOpts(opts.LineStyle{Color: "#f5a623", Width: 2})).
		AddSeries("direct sun", lit,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), Symbol: "circle", SymbolSize: 8}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "#d0021b", Width: 4})).
		AddSeries("azimuth", azimuth,
			charts.WithLineChartOpts(opts.LineChart{YAxisIndex: 1}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: "#4a90e2", Type: "dashed"}))

	return line.Render(w)
}
