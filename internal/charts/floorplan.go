package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/hittest"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/room"
)

var (
	wallColor   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	windowColor = color.RGBA{R: 74, G: 144, B: 226, A: 255}
	plantColor  = color.RGBA{R: 76, G: 175, B: 80, A: 110}
	litColor    = color.RGBA{R: 245, G: 166, B: 35, A: 255}
	shadedColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	sunRayColor = color.RGBA{R: 208, G: 2, B: 27, A: 255}
)

// sunRayLength is the drawn length of the sun direction, in meters.
const sunRayLength = 2.5

// FloorPlan draws the room seen from above: walls, openings (both faces of
// thick openings), the plant footprint, its sample points marked lit or
// shaded, and the horizontal sun direction from the plant.
func FloorPlan(site *config.Site, azimuthDeg, elevationDeg float64) (*plot.Plot, error) {
	rep := site.Detail(azimuthDeg, elevationDeg)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Sun az %.1f° el %.1f°", azimuthDeg, elevationDeg)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"
	p.Legend.Top = true

	var ext extent
	ext.add(site.Target.CenterX-site.Target.Radius, site.Target.CenterY-site.Target.Radius)
	ext.add(site.Target.CenterX+site.Target.Radius, site.Target.CenterY+site.Target.Radius)

	for i, w := range site.Walls {
		xys, ok := wallSegment(site, w)
		if !ok {
			continue
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Color = wallColor
		l.Width = vg.Points(3)
		p.Add(l)
		if i == 0 {
			p.Legend.Add("wall", l)
		}
		ext.addXYs(xys)
	}

	for i, o := range site.Openings {
		for j, xys := range openingSegments(o) {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, err
			}
			l.Color = windowColor
			l.Width = vg.Points(5)
			if j > 0 {
				l.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
				l.Width = vg.Points(2)
			}
			p.Add(l)
			if i == 0 && j == 0 {
				p.Legend.Add("window", l)
			}
			ext.addXYs(xys)
		}
	}

	footprint, err := plotter.NewPolygon(circle(site.Target.CenterX, site.Target.CenterY, site.Target.Radius, 48))
	if err != nil {
		return nil, err
	}
	footprint.Color = plantColor
	footprint.LineStyle.Color = plantColor
	p.Add(footprint)
	p.Legend.Add("plant", footprint)

	var lit, shaded plotter.XYs
	for _, pt := range rep.Points {
		xy := plotter.XY{X: pt.Position[0], Y: pt.Position[1]}
		if pointLit(pt) {
			lit = append(lit, xy)
		} else {
			shaded = append(shaded, xy)
		}
	}
	for _, s := range []struct {
		name string
		xys  plotter.XYs
		c    color.Color
	}{{"shaded sample", shaded, shadedColor}, {"lit sample", lit, litColor}} {
		if len(s.xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(s.xys)
		if err != nil {
			return nil, err
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: s.c, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}

	if rep.SunDirection != nil {
		d := rep.SunDirection
		h := math.Hypot(d[0], d[1])
		if h > 1e-9 {
			cx, cy := site.Target.CenterX, site.Target.CenterY
			ray := plotter.XYs{
				{X: cx, Y: cy},
				{X: cx + sunRayLength*d[0]/h, Y: cy + sunRayLength*d[1]/h},
			}
			l, err := plotter.NewLine(ray)
			if err != nil {
				return nil, err
			}
			l.Color = sunRayColor
			l.Width = vg.Points(1.5)
			l.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
			p.Add(l)
			p.Legend.Add("toward sun", l)
			ext.addXYs(ray)
		}
	}

	ext.apply(p, 0.5)
	return p, nil
}

func pointLit(pt hittest.PointTrace) bool {
	for _, w := range pt.Windows {
		if w.Intersects {
			return true
		}
	}
	return false
}

// wallSegment draws a wall from the room corner along its axis. Walls
// without an axis cannot be placed and are skipped.
func wallSegment(site *config.Site, w room.Wall) (plotter.XYs, bool) {
	c := site.Corner
	switch w.Axis {
	case room.AxisX:
		return plotter.XYs{{X: c.X, Y: c.Y}, {X: c.X + w.DrawLength, Y: c.Y}}, true
	case room.AxisY:
		return plotter.XYs{{X: c.X, Y: c.Y}, {X: c.X, Y: c.Y + w.DrawLength}}, true
	default:
		return nil, false
	}
}

// openingSegments returns the inner face and, for thick openings, the
// outer face of an opening as seen from above.
func openingSegments(o room.Opening) []plotter.XYs {
	axis := o.PlaneAxis()
	half := o.Width / 2
	seg := func(plane float64) plotter.XYs {
		if axis == room.AxisX {
			return plotter.XYs{{X: o.Center.X - half, Y: plane}, {X: o.Center.X + half, Y: plane}}
		}
		return plotter.XYs{{X: plane, Y: o.Center.Y - half}, {X: plane, Y: o.Center.Y + half}}
	}
	inner := axis.PlaneCoord(o.Center)
	out := []plotter.XYs{seg(inner)}
	if o.WallThickness > 0 {
		out = append(out, seg(inner-o.WallThickness))
	}
	return out
}

func circle(cx, cy, r float64, n int) plotter.XYs {
	xys := make(plotter.XYs, n)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		xys[i] = plotter.XY{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
	}
	return xys
}

// extent tracks the drawn area so both axes get the same scale.
type extent struct {
	minX, minY, maxX, maxY float64
	set                    bool
}

func (e *extent) add(x, y float64) {
	if !e.set {
		e.minX, e.maxX, e.minY, e.maxY, e.set = x, x, y, y, true
		return
	}
	e.minX, e.maxX = math.Min(e.minX, x), math.Max(e.maxX, x)
	e.minY, e.maxY = math.Min(e.minY, y), math.Max(e.maxY, y)
}

func (e *extent) addXYs(xys plotter.XYs) {
	for _, xy := range xys {
		e.add(xy.X, xy.Y)
	}
}

func (e *extent) apply(p *plot.Plot, pad float64) {
	span := math.Max(e.maxX-e.minX, e.maxY-e.minY)/2 + pad
	cx, cy := (e.minX+e.maxX)/2, (e.minY+e.maxY)/2
	p.X.Min, p.X.Max = cx-span, cx+span
	p.Y.Min, p.Y.Max = cy-span, cy+span
}

// WritePNG renders p as a square PNG of the given size.
func WritePNG(w io.Writer, p *plot.Plot, size vg.Length) error {
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
