// Command wallcoords converts between perpendicular distances from two
// walls and room x/y coordinates.
//
// Usage:
//
//	wallcoords [flags] to-xy <dist1> <dist2>
//	wallcoords [flags] to-walls <x> <y>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/geom"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "wallcoords: %v\n", err)
		os.Exit(1)
	}
}

// frame is the pair of walls the distances are measured from.
type frame struct {
	wall1, wall2 float64
	corner       r2.Vec
	// simplified rooms put wall 1 along X and wall 2 along Y.
	simplified bool
}

func (f frame) toXY(d1, d2 float64) r2.Vec {
	if f.simplified {
		return r2.Vec{X: d2, Y: d1}
	}
	return geom.PositionFromWallDistances(d1, d2, f.wall1, f.wall2, f.corner)
}

func (f frame) toWalls(p r2.Vec) (d1, d2 float64, err error) {
	if f.simplified {
		return p.Y, p.X, nil
	}
	return geom.WallDistancesFromPosition(p, f.wall1, f.wall2, f.corner)
}

// frameFromSite takes the corner and the first two walls of a site.
func frameFromSite(site *config.Site) (frame, error) {
	if site.Simplified() {
		return frame{simplified: true}, nil
	}
	if len(site.Walls) < 2 {
		return frame{}, fmt.Errorf("site has %d walls, need two", len(site.Walls))
	}
	return frame{
		wall1:  site.Walls[0].OutwardNormalAzimuthDeg,
		wall2:  site.Walls[1].OutwardNormalAzimuthDeg,
		corner: site.Corner,
	}, nil
}

func parsePair(args []string) (a, b float64, err error) {
	if len(args) != 2 {
		return 0, 0, errors.New("expected two numbers")
	}
	if a, err = strconv.ParseFloat(args[0], 64); err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", args[0])
	}
	if b, err = strconv.ParseFloat(args[1], 64); err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", args[1])
	}
	return a, b, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	var f frame
	var configPath string
	fs := flag.NewFlagSet("wallcoords", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&f.wall1, "wall1", 210, "outward normal azimuth of wall 1 in degrees")
	fs.Float64Var(&f.wall2, "wall2", 307, "outward normal azimuth of wall 2 in degrees")
	fs.Float64Var(&f.corner.X, "corner-x", 0, "x of the corner where the walls meet")
	fs.Float64Var(&f.corner.Y, "corner-y", 0, "y of the corner where the walls meet")
	fs.StringVar(&configPath, "config", "", "take the walls and corner from this site configuration")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wallcoords [flags] to-xy <dist1> <dist2> | to-walls <x> <y>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if configPath != "" {
		site, err := config.LoadSite(configPath)
		if err != nil {
			return err
		}
		if f, err = frameFromSite(site); err != nil {
			return err
		}
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing command")
	}
	a, b, err := parsePair(fs.Args()[1:])
	if err != nil {
		return err
	}

	switch fs.Arg(0) {
	case "to-xy":
		p := f.toXY(a, b)
		fmt.Fprintf(stdout, "x=%.3f y=%.3f\n", p.X, p.Y)
	case "to-walls":
		d1, d2, err := f.toWalls(r2.Vec{X: a, Y: b})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "dist_from_wall1=%.3f dist_from_wall2=%.3f\n", d1, d2)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", fs.Arg(0))
	}
	return nil
}
