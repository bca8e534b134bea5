// Command simulate runs the hit test over a day of sun positions, either
// read from a sun data file or computed for the site's location, and writes
// the summary as JSON.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/charts"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/db"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/simulate"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/timeutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, timeutil.RealClock{}); err != nil {
		log.Fatalf("simulate: %v", err)
	}
}

type options struct {
	configPath string
	sunData    string
	date       string
	interval   time.Duration
	startHour  int
	endHour    int
	algorithm  string
	workers    int

	output  string
	details bool
	chart   string
	plan    string
	dbPath  string
	label   string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	day := solar.DefaultDayOptions()
	var o options
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", config.DefaultSitePath, "site configuration file (JSON or YAML)")
	fs.StringVar(&o.sunData, "sun-data", "", "sun position JSON file; when empty the day is computed from the site location")
	fs.StringVar(&o.date, "date", "", "local date to compute, "+timeutil.DateLayout+" (default today)")
	fs.DurationVar(&o.interval, "interval", day.Interval, "sampling interval for a computed day")
	fs.IntVar(&o.startHour, "start-hour", day.StartHour, "first local hour of a computed day")
	fs.IntVar(&o.endHour, "end-hour", day.EndHour, "last local hour of a computed day")
	fs.StringVar(&o.algorithm, "algorithm", "", "sun position algorithm, noaa or meeus (default from the site)")
	fs.IntVar(&o.workers, "workers", 0, "concurrent hit tests; 0 uses every CPU")
	fs.StringVar(&o.output, "output", "simulation_results.json", "summary JSON path, - for stdout")
	fs.BoolVar(&o.details, "details", true, "include per-timestamp results in the summary")
	fs.StringVar(&o.chart, "chart", "", "write an HTML day chart to this path")
	fs.StringVar(&o.plan, "plan", "", "write a PNG floor plan at the highest sun elevation to this path")
	fs.StringVar(&o.dbPath, "db", "", "record the run in this SQLite database")
	fs.StringVar(&o.label, "label", "", "label stored with the run")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if o.sunData != "" && o.date != "" {
		return o, errors.New("-sun-data and -date are mutually exclusive")
	}
	if o.startHour < 0 || o.endHour > 24 || o.startHour > o.endHour {
		return o, fmt.Errorf("invalid hour range %d-%d", o.startHour, o.endHour)
	}
	return o, nil
}

// positions returns the sun positions to evaluate and their samples.
func positions(o options, site *config.Site, now time.Time) ([]solar.Position, []simulate.SunSample, error) {
	if o.sunData != "" {
		samples, err := simulate.LoadSunData(o.sunData)
		if err != nil {
			return nil, nil, err
		}
		ps := make([]solar.Position, len(samples))
		for i, s := range samples {
			ps[i] = solar.Position{AzimuthDeg: s.AzimuthDeg, ElevationDeg: s.ElevationDeg}
			if t, err := time.Parse(time.RFC3339, s.Timestamp); err == nil {
				ps[i].Time = t
			}
		}
		return ps, samples, nil
	}

	if site.Location == nil {
		return nil, nil, fmt.Errorf("%w: pass -sun-data or add a location", config.ErrNoLocation)
	}
	zone, err := site.Location.Zone()
	if err != nil {
		return nil, nil, err
	}
	date, err := timeutil.ParseDate(o.date, now, zone)
	if err != nil {
		return nil, nil, err
	}
	day := solar.DayOptions{Interval: o.interval, StartHour: o.startHour, EndHour: o.endHour, Algorithm: site.SunAlgorithm}
	if o.algorithm != "" {
		if day.Algorithm, err = solar.ParseAlgorithm(o.algorithm); err != nil {
			return nil, nil, err
		}
	}
	ps, err := solar.DaySeries(*site.Location, date.Year(), date.Month(), date.Day(), day)
	if err != nil {
		return nil, nil, err
	}
	return ps, simulate.FromPositions(ps), nil
}

// highest picks the lit position with the highest sun, or the highest
// position overall when nothing is lit.
func highest(ps []solar.Position, results []simulate.TimestampResult) (solar.Position, bool) {
	best, bestHit, found := solar.Position{}, false, false
	for i, p := range ps {
		hit := i < len(results) && results[i].Result.IsHit
		switch {
		case !found, hit && !bestHit, hit == bestHit && p.ElevationDeg > best.ElevationDeg:
			best, bestHit, found = p, hit, true
		}
	}
	return best, found
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func run(ctx context.Context, args []string, stdout io.Writer, clock timeutil.Clock) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	site, err := config.LoadSite(o.configPath)
	if err != nil {
		return err
	}
	for _, w := range site.Warnings {
		monitoring.Logf("config warning: %s", w)
	}

	ps, samples, err := positions(o, site, clock.Now())
	if err != nil {
		return err
	}
	opts := simulate.DefaultOptions()
	opts.Workers = o.workers
	opts.KeepDetails = o.details || o.chart != "" || o.plan != ""
	sum, err := simulate.Run(ctx, samples, site, opts)
	if err != nil {
		return err
	}
	monitoring.Logf("%d timestamps: %d hits, %d misses (%.1f%%), %d intervals",
		sum.Total, sum.Hits, sum.Misses, sum.HitPercentage(), len(sum.Intervals))

	data, err := sum.ToJSON(o.details)
	if err != nil {
		return err
	}
	if o.output == "-" {
		if _, err := stdout.Write(append(data, '\n')); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(o.output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		monitoring.Logf("wrote %s", o.output)
	}

	if o.chart != "" {
		points, err := charts.DayPoints(ps, sum.Results)
		if err != nil {
			return err
		}
		if err := writeFile(o.chart, func(w io.Writer) error { return charts.DayChart(w, "", points) }); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		monitoring.Logf("wrote %s", o.chart)
	}

	if o.plan != "" {
		best, ok := highest(ps, sum.Results)
		if !ok {
			return errors.New("no sun positions to draw")
		}
		p, err := charts.FloorPlan(site, best.AzimuthDeg, best.ElevationDeg)
		if err != nil {
			return err
		}
		if err := writeFile(o.plan, func(w io.Writer) error { return charts.WritePNG(w, p, 6*vg.Inch) }); err != nil {
			return fmt.Errorf("failed to write floor plan: %w", err)
		}
		monitoring.Logf("wrote %s (az=%.1f el=%.1f)", o.plan, best.AzimuthDeg, best.ElevationDeg)
	}

	if o.dbPath != "" {
		store, err := db.NewDB(o.dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		label := o.label
		if label == "" {
			label = o.sunData
			if label == "" {
				label = o.date
			}
		}
		if err := store.RecordRun(sum, label); err != nil {
			return err
		}
		monitoring.Logf("recorded run %s", sum.RunID)
	}
	return nil
}
