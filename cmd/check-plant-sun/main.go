// Command check-plant-sun answers whether the plant is in direct sun. It is
// meant for a Home Assistant command_line sensor: it prints "on" or "off"
// (or JSON with --json) and always exits 0.
//
// Usage:
//
//	check-plant-sun [azimuth elevation] [--config path] [--json]
//
// Without angles the current sun position is computed from the site's
// location.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/timeutil"
)

func main() {
	run(os.Args[1:], os.Stdout, os.Stderr)
}

type options struct {
	configPath string
	json       bool
	angles     []float64
}

// splitArgs separates flags from numeric positionals so that angles may be
// given before or after the flags, and negative elevations are not taken
// for flags.
func splitArgs(args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if _, err := strconv.ParseFloat(a, 64); err == nil || !strings.HasPrefix(a, "-") {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if name == "config" && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	return flags, positional
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("check-plant-sun", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "path to the site configuration (default "+config.DefaultSitePath+")")
	fs.BoolVar(&o.json, "json", false, "print JSON details instead of on/off")

	flagArgs, positional := splitArgs(args)
	if err := fs.Parse(flagArgs); err != nil {
		return o, err
	}

	switch len(positional) {
	case 0:
	case 2, 3:
		for _, p := range positional[:2] {
			v, err := strconv.ParseFloat(p, 64)
			if err != nil {
				return o, fmt.Errorf("invalid angle %q", p)
			}
			o.angles = append(o.angles, v)
		}
		if len(positional) == 3 && o.configPath == "" {
			o.configPath = positional[2]
		}
	default:
		return o, errors.New("expected both azimuth and elevation, or neither")
	}
	if o.configPath == "" {
		o.configPath = config.DefaultSitePath
	}
	return o, nil
}

func details(o options) (service.Details, error) {
	sensor := service.NewSensor(config.NewCache(o.configPath), timeutil.RealClock{})
	if o.angles == nil {
		return sensor.DetailsNow()
	}
	return sensor.Details(o.angles[0], o.angles[1])
}

func run(args []string, stdout, stderr io.Writer) {
	monitoring.SetLogger(func(format string, v ...interface{}) {
		fmt.Fprintf(stderr, format+"\n", v...)
	})

	o, err := parseArgs(args, stderr)
	var d service.Details
	if err == nil {
		d, err = details(o)
	}

	if err != nil {
		if o.json {
			out, _ := json.Marshal(map[string]interface{}{"is_hit": false, "error": err.Error()})
			fmt.Fprintln(stdout, string(out))
		} else {
			fmt.Fprintln(stdout, "off")
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return
	}

	if o.json {
		out, err := json.Marshal(d)
		if err != nil {
			fmt.Fprintln(stdout, `{"is_hit":false,"error":"encoding failed"}`)
			return
		}
		fmt.Fprintln(stdout, string(out))
		return
	}
	if d.IsHit {
		fmt.Fprintln(stdout, "on")
	} else {
		fmt.Fprintln(stdout, "off")
	}
}
