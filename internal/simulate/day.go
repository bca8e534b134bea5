package simulate

import (
	"context"
	"time"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
)

// Day computes the sun positions of one local day at the site's location
// and runs them. An empty day algorithm falls back to the site's.
func Day(ctx context.Context, site *config.Site, date time.Time, day solar.DayOptions, opts Options) ([]solar.Position, *Summary, error) {
	if site.Location == nil {
		return nil, nil, config.ErrNoLocation
	}
	if day.Algorithm == "" {
		day.Algorithm = site.SunAlgorithm
	}
	ps, err := solar.DaySeries(*site.Location, date.Year(), date.Month(), date.Day(), day)
	if err != nil {
		return nil, nil, err
	}
	sum, err := Run(ctx, FromPositions(ps), site, opts)
	if err != nil {
		return nil, nil, err
	}
	return ps, sum, nil
}
