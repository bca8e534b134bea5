package main

import (
	"context"
	"time"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/db"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/mqttpub"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
)

// poller evaluates the current sun position on every tick. The store and
// publisher are optional.
type poller struct {
	sensor    *service.Sensor
	store     *db.DB
	publisher *mqttpub.Publisher
	// retention prunes observations older than this; zero keeps everything.
	retention time.Duration
}

// tick evaluates once. A configuration file changed on disk is picked up
// before the evaluation; if it no longer parses the previous site is used.
func (p *poller) tick(ctx context.Context) (service.Details, error) {
	if _, reloaded, err := p.sensor.Cache().Refresh(); err != nil {
		monitoring.Logf("config refresh failed, keeping previous site: %v", err)
	} else if reloaded {
		monitoring.Logf("loaded site configuration from %s", p.sensor.Cache().Path())
	}

	d, err := p.sensor.DetailsNow()
	if err != nil {
		return d, err
	}
	now := p.sensor.Clock().Now()
	if d.Time != nil {
		now = *d.Time
	}

	if p.store != nil {
		if _, err := p.store.RecordObservation(db.NewObservation(now, d)); err != nil {
			monitoring.Logf("%v", err)
		}
		if p.retention > 0 {
			if n, err := p.store.PruneObservations(now.Add(-p.retention)); err != nil {
				monitoring.Logf("failed to prune observations: %v", err)
			} else if n > 0 {
				monitoring.Debugf("pruned %d observations", n)
			}
		}
	}
	if p.publisher != nil {
		sent, err := p.publisher.PublishState(ctx, d, false)
		if err != nil {
			monitoring.Logf("mqtt publish failed: %v", err)
		} else if sent {
			monitoring.Logf("plant sun state is now %s", d.State)
		}
	}
	monitoring.Debugf("az=%.1f el=%.1f state=%s", d.SunAzimuth, d.SunElevation, d.State)
	return d, nil
}

// run ticks immediately and then on every interval until ctx is done.
func (p *poller) run(ctx context.Context, interval time.Duration) {
	ticker := p.sensor.Clock().NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.tick(ctx); err != nil {
			monitoring.Logf("sun check failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}
	}
}
