// Package simulate runs the hit test over a series of sun positions and
// groups the results into continuous lit intervals.
package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/hittest"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
)

// SunSample is one sun position in a time series.
type SunSample struct {
	Timestamp    string  `json:"timestamp"`
	AzimuthDeg   float64 `json:"azimuth_deg"`
	ElevationDeg float64 `json:"elevation_deg"`
}

// TimestampResult pairs a sample timestamp with its hit test.
type TimestampResult struct {
	Timestamp string
	Result    hittest.Result
}

// Interval is a run of consecutive lit timestamps.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
	// WindowID is the opening credited at the interval's first timestamp.
	WindowID    *string `json:"window_id"`
	NTimestamps int     `json:"n_timestamps"`
}

// Summary is the outcome of a batch run.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Total     int
	Hits      int
	Misses    int
	Intervals []Interval
	// Results is empty when the run did not keep details.
	Results []TimestampResult
}

// HitPercentage is the share of lit timestamps, 0 for an empty run.
func (s *Summary) HitPercentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return 100 * float64(s.Hits) / float64(s.Total)
}

// Options controls a batch run.
type Options struct {
	// Workers bounds concurrent hit tests; 0 means GOMAXPROCS.
	Workers     int
	KeepDetails bool
}

// DefaultOptions keeps per-timestamp results.
func DefaultOptions() Options {
	return Options{KeepDetails: true}
}

// Run evaluates every sample against the site. Samples are tested
// concurrently; results keep the input order.
func Run(ctx context.Context, samples []SunSample, site *config.Site, opts Options) (*Summary, error) {
	if site == nil {
		return nil, fmt.Errorf("simulate: nil site")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]TimestampResult, len(samples))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range samples {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = TimestampResult{
				Timestamp: s.Timestamp,
				Result:    site.Check(s.AzimuthDeg, s.ElevationDeg),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}

	sum := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Total:     len(results),
		Intervals: Consolidate(results),
	}
	for _, r := range results {
		if r.Result.IsHit {
			sum.Hits++
		}
	}
	sum.Misses = sum.Total - sum.Hits
	if opts.KeepDetails {
		sum.Results = results
	}
	return sum, nil
}

// Consolidate groups consecutive lit results into intervals. Results must
// be in chronological order.
func Consolidate(results []TimestampResult) []Interval {
	intervals := []Interval{}
	var cur *Interval
	for i, r := range results {
		if r.Result.IsHit {
			if cur == nil {
				id := r.Result.WindowID
				cur = &Interval{Start: r.Timestamp, WindowID: &id}
			}
			cur.NTimestamps++
			continue
		}
		if cur != nil {
			cur.End = results[i-1].Timestamp
			intervals = append(intervals, *cur)
			cur = nil
		}
	}
	if cur != nil {
		cur.End = results[len(results)-1].Timestamp
		intervals = append(intervals, *cur)
	}
	return intervals
}

// FromPositions converts computed sun positions to samples with RFC 3339
// timestamps in each position's own zone.
func FromPositions(ps []solar.Position) []SunSample {
	out := make([]SunSample, len(ps))
	for i, p := range ps {
		out[i] = SunSample{
			Timestamp:    p.Time.Format(time.RFC3339),
			AzimuthDeg:   p.AzimuthDeg,
			ElevationDeg: p.ElevationDeg,
		}
	}
	return out
}

// LoadSunData reads samples from a JSON file holding either a bare array
// or an object with a "data" array.
func LoadSunData(path string) ([]SunSample, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read sun data: %w", err)
	}
	return ParseSunData(data)
}

// ParseSunData decodes either accepted sun data shape.
func ParseSunData(data []byte) ([]SunSample, error) {
	var samples []SunSample
	if err := json.Unmarshal(data, &samples); err == nil {
		return samples, nil
	}
	var wrapped struct {
		Data *[]SunSample `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("invalid sun data format: %w", err)
	}
	if wrapped.Data == nil {
		return nil, fmt.Errorf("invalid sun data format: expected an array or an object with \"data\"")
	}
	return *wrapped.Data, nil
}

type detailJSON struct {
	Timestamp string  `json:"timestamp"`
	IsHit     bool    `json:"is_hit"`
	WindowID  *string `json:"window_id"`
	Reason    *string `json:"reason"`
}

type summaryJSON struct {
	RunID         string       `json:"run_id"`
	Total         int          `json:"total_timestamps"`
	Hits          int          `json:"hit_count"`
	Misses        int          `json:"miss_count"`
	HitPercentage float64      `json:"hit_percentage"`
	Intervals     []Interval   `json:"hit_intervals"`
	Results       []detailJSON `json:"results,omitempty"`
}

// ToJSON renders the summary. Per-timestamp results are included only when
// includeDetails is set.
func (s *Summary) ToJSON(includeDetails bool) ([]byte, error) {
	out := summaryJSON{
		RunID:         s.RunID,
		Total:         s.Total,
		Hits:          s.Hits,
		Misses:        s.Misses,
		HitPercentage: math.Round(s.HitPercentage()*100) / 100,
		Intervals:     s.Intervals,
	}
	if out.Intervals == nil {
		out.Intervals = []Interval{}
	}
	if includeDetails {
		out.Results = make([]detailJSON, len(s.Results))
		for i, r := range s.Results {
			d := detailJSON{Timestamp: r.Timestamp, IsHit: r.Result.IsHit}
			if r.Result.IsHit {
				id := r.Result.WindowID
				d.WindowID = &id
			}
			if r.Result.Reason != hittest.ReasonNone {
				reason := string(r.Result.Reason)
				d.Reason = &reason
			}
			out.Results[i] = d
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// Save writes the summary JSON to path.
func Save(s *Summary, path string, includeDetails bool) error {
	data, err := s.ToJSON(includeDetails)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write simulation summary: %w", err)
	}
	return nil
}
