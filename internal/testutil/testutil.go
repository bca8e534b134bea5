// Package testutil provides shared test fixtures: a small south-facing room
// and HTTP assertion helpers.
package testutil

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
)

// SouthWindowJSON is an ENU room with one 2x2 m window on the y=0 wall,
// facing due south, and a plant 2 m inside it. The sun at azimuth 180,
// elevation 30 lights every sample point; from the north it lights none.
const SouthWindowJSON = `{
  "coordinate_system": "ENU",
  "walls": [
    {"id": "south", "outward_normal_azimuth_deg": 180, "axis": "x", "thickness": 0}
  ],
  "windows": [
    {"id": "south_window", "wall_id": "south", "center": [2.0, 0.0, 1.5], "width": 2.0, "height": 2.0}
  ],
  "plant": {"center_x": 2.0, "center_y": 2.0, "radius": 0.2, "z_min": 0.0, "z_max": 1.0},
  "simulation": {"sample_points_angular": 8, "sample_points_vertical": 3},
  "location": {"latitude": 40.7128, "longitude": -74.0060, "timezone_offset": -5,
               "timezone_name": "America/New_York"}
}`

// SouthWindowSite parses SouthWindowJSON.
func SouthWindowSite(t testing.TB) *config.Site {
	t.Helper()
	site, err := config.ParseSite([]byte(SouthWindowJSON), config.FormatJSON)
	if err != nil {
		t.Fatalf("parse fixture site: %v", err)
	}
	return site
}

// WriteSiteFile writes SouthWindowJSON into a temporary directory and
// returns its path.
func WriteSiteFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.json")
	if err := os.WriteFile(path, []byte(SouthWindowJSON), 0o644); err != nil {
		t.Fatalf("write fixture site: %v", err)
	}
	return path
}

// AssertStatusCode checks a recorded response status.
func AssertStatusCode(t testing.TB, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status code = %d, want %d (body %q)", rec.Code, want, rec.Body.String())
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
