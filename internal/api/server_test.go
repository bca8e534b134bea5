package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/db"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/hittest"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/testutil"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/timeutil"
)

type fixture struct {
	mux   *http.ServeMux
	db    *db.DB
	clock *timeutil.MockClock
	path  string
}

func newFixture(t *testing.T, withDB bool) *fixture {
	t.Helper()
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	f := &fixture{
		clock: timeutil.NewMockClock(time.Date(2025, 6, 21, 13, 0, 0, 0, ny)),
		path:  testutil.WriteSiteFile(t),
	}
	if withDB {
		f.db, err = db.NewDB(filepath.Join(t.TempDir(), "api.db"))
		require.NoError(t, err)
		t.Cleanup(func() { f.db.Close() })
	}
	sensor := service.NewSensor(config.NewCache(f.path), f.clock)
	f.mux = NewServer(sensor, f.db).ServeMux()
	return f
}

func (f *fixture) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestSunlight(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(http.MethodGet, "/api/sunlight?azimuth=180&elevation=30")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	var d service.Details
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
	assert.True(t, d.IsHit)
	assert.Equal(t, "south_window", *d.WindowID)
	assert.Equal(t, 180.0, d.SunAzimuth)

	rec = f.do(http.MethodGet, "/api/sunlight?azimuth=180&elevation=30&detail=1")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	var rep hittest.DetailReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rep))
	assert.Equal(t, 26, rep.NSamplePoints)
	assert.Equal(t, 26, rep.NHitPoints)
}

func TestSunlightBadParams(t *testing.T) {
	f := newFixture(t, false)
	tests := []string{
		"/api/sunlight?azimuth=abc&elevation=30",
		"/api/sunlight?azimuth=180",
		"/api/state?elevation=10",
	}
	for _, target := range tests {
		rec := f.do(http.MethodGet, target)
		testutil.AssertStatusCode(t, rec, http.StatusBadRequest)
	}

	rec := f.do(http.MethodPost, "/api/sunlight?azimuth=180&elevation=30")
	testutil.AssertStatusCode(t, rec, http.StatusMethodNotAllowed)
}

func TestSunlightNowUsesClock(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(http.MethodGet, "/api/sunlight/now")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	var d service.Details
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
	require.NotNil(t, d.Time)
	assert.Greater(t, d.SunElevation, 60.0)

	f.clock.Set(time.Date(2025, 6, 21, 6, 0, 0, 0, time.UTC)) // 02:00 in New York
	rec = f.do(http.MethodGet, "/api/sunlight/now")
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&d))
	assert.Equal(t, service.StateBelowHorizon, d.State)
}

func TestState(t *testing.T) {
	f := newFixture(t, false)
	tests := []struct {
		target string
		want   string
	}{
		{"/api/state?azimuth=180&elevation=30", "on"},
		{"/api/state?azimuth=0&elevation=30", "off"},
		{"/api/state?azimuth=180&elevation=-5", "off"},
		{"/api/state?azimuth=180&elevation=-5&format=state", "below_horizon"},
		{"/api/state?azimuth=0&elevation=30&format=state", "no_window_path"},
	}
	for _, tt := range tests {
		rec := f.do(http.MethodGet, tt.target)
		testutil.AssertStatusCode(t, rec, http.StatusOK)
		assert.Equal(t, tt.want, strings.TrimSpace(rec.Body.String()), tt.target)
	}
}

func TestNoLocation(t *testing.T) {
	f := newFixture(t, false)
	noLoc := strings.Replace(testutil.SouthWindowJSON, `"location"`, `"ignored"`, 1)
	require.NoError(t, os.WriteFile(f.path, []byte(noLoc), 0o644))

	for _, target := range []string{"/api/sunlight/now", "/api/state", "/api/sun", "/api/simulate"} {
		rec := f.do(http.MethodGet, target)
		testutil.AssertStatusCode(t, rec, http.StatusUnprocessableEntity)
	}
}

func TestSunPosition(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(http.MethodGet, "/api/sun")
	testutil.AssertStatusCode(t, rec, http.StatusOK)

	var body struct {
		Elevation    float64    `json:"elevation_deg"`
		Compass      string     `json:"compass"`
		AboveHorizon bool       `json:"above_horizon"`
		Sunrise      *time.Time `json:"sunrise"`
		Sunset       *time.Time `json:"sunset"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.AboveHorizon)
	assert.Contains(t, []string{"SSE", "S", "SSW", "SW"}, body.Compass, "early afternoon sun is in the south")
	require.NotNil(t, body.Sunrise)
	require.NotNil(t, body.Sunset)
	assert.True(t, body.Sunrise.Before(*body.Sunset))
}

func TestSimulateAndHistory(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(http.MethodGet, "/api/simulate?date=2025-12-21&interval=1h&save=1&details=1")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	var sum struct {
		RunID   string `json:"run_id"`
		Total   int    `json:"total_timestamps"`
		Hits    int    `json:"hit_count"`
		Results []any  `json:"results"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sum))
	assert.Positive(t, sum.Hits)
	assert.Len(t, sum.Results, sum.Total)

	rec = f.do(http.MethodGet, "/api/runs")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	var runs []db.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&runs))
	require.Len(t, runs, 1)
	assert.Equal(t, sum.RunID, runs[0].RunID)
	assert.Equal(t, "api 2025-12-21", runs[0].Label)

	rec = f.do(http.MethodGet, "/api/runs/"+sum.RunID+"/intervals")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "south_window")

	rec = f.do(http.MethodGet, "/api/history?limit=5")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	rec = f.do(http.MethodGet, "/api/simulate?date=21-12-2025")
	testutil.AssertStatusCode(t, rec, http.StatusBadRequest)
	rec = f.do(http.MethodGet, "/api/simulate?interval=-1h")
	testutil.AssertStatusCode(t, rec, http.StatusBadRequest)
	rec = f.do(http.MethodGet, "/api/simulate?algorithm=suncalc")
	testutil.AssertStatusCode(t, rec, http.StatusBadRequest)
}

func TestHistoryWithoutDB(t *testing.T) {
	f := newFixture(t, false)
	for _, target := range []string{"/api/history", "/api/runs", "/api/runs/x/intervals"} {
		testutil.AssertStatusCode(t, f.do(http.MethodGet, target), http.StatusNotFound)
	}
}

func TestConfigEndpoints(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(http.MethodGet, "/api/config")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	site, err := config.ParseSite(rec.Body.Bytes(), config.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "south_window", site.Openings[0].ID)

	rec = f.do(http.MethodGet, "/api/config?format=yaml")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), "south_window")

	testutil.AssertStatusCode(t, f.do(http.MethodGet, "/api/config/reload"), http.StatusMethodNotAllowed)

	require.NoError(t, os.WriteFile(f.path, []byte("{"), 0o644))
	testutil.AssertStatusCode(t, f.do(http.MethodPost, "/api/config/reload"), http.StatusBadRequest)
	// The previous site is still served.
	testutil.AssertStatusCode(t, f.do(http.MethodGet, "/api/state?azimuth=180&elevation=30"), http.StatusOK)

	require.NoError(t, os.WriteFile(f.path, []byte(testutil.SouthWindowJSON), 0o644))
	rec = f.do(http.MethodPost, "/api/config/reload")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"reloaded"`)
}

func TestCharts(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(http.MethodGet, "/charts/day?date=2025-06-21")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<html")

	rec = f.do(http.MethodGet, "/charts/plan.png?azimuth=180&elevation=30")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	_, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	assert.NoError(t, err)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(http.MethodGet, "/healthz")
	testutil.AssertStatusCode(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestLoggingMiddleware(t *testing.T) {
	handler := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, statusCodeColor(404), "404")
}
