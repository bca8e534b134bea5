// Package api serves the sunlight sensor over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/charts"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/config"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/db"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/httputil"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/service"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/simulate"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/solar"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/timeutil"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/units"
	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/version"
)

// ANSI escape codes used by LoggingMiddleware.
const (
	colorCyan      = "\033[36m"
	colorReset     = "\033[0m"
	colorYellow    = "\033[33m"
	colorBoldGreen = "\033[1;32m"
	colorBoldRed   = "\033[1;31m"
)

type Server struct {
	sensor *service.Sensor
	// db is optional; history endpoints report 404 without it.
	db *db.DB
}

func NewServer(sensor *service.Sensor, store *db.DB) *Server {
	return &Server{sensor: sensor, db: store}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("/api/sunlight", s.sunlight)
	mux.HandleFunc("/api/sunlight/now", s.sunlightNow)
	mux.HandleFunc("/api/state", s.state)
	mux.HandleFunc("/api/sun", s.sunPosition)
	mux.HandleFunc("/api/simulate", s.simulateDay)
	mux.HandleFunc("/api/history", s.history)
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/runs/{id}/intervals", s.runIntervals)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/api/config/reload", s.reloadConfig)
	mux.HandleFunc("/charts/day", s.dayChart)
	mux.HandleFunc("/charts/plan.png", s.floorPlan)
	return mux
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		httputil.MethodNotAllowed(w, http.MethodGet)
		return false
	}
	return true
}

// writeSiteError maps configuration and location failures to a status.
func writeSiteError(w http.ResponseWriter, err error) {
	if errors.Is(err, config.ErrNoLocation) {
		httputil.WriteJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
}

// angles reads azimuth and elevation from the query. When both are absent
// the current sun position is used.
func (s *Server) angles(r *http.Request) (az, el float64, err error) {
	q := r.URL.Query()
	if q.Get("azimuth") == "" && q.Get("elevation") == "" {
		pos, err := s.sensor.Now()
		if err != nil {
			return 0, 0, err
		}
		return pos.AzimuthDeg, pos.ElevationDeg, nil
	}
	if az, err = httputil.QueryFloat(q, "azimuth"); err != nil {
		return 0, 0, badRequest{err}
	}
	if el, err = httputil.QueryFloat(q, "elevation"); err != nil {
		return 0, 0, badRequest{err}
	}
	return az, el, nil
}

// badRequest marks an error caused by the request's parameters.
type badRequest struct{ error }

func writeError(w http.ResponseWriter, err error) {
	var br badRequest
	if errors.As(err, &br) {
		httputil.WriteJSONError(w, http.StatusBadRequest, br.Error())
		return
	}
	writeSiteError(w, err)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.String()})
}

// sunlight returns the sensor details for the given angles. With
// detail=1 it returns the per-point, per-window trace instead.
func (s *Server) sunlight(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	az, el, err := s.angles(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("detail") != "" {
		site, err := s.sensor.Site()
		if err != nil {
			writeSiteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, site.Detail(az, el))
		return
	}
	d, err := s.sensor.Details(az, el)
	if err != nil {
		writeSiteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (s *Server) sunlightNow(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	d, err := s.sensor.DetailsNow()
	if err != nil {
		writeSiteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

// state answers in plain text: "on" or "off", or the sensor state word
// with format=state.
func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	az, el, err := s.angles(r)
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := s.sensor.State(az, el)
	if err != nil {
		writeSiteError(w, err)
		return
	}
	body := "off"
	switch {
	case r.URL.Query().Get("format") == "state":
		body = string(st)
	case st == service.StateDirectSun:
		body = "on"
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, body)
}

func (s *Server) sunPosition(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	pos, err := s.sensor.Now()
	if err != nil {
		writeSiteError(w, err)
		return
	}
	site, err := s.sensor.Site()
	if err != nil {
		writeSiteError(w, err)
		return
	}
	d := pos.Time
	rise, set, err := solar.SunriseSunset(*site.Location, d.Year(), d.Month(), d.Day(), site.SunAlgorithm)
	if err != nil {
		writeSiteError(w, err)
		return
	}
	out := map[string]interface{}{
		"azimuth_deg":   pos.AzimuthDeg,
		"elevation_deg": pos.ElevationDeg,
		"compass":       units.CompassPoint(pos.AzimuthDeg),
		"timestamp":     pos.Time,
		"above_horizon": pos.AboveHorizon(),
		"sunrise":       nil,
		"sunset":        nil,
	}
	if !rise.IsZero() {
		out["sunrise"] = rise
	}
	if !set.IsZero() {
		out["sunset"] = set
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// runDay resolves the date, interval and algorithm query parameters and
// simulates that day.
func (s *Server) runDay(r *http.Request) ([]solar.Position, *simulate.Summary, error) {
	site, err := s.sensor.Site()
	if err != nil {
		return nil, nil, err
	}
	if site.Location == nil {
		return nil, nil, config.ErrNoLocation
	}
	zone, err := site.Location.Zone()
	if err != nil {
		return nil, nil, err
	}
	q := r.URL.Query()
	date, err := timeutil.ParseDate(q.Get("date"), s.sensor.Clock().Now(), zone)
	if err != nil {
		return nil, nil, badRequest{err}
	}
	day := solar.DefaultDayOptions()
	day.Algorithm = "" // the site's algorithm unless overridden
	if day.Interval, err = httputil.QueryDuration(q, "interval", day.Interval); err != nil {
		return nil, nil, badRequest{err}
	}
	if a := q.Get("algorithm"); a != "" {
		if day.Algorithm, err = solar.ParseAlgorithm(a); err != nil {
			return nil, nil, badRequest{err}
		}
	}
	return simulate.Day(r.Context(), site, date, day, simulate.DefaultOptions())
}

// simulateDay runs a computed day. details=1 includes per-timestamp
// results; save=1 records the run when a database is attached.
func (s *Server) simulateDay(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	_, sum, err := s.runDay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	if q.Get("save") != "" && s.db != nil {
		if err := s.db.RecordRun(sum, "api "+q.Get("date")); err != nil {
			httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	data, err := sum.ToJSON(q.Get("details") != "")
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) requireDB(w http.ResponseWriter) bool {
	if s.db == nil {
		httputil.WriteJSONError(w, http.StatusNotFound, "history store is disabled")
		return false
	}
	return true
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) || !s.requireDB(w) {
		return
	}
	limit, err := httputil.QueryInt(r.URL.Query(), "limit", 100)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	obs, err := s.db.Observations(limit)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve history: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, obs)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) || !s.requireDB(w) {
		return
	}
	limit, err := httputil.QueryInt(r.URL.Query(), "limit", 50)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs, err := s.db.Runs(limit)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, runs)
}

func (s *Server) runIntervals(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) || !s.requireDB(w) {
		return
	}
	ivs, err := s.db.RunIntervals(r.PathValue("id"))
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve intervals: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ivs)
}

// showConfig returns the site in its canonical file shape, as JSON or,
// with format=yaml, YAML.
func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	site, err := s.sensor.Site()
	if err != nil {
		writeSiteError(w, err)
		return
	}
	format, contentType := config.FormatJSON, "application/json"
	if strings.EqualFold(r.URL.Query().Get("format"), "yaml") {
		format, contentType = config.FormatYAML, "application/yaml"
	}
	data, err := config.MarshalSite(site, format)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w, http.MethodPost)
		return
	}
	site, err := s.sensor.Cache().Reload()
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("reload failed, keeping previous configuration: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "reloaded",
		"windows":  len(site.Openings),
		"warnings": site.Warnings,
	})
}

func (s *Server) dayChart(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	ps, sum, err := s.runDay(r)
	if err != nil {
		writeError(w, err)
		return
	}
	points, err := charts.DayPoints(ps, sum.Results)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := charts.DayChart(&buf, "", points); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) floorPlan(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	az, el, err := s.angles(r)
	if err != nil {
		writeError(w, err)
		return
	}
	site, err := s.sensor.Site()
	if err != nil {
		writeSiteError(w, err)
		return
	}
	p, err := charts.FloorPlan(site, az, el)
	if err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var buf bytes.Buffer
	if err := charts.WritePNG(&buf, p, 6*vg.Inch); err != nil {
		httputil.WriteJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render plan: %v", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}
