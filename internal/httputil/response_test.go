package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestWriteJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSONError(rec, http.StatusBadRequest, "bad azimuth")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "bad azimuth" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	MethodNotAllowed(rec, http.MethodGet)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodGet {
		t.Errorf("Allow = %q", got)
	}
}

func TestQueryHelpers(t *testing.T) {
	q := url.Values{
		"az":       {"180.5"},
		"bad":      {"x"},
		"limit":    {"20"},
		"zero":     {"0"},
		"interval": {"15m"},
		"negative": {"-1m"},
	}

	if v, err := QueryFloat(q, "az"); err != nil || v != 180.5 {
		t.Errorf("QueryFloat(az) = %v, %v", v, err)
	}
	if _, err := QueryFloat(q, "missing"); err == nil {
		t.Error("QueryFloat(missing) should fail")
	}
	if _, err := QueryFloat(q, "bad"); err == nil {
		t.Error("QueryFloat(bad) should fail")
	}

	if v, err := QueryInt(q, "limit", 5); err != nil || v != 20 {
		t.Errorf("QueryInt(limit) = %v, %v", v, err)
	}
	if v, err := QueryInt(q, "missing", 5); err != nil || v != 5 {
		t.Errorf("QueryInt(missing) = %v, %v", v, err)
	}
	if _, err := QueryInt(q, "zero", 5); err == nil {
		t.Error("QueryInt(zero) should fail")
	}

	if v, err := QueryDuration(q, "interval", time.Hour); err != nil || v != 15*time.Minute {
		t.Errorf("QueryDuration(interval) = %v, %v", v, err)
	}
	if v, err := QueryDuration(q, "missing", time.Hour); err != nil || v != time.Hour {
		t.Errorf("QueryDuration(missing) = %v, %v", v, err)
	}
	if _, err := QueryDuration(q, "negative", time.Hour); err == nil {
		t.Error("QueryDuration(negative) should fail")
	}
}
