package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/testutil"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		args           []string
		wantFlags      []string
		wantPositional []string
	}{
		{[]string{"180", "45"}, nil, []string{"180", "45"}},
		{[]string{"180", "-5", "--json"}, []string{"--json"}, []string{"180", "-5"}},
		{[]string{"--config", "site.yaml", "90", "10"}, []string{"--config", "site.yaml"}, []string{"90", "10"}},
		{[]string{"--config=site.json", "--json"}, []string{"--config=site.json", "--json"}, nil},
	}
	for _, tt := range tests {
		flags, positional := splitArgs(tt.args)
		if strings.Join(flags, " ") != strings.Join(tt.wantFlags, " ") {
			t.Errorf("splitArgs(%v) flags = %v, want %v", tt.args, flags, tt.wantFlags)
		}
		if strings.Join(positional, " ") != strings.Join(tt.wantPositional, " ") {
			t.Errorf("splitArgs(%v) positional = %v, want %v", tt.args, positional, tt.wantPositional)
		}
	}
}

func runCmd(args ...string) (stdout, stderr string) {
	var out, errOut bytes.Buffer
	run(args, &out, &errOut)
	return strings.TrimSpace(out.String()), errOut.String()
}

func TestOnOff(t *testing.T) {
	path := testutil.WriteSiteFile(t)

	if out, _ := runCmd("180", "30", "--config", path); out != "on" {
		t.Errorf("south sun = %q, want on", out)
	}
	if out, _ := runCmd("0", "30", "--config", path); out != "off" {
		t.Errorf("north sun = %q, want off", out)
	}
	if out, _ := runCmd("180", "-5", path); out != "off" {
		t.Errorf("below horizon = %q, want off", out)
	}
}

func TestJSONDetails(t *testing.T) {
	path := testutil.WriteSiteFile(t)

	out, _ := runCmd("--json", "--config", path, "180", "30")
	var d struct {
		IsHit    bool    `json:"is_hit"`
		WindowID *string `json:"window_id"`
		State    string  `json:"state"`
	}
	if err := json.Unmarshal([]byte(out), &d); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if !d.IsHit || d.WindowID == nil || *d.WindowID != "south_window" || d.State != "direct_sun" {
		t.Errorf("unexpected details: %s", out)
	}
}

func TestErrorsPrintOff(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	out, errOut := runCmd("180", "30", "--config", missing)
	if out != "off" {
		t.Errorf("missing config = %q, want off", out)
	}
	if !strings.Contains(errOut, "Error:") {
		t.Errorf("stderr = %q, want an error message", errOut)
	}

	out, _ = runCmd("--json", "--config", missing)
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if body["is_hit"] != false || body["error"] == "" {
		t.Errorf("unexpected error body: %v", body)
	}

	if out, _ := runCmd("180"); out != "off" {
		t.Errorf("single angle = %q, want off", out)
	}
}
