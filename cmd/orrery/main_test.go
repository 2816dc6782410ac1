package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/litescript/ls-orrery/internal/sim"
	"github.com/litescript/ls-orrery/internal/version"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version.Version) {
		t.Errorf("output = %q", out)
	}
}

func TestBodiesTable(t *testing.T) {
	out, err := run(t, "bodies", "--stars", "0")
	if err != nil {
		t.Fatalf("bodies: %v", err)
	}
	for _, name := range []string{"Sun", "Mercury", "Saturn", "Pluto"} {
		if !strings.Contains(out, name) {
			t.Errorf("table missing %s", name)
		}
	}
}

func TestBodiesJSON(t *testing.T) {
	out, err := run(t, "bodies", "--json", "--stars", "0")
	if err != nil {
		t.Fatalf("bodies --json: %v", err)
	}
	var export sim.StateExport
	if err := json.Unmarshal([]byte(out), &export); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(export.Bodies) != 10 {
		t.Errorf("bodies = %d, want 10", len(export.Bodies))
	}
}

func TestSnapshotPlain(t *testing.T) {
	out, err := run(t, "snapshot", "--width", "40", "--height", "12", "--plain", "--stars", "0")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Errorf("snapshot has %d lines, want 12", len(lines))
	}
}

func TestSimulateAdvancesScene(t *testing.T) {
	out, err := run(t, "simulate", "--frames", "100", "--json", "--stars", "0")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var export sim.StateExport
	if err := json.Unmarshal([]byte(out), &export); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if export.Ticks != 100 || export.Frame != 100 {
		t.Errorf("ticks=%d frame=%d, want 100", export.Ticks, export.Frame)
	}
	for _, b := range export.Bodies {
		if b.Name == "Earth" && math.Abs(b.OrbitAngle-1.0) > 1e-6 {
			t.Errorf("Earth orbit angle = %v, want 1.0", b.OrbitAngle)
		}
	}
}

func TestSimulateFocusAndDismiss(t *testing.T) {
	out, err := run(t, "simulate", "--frames", "20", "--focus", "saturn", "--dismiss-at", "10", "--json", "--stars", "0")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var export sim.StateExport
	if err := json.Unmarshal([]byte(out), &export); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(export.Events) < 2 {
		t.Fatalf("events = %+v", export.Events)
	}
	if e := export.Events[0]; e.Type != sim.EventFocus || e.Body != "Saturn" {
		t.Errorf("first event = %+v", e)
	}
	if e := export.Events[1]; e.Type != sim.EventDismiss || e.Frame != 10 {
		t.Errorf("second event = %+v", e)
	}
	if export.Focused != "" {
		t.Errorf("still focused on %s", export.Focused)
	}
}

func TestSimulateSummary(t *testing.T) {
	out, err := run(t, "simulate", "--frames", "5", "--focus", "Mars", "--stars", "0")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	for _, want := range []string{"Frame 5", "focused on Mars", "Events:", "FOCUS Mars"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownBody(t *testing.T) {
	_, err := run(t, "simulate", "--focus", "Vulcan", "--stars", "0")
	if err == nil || !strings.Contains(err.Error(), "unknown body") {
		t.Errorf("err = %v", err)
	}
}

func TestNegativeFrames(t *testing.T) {
	tests := [][]string{
		{"simulate", "--frames", "-1"},
		{"snapshot", "--frames", "-5", "--width", "40", "--height", "10", "--plain"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			_, err := run(t, args...)
			if err == nil || !strings.Contains(err.Error(), "must not be negative") {
				t.Errorf("%v: err = %v", args, err)
			}
		})
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("ORRERY_LABELS", "sometimes")
	if _, err := run(t, "simulate", "--frames", "1", "--stars", "0"); err == nil {
		t.Error("invalid ORRERY_LABELS accepted")
	}
	if _, err := run(t, "simulate", "--frames", "1", "--stars", "0", "--labels", "focused"); err != nil {
		t.Errorf("--labels should override the environment: %v", err)
	}
	if _, err := run(t, "simulate", "--labels", "bogus"); err == nil {
		t.Error("invalid --labels accepted")
	}
}

func TestMissingEnvFile(t *testing.T) {
	if _, err := run(t, "bodies", "--env-file", "does-not-exist.env"); err == nil {
		t.Error("explicit missing env file accepted")
	}
}

func TestSnapshotSize(t *testing.T) {
	if w, h := snapshotSize(30, 9); w != 30 || h != 9 {
		t.Errorf("explicit size = %dx%d", w, h)
	}
	if w, h := snapshotSize(0, 0); w <= 0 || h <= 0 {
		t.Errorf("default size = %dx%d", w, h)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
