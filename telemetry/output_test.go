package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/threads/config"
)

func TestOutputManager_DisabledIsNil(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// All methods must be safe on nil
	if err := om.WriteFrame(FrameStats{}); err != nil {
		t.Errorf("WriteFrame on nil: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("WritePerf on nil: %v", err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Errorf("WriteConfig on nil: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("Dir on nil = %q", om.Dir())
	}
}

func TestOutputManager_WritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int64(0); i < 3; i++ {
		if err := om.WriteFrame(FrameStats{Frame: i, Threads: 4}); err != nil {
			t.Fatalf("WriteFrame: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{AvgStep: time.Millisecond}, 30); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Defaults()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatalf("reading frames.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("frames.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "frame,threads,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "kinetic_energy") != 1 {
		t.Error("header written more than once")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if !strings.Contains(string(perf), "avg_step_us") || !strings.Contains(string(perf), "30,1000,") {
		t.Errorf("unexpected perf.csv contents:\n%s", perf)
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}
