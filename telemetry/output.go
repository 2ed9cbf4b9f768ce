package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/threads/config"
)

// OutputManager writes frame and perf records as CSV into a run directory.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	frameFile *os.File
	perfFile  *os.File

	// Track if headers have been written
	frameHeaderWritten bool
	perfHeaderWritten  bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating frames.csv: %w", err)
	}
	om.frameFile = f

	f, err = os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		om.frameFile.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}
	om.perfFile = f

	return om, nil
}

// Dir returns the output directory.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteFrame appends a frame stats record to frames.csv.
func (om *OutputManager) WriteFrame(stats FrameStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.frameFile, []FrameStats{stats}, &om.frameHeaderWritten); err != nil {
		return fmt.Errorf("writing frame stats: %w", err)
	}
	return nil
}

// WritePerf appends a performance record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int64) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.perfFile, []PerfStatsCSV{stats.ToCSV(frame)}, &om.perfHeaderWritten); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// writeRecords marshals records, emitting the header only on the first write.
func writeRecords(f *os.File, records any, headerWritten *bool) error {
	if *headerWritten {
		return gocsv.MarshalWithoutHeaders(records, f)
	}
	if err := gocsv.Marshal(records, f); err != nil {
		return err
	}
	*headerWritten = true
	return nil
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.frameFile.Close(), om.perfFile.Close())
}
