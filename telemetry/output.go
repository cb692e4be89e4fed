package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/qsoup/config"
)

// SpeciesRow is one row of species.csv: a species count at a window end.
type SpeciesRow struct {
	WindowEnd int32   `csv:"window_end"`
	SimTime   float64 `csv:"sim_time"`
	Species   string  `csv:"species"`
	Count     int     `csv:"count"`
}

// csvFile is an output CSV that writes its header with the first batch.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func openCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

func writeRows[T any](c *csvFile, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if !c.headerWritten {
		if err := gocsv.Marshal(rows, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, c.f)
}

// OutputManager handles structured experiment output with CSV logging.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	perf      *csvFile
	bookmarks *csvFile
	species   *csvFile
	deaths    *csvFile

	population []PopulationPoint
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
	files := []struct {
		dst  **csvFile
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.perf, "perf.csv"},
		{&om.bookmarks, "bookmarks.csv"},
		{&om.species, "species.csv"},
		{&om.deaths, "deaths.csv"},
	}
	for _, spec := range files {
		c, err := openCSV(dir, spec.name)
		if err != nil {
			om.closeFiles()
			return nil, err
		}
		*spec.dst = c
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv and its species
// breakdown to species.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.telemetry, []WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}

	rows := make([]SpeciesRow, 0, len(stats.Species))
	for _, label := range SortedSpecies(stats.Species) {
		rows = append(rows, SpeciesRow{
			WindowEnd: stats.WindowEndTick,
			SimTime:   stats.SimTimeSec,
			Species:   label,
			Count:     stats.Species[label],
		})
	}
	if err := writeRows(om.species, rows); err != nil {
		return fmt.Errorf("writing species: %w", err)
	}

	om.population = append(om.population, PopulationPoint{
		SimTime:   stats.SimTimeSec,
		Creatures: stats.Creatures,
		Plants:    stats.Plants,
		MaxGen:    stats.GenerationMax,
	})
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.perf, []PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.bookmarks, []Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteDeaths appends death records to deaths.csv.
func (om *OutputManager) WriteDeaths(records []DeathRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.deaths, records); err != nil {
		return fmt.Errorf("writing deaths: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close renders population.png and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	chartErr := WritePopulationChart(filepath.Join(om.dir, "population.png"), om.population)
	if err := om.closeFiles(); err != nil {
		return err
	}
	return chartErr
}

func (om *OutputManager) closeFiles() error {
	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.bookmarks, om.species, om.deaths} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
