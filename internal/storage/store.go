package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pointfield/internal/field"
	"github.com/san-kum/pointfield/internal/metrics"
	"github.com/san-kum/pointfield/internal/popup"
	"github.com/san-kum/pointfield/internal/trace"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var header = []string{"frame", "time", "max_offset", "mean_scale", "hovered", "popup", "dirty_position", "dirty_scale", "dirty_color"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	DtMillis  float64            `json:"dt_ms"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Events    map[string]int     `json:"events"`
}

func (s *Store) Save(preset string, cfg trace.Config, result *trace.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d_%d", preset, result.Seed, now.Unix())
	runDir := filepath.Join(s.baseDir, runID)
	for n := 2; exists(runDir); n++ {
		runID = fmt.Sprintf("%s_%d_%d_%d", preset, result.Seed, now.Unix(), n)
		runDir = filepath.Join(s.baseDir, runID)
	}

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Seed:      result.Seed,
		Frames:    len(result.Samples),
		DtMillis:  float64(cfg.Dt) / float64(time.Millisecond),
		Duration:  result.Duration.Seconds(),
		Steps:     len(cfg.Script),
		Metrics:   result.Metrics,
		Events:    result.Events,
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, smp := range result.Samples {
		if err := w.Write(row(smp)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func row(s metrics.Sample) []string {
	return []string{
		strconv.FormatUint(s.Frame, 10),
		strconv.FormatFloat(s.Time, 'f', 6, 64),
		strconv.FormatFloat(s.MaxOffset, 'f', 6, 64),
		strconv.FormatFloat(s.MeanScale, 'f', 6, 64),
		strconv.Itoa(s.Hovered),
		strconv.Itoa(int(s.Popup)),
		strconv.FormatBool(s.Dirty.Position),
		strconv.FormatBool(s.Dirty.Scale),
		strconv.FormatBool(s.Dirty.Color),
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// List returns the saved runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]metrics.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []metrics.Sample{}, nil
	}

	samples := make([]metrics.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(header) {
			continue
		}
		smp, err := parseRow(record)
		if err != nil {
			continue
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseRow(rec []string) (metrics.Sample, error) {
	var s metrics.Sample
	var err error
	fail := func(e error) {
		if err == nil {
			err = e
		}
	}

	frame, e := strconv.ParseUint(rec[0], 10, 64)
	fail(e)
	s.Frame = frame
	s.Time, e = strconv.ParseFloat(rec[1], 64)
	fail(e)
	s.MaxOffset, e = strconv.ParseFloat(rec[2], 64)
	fail(e)
	s.MeanScale, e = strconv.ParseFloat(rec[3], 64)
	fail(e)
	s.Hovered, e = strconv.Atoi(rec[4])
	fail(e)
	phase, e := strconv.Atoi(rec[5])
	fail(e)
	s.Popup = popup.Phase(phase)

	var d field.Dirty
	d.Position, e = strconv.ParseBool(rec[6])
	fail(e)
	d.Scale, e = strconv.ParseBool(rec[7])
	fail(e)
	d.Color, e = strconv.ParseBool(rec[8])
	fail(e)
	s.Dirty = d

	return s, err
}

// Result rebuilds a trace result from a saved run, for plotting.
func (s *Store) Result(runID string) (*RunMetadata, *trace.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := s.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, &trace.Result{
		Seed:     meta.Seed,
		Samples:  samples,
		Metrics:  meta.Metrics,
		Events:   meta.Events,
		Duration: time.Duration(math.Round(meta.Duration * float64(time.Second))),
	}, nil
}
