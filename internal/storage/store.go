package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/epipeak/internal/config"
	"github.com/san-kum/epipeak/internal/montecarlo"
	"github.com/san-kum/epipeak/internal/stats"
)

var (
	ErrRunNotFound  = errors.New("storage: run not found")
	ErrInvalidRunID = errors.New("storage: invalid run id")
)

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
	ID        string            `json:"id"`
	Scenario  string            `json:"scenario"`
	Timestamp time.Time         `json:"timestamp"`
	Seed      uint64            `json:"seed"`
	Workers   int               `json:"workers"`
	Elapsed   time.Duration     `json:"elapsed_ns"`
	Params    montecarlo.Params `json:"params"`
	Summary   stats.Summary     `json:"summary"`
}

// Save writes metadata.json and peaks.csv under a fresh run directory and
// returns the run id.
func (s *Store) Save(cfg *config.Config, result *montecarlo.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", runName(cfg.Name), now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  cfg.Name,
		Timestamp: now,
		Seed:      cfg.Seed,
		Workers:   cfg.Workers,
		Elapsed:   result.Elapsed,
		Params:    cfg.Params(),
		Summary:   result.Summary,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "peaks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"trial", "r0", "peak"}); err != nil {
		return "", err
	}
	for i := range result.Peaks {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(result.R0s[i], 'g', -1, 64),
			strconv.FormatFloat(result.Peaks[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadPeaks returns the per-trial effective R0 and peak columns.
func (s *Store) LoadPeaks(runID string) (r0s, peaks []float64, err error) {
	if err := checkRunID(runID); err != nil {
		return nil, nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, "peaks.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	r0s = make([]float64, 0, len(records)-1)
	peaks = make([]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		r0, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		peak, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		r0s = append(r0s, r0)
		peaks = append(peaks, peak)
	}

	return r0s, peaks, nil
}

// runName maps a scenario name onto a single safe path component.
func runName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if safe == "" {
		return "run"
	}
	return safe
}

// checkRunID rejects ids that would resolve outside the store.
func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." ||
		strings.ContainsAny(runID, `/\`) || filepath.Base(runID) != runID {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}
