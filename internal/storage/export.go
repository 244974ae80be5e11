package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	R0s   []float64 `json:"r0s"`
	Peaks []float64 `json:"peaks"`
}

// ExportJSON writes a run's metadata and per-trial values as one document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	r0s, peaks, err := s.LoadPeaks(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: *meta, R0s: r0s, Peaks: peaks})
}
