package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

type exportData struct {
	Metadata  *Metadata `json:"metadata"`
	Collision []int     `json:"collision"`
	Time      []float64 `json:"time"`
	X         []float64 `json:"x"`
	Z         []float64 `json:"z"`
	VX        []float64 `json:"vx"`
	VZ        []float64 `json:"vz"`
}

// ExportJSON writes a dataset as one JSON document of parallel arrays,
// the layout numeric tooling ingests directly.
func ExportJSON(w io.Writer, meta *Metadata, ds *Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData{
		Metadata:  meta,
		Collision: ds.Collision,
		Time:      ds.Time,
		X:         ds.X,
		Z:         ds.Z,
		VX:        ds.VX,
		VZ:        ds.VZ,
	})
}

// ExportCSV streams a dataset's raw record file.
func (s *Store) ExportCSV(w io.Writer, id string) error {
	f, err := os.Open(filepath.Join(s.baseDir, id, "records.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
