package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ebeyhan/tubesim/internal/billiard"
	"github.com/ebeyhan/tubesim/internal/config"
)

var csvHeader = []string{"collision", "time", "x", "z", "vx", "vz", "stamp"}

// Store manages dataset directories under one base dir. Each dataset is
// a directory <name>_<id> holding metadata.json and records.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Metadata describes one stored dataset. Config is the full run
// configuration, kept verbatim so a dataset can be reproduced.
type Metadata struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Created    time.Time     `json:"created"`
	Config     config.Config `json:"config"`
	Runs       int           `json:"runs"`
	Failed     int           `json:"failed"`
	Collisions int           `json:"collisions"`
	WallTime   float64       `json:"wall_time_seconds"`
}

// Writer appends finished runs to a dataset. It serializes concurrent
// WriteRun calls, so ensemble workers can share one Writer directly.
type Writer struct {
	mu         sync.Mutex
	id         string
	name       string
	dir        string
	cfg        config.Config
	created    time.Time
	file       *os.File
	csv        *csv.Writer
	runs       int
	collisions int
}

// Create opens a new dataset named <name>_<short id> and returns its
// Writer with the CSV header already in place.
func (s *Store) Create(name string, cfg *config.Config) (*Writer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	id := fmt.Sprintf("%s_%s", name, uuid.New().String()[:8])
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, "records.csv"))
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}

	return &Writer{
		id:      id,
		name:    name,
		dir:     dir,
		cfg:     *cfg,
		created: time.Now(),
		file:    f,
		csv:     w,
	}, nil
}

func (w *Writer) ID() string  { return w.id }
func (w *Writer) Dir() string { return w.dir }

// WriteRun appends one run's records. Floats are written in the shortest
// form that parses back to the identical bit pattern, so a loaded dataset
// replays exactly.
func (w *Writer) WriteRun(run int, recs []billiard.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range recs {
		row := []string{
			strconv.Itoa(r.Collision),
			strconv.FormatFloat(r.Time, 'g', -1, 64),
			strconv.FormatFloat(r.X, 'g', -1, 64),
			strconv.FormatFloat(r.Z, 'g', -1, 64),
			strconv.FormatFloat(r.VX, 'g', -1, 64),
			strconv.FormatFloat(r.VZ, 'g', -1, 64),
			r.Stamp.Format(time.RFC3339Nano),
		}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}

	w.runs++
	if n := len(recs); n > 0 {
		w.collisions += recs[n-1].Collision
	}
	return nil
}

// Finalize closes the record file and writes metadata.json. failed is the
// number of ensemble runs that produced no records; wallTime is the
// real-time cost of the whole ensemble.
func (w *Writer) Finalize(failed int, wallTime time.Duration) (*Metadata, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return nil, err
	}
	if err := w.file.Close(); err != nil {
		return nil, err
	}

	meta := &Metadata{
		ID:         w.id,
		Name:       w.name,
		Created:    w.created,
		Config:     w.cfg,
		Runs:       w.runs,
		Failed:     failed,
		Collisions: w.collisions,
		WallTime:   wallTime.Seconds(),
	}

	f, err := os.Create(filepath.Join(w.dir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// List returns the metadata of every dataset under the base dir.
// Directories without a readable metadata.json are skipped.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	sets := make([]Metadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		sets = append(sets, meta)
	}
	return sets, nil
}

func (s *Store) Load(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadDataset reads a dataset's records into the columnar form. Parsing
// is strict: a malformed row is an error, not a silent skip, because
// replay and analysis depend on exact values.
func (s *Store) LoadDataset(id string) (*Dataset, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "records.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset %s: empty records file", id)
	}

	ds := &Dataset{}
	for i, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("dataset %s: row %d has %d fields", id, i+1, len(row))
		}
		collision, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("dataset %s: row %d: %w", id, i+1, err)
		}
		vals := make([]float64, 5)
		for j := 0; j < 5; j++ {
			vals[j], err = strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s: row %d: %w", id, i+1, err)
			}
		}
		stamp, err := time.Parse(time.RFC3339Nano, row[6])
		if err != nil {
			return nil, fmt.Errorf("dataset %s: row %d: %w", id, i+1, err)
		}

		ds.Collision = append(ds.Collision, collision)
		ds.Time = append(ds.Time, vals[0])
		ds.X = append(ds.X, vals[1])
		ds.Z = append(ds.Z, vals[2])
		ds.VX = append(ds.VX, vals[3])
		ds.VZ = append(ds.VZ, vals[4])
		ds.Stamp = append(ds.Stamp, stamp)
	}
	return ds, nil
}
