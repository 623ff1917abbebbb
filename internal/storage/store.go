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
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/neuroviz/internal/scene"
)

const (
	metadataFile  = "metadata.json"
	neuronsFile   = "neurons.csv"
	particlesFile = "particles.csv"
)

var ErrNoFrames = errors.New("storage: no frames to save")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Recording describes a captured run of frames.
type Recording struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Timestamp   time.Time `json:"timestamp"`
	Frames      int       `json:"frames"`
	Dt          float64   `json:"dt"`
	Rate        float64   `json:"rate"`
	EdgeOffset  float64   `json:"edge_offset"`
	Layers      []int     `json:"layers"`
	Neurons     int       `json:"neurons"`
	Connections int       `json:"connections"`
}

// ParticleSample is one row of particles.csv.
type ParticleSample struct {
	Frame    int
	Time     float64
	Phase    float64
	Pair     int
	Edge     int
	Progress float64
	X, Y, Z  float64
}

// Capture mounts sc if needed and ticks it n times, dt seconds apart. The
// first frame is taken at elapsed 0. A scene mounted here is unmounted again
// before returning.
func Capture(sc *scene.Scene, n int, dt float64) ([]scene.Frame, error) {
	if !sc.Mounted() {
		sc.Mount()
		defer sc.Unmount()
	}
	frames := make([]scene.Frame, 0, n)
	for i := 0; i < n; i++ {
		step := dt
		if i == 0 {
			step = 0
		}
		f, err := sc.Tick(step)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Save writes frames captured from sc under a new recording ID.
func (s *Store) Save(name string, sc *scene.Scene, frames []scene.Frame, dt float64) (*Recording, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	st := sc.Stats()
	opts := sc.Options()
	rec := &Recording{
		ID:          uuid.NewString(),
		Name:        name,
		Timestamp:   time.Now(),
		Frames:      len(frames),
		Dt:          dt,
		Rate:        opts.Rate,
		EdgeOffset:  opts.EdgeOffset,
		Layers:      st.PerLayer,
		Neurons:     st.Neurons,
		Connections: st.Connections,
	}

	dir := filepath.Join(s.baseDir, rec.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if err := writeJSON(filepath.Join(dir, metadataFile), rec); err != nil {
		return nil, err
	}
	if err := writeNeurons(filepath.Join(dir, neuronsFile), frames[0]); err != nil {
		return nil, err
	}
	if err := writeParticles(filepath.Join(dir, particlesFile), frames, dt); err != nil {
		return nil, err
	}
	return rec, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func writeNeurons(path string, f scene.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"layer", "neuron", "x", "y", "z", "color"}); err != nil {
		return err
	}
	for _, n := range f.Neurons {
		row := []string{strconv.Itoa(n.ID.Layer), strconv.Itoa(n.ID.Index), ftoa(n.Pos.X), ftoa(n.Pos.Y), ftoa(n.Pos.Z), n.Color}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeParticles(path string, frames []scene.Frame, dt float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"frame", "time", "phase", "pair", "edge", "progress", "x", "y", "z"}); err != nil {
		return err
	}
	for i, f := range frames {
		t := float64(i) * dt
		for _, p := range f.Particles {
			row := []string{
				strconv.Itoa(i), ftoa(t), ftoa(f.Phase),
				strconv.Itoa(p.Pair), strconv.Itoa(p.Edge), ftoa(p.Progress),
				ftoa(p.Pos.X), ftoa(p.Pos.Y), ftoa(p.Pos.Z),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable recording, newest first.
func (s *Store) List() ([]Recording, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Recording{}, nil
		}
		return nil, err
	}

	recs := make([]Recording, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Timestamp.After(recs[j].Timestamp) })
	return recs, nil
}

func (s *Store) Load(id string) (*Recording, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}

	var rec Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) LoadParticles(id string) ([]ParticleSample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, particlesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []ParticleSample{}, nil
	}

	samples := make([]ParticleSample, 0, len(records)-1)
	for i, r := range records[1:] {
		p, err := parseSample(r)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", particlesFile, i+2, err)
		}
		samples = append(samples, p)
	}
	return samples, nil
}

func parseSample(r []string) (ParticleSample, error) {
	var p ParticleSample
	if len(r) != 9 {
		return p, fmt.Errorf("expected 9 fields, got %d", len(r))
	}
	var errs []error
	atoi := func(s string) int {
		v, err := strconv.Atoi(s)
		errs = append(errs, err)
		return v
	}
	atof := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		errs = append(errs, err)
		return v
	}
	p.Frame, p.Time, p.Phase = atoi(r[0]), atof(r[1]), atof(r[2])
	p.Pair, p.Edge, p.Progress = atoi(r[3]), atoi(r[4]), atof(r[5])
	p.X, p.Y, p.Z = atof(r[6]), atof(r[7]), atof(r[8])
	return p, errors.Join(errs...)
}
