package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/neuroviz/internal/scene"
)

// ExportData is the JSON form of a recording with its frames.
type ExportData struct {
	Recording Recording     `json:"recording"`
	Frames    []scene.Frame `json:"frames"`
}

// WriteJSON encodes a recording and its frames to w.
func WriteJSON(w io.Writer, rec Recording, frames []scene.Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Recording: rec, Frames: frames})
}

// ExportJSON writes a recording and its frames to path, or to stdout when
// path is "-".
func ExportJSON(path string, rec Recording, frames []scene.Frame) error {
	if path == "-" {
		return WriteJSON(os.Stdout, rec, frames)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, rec, frames)
}
