package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/neuroviz/internal/netmodel"
	"github.com/san-kum/neuroviz/internal/scene"
)

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	net, err := netmodel.New([]netmodel.LayerConfig{
		{Name: "In", NeuronCount: 3, Color: "#00FF88"},
		{Name: "Out", NeuronCount: 2, Color: "#FF00FF"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return scene.New(net, scene.DefaultOptions())
}

func TestCapture(t *testing.T) {
	sc := testScene(t)
	frames, err := Capture(sc, 4, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	if frames[0].Phase != 0 {
		t.Errorf("first frame should be at phase 0, got %v", frames[0].Phase)
	}
	if frames[1].Phase != 0.25 {
		t.Errorf("expected phase 0.25, got %v", frames[1].Phase)
	}
	if sc.Mounted() {
		t.Error("capture should leave an unmounted scene unmounted")
	}
}

func TestCapture_KeepsMountedScene(t *testing.T) {
	sc := testScene(t)
	sc.Mount()
	if _, err := Capture(sc, 2, 0.1); err != nil {
		t.Fatal(err)
	}
	if !sc.Mounted() {
		t.Error("capture unmounted a scene it did not mount")
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sc := testScene(t)
	frames, err := Capture(sc, 3, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := st.Save("test", sc, frames, 0.1)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected non-empty recording id")
	}

	loaded, err := st.Load(rec.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Name != "test" || loaded.Frames != 3 || loaded.Neurons != 5 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Connections != sc.Stats().Connections {
		t.Errorf("expected %d connections, got %d", sc.Stats().Connections, loaded.Connections)
	}

	samples, err := st.LoadParticles(rec.ID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if want := 3 * loaded.Connections; len(samples) != want {
		t.Fatalf("expected %d samples, got %d", want, len(samples))
	}
	last := samples[len(samples)-1]
	if last.Frame != 2 || last.Time != 0.2 {
		t.Errorf("unexpected last sample %+v", last)
	}
}

func TestStoreSave_NoFrames(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save("x", testScene(t), nil, 0.1); err != ErrNoFrames {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	recs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected 0 recordings, got %d", len(recs))
	}

	st = New(t.TempDir())
	sc := testScene(t)
	frames, _ := Capture(sc, 1, 0.1)
	for i := 0; i < 2; i++ {
		if _, err := st.Save("run", sc, frames, 0.1); err != nil {
			t.Fatal(err)
		}
	}
	recs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("expected 2 recordings, got %d", len(recs))
	}
	if recs[0].ID == recs[1].ID {
		t.Error("recording ids collide")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	sc := testScene(t)
	frames, _ := Capture(sc, 1, 0.1)
	rec, err := st.Save("run", sc, frames, 0.1)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"metadata.json", "neurons.csv", "particles.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, rec.ID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	sc := testScene(t)
	frames, _ := Capture(sc, 2, 0.1)
	var buf bytes.Buffer
	if err := WriteJSON(&buf, Recording{ID: "abc", Frames: 2}, frames); err != nil {
		t.Fatal(err)
	}
	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Recording.ID != "abc" || len(out.Frames) != 2 {
		t.Errorf("unexpected export %+v", out.Recording)
	}
	if len(out.Frames[1].Neurons) != 5 {
		t.Errorf("expected 5 neurons, got %d", len(out.Frames[1].Neurons))
	}
}
