package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/oceansim/internal/dynamo"
)

func sampleRun() Run {
	return Run{
		RunMetadata: RunMetadata{
			Model:    dynamo.OilSpill,
			Seed:     42,
			Dt:       0.5,
			Duration: 1.5,
			Speed:    1,
			Ticks:    3,
			Params:   map[string]float64{"viscosity": 0.5},
			Metrics:  map[string]float64{"population": 90},
		},
		Series: map[string][]float64{
			"population": {100, 95, 90},
			"mean_speed": {3.5, 2.25},
		},
	}
}

func fixedStore(t *testing.T) *Store {
	t.Helper()
	st := New(t.TempDir())
	st.now = func() time.Time { return time.Unix(1700000000, 0) }
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := fixedStore(t)

	runID, err := st.Save(sampleRun())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "oil_spill_1700000000" {
		t.Errorf("run id = %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != dynamo.OilSpill || meta.Seed != 42 || meta.ID != runID {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Metrics["population"] != 90 || meta.Params["viscosity"] != 0.5 {
		t.Errorf("maps = %v %v", meta.Metrics, meta.Params)
	}

	series, times, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(times) != 3 || times[0] != 0.5 || times[2] != 1.5 {
		t.Errorf("times = %v", times)
	}
	if got := series["population"]; len(got) != 3 || got[2] != 90 {
		t.Errorf("population = %v", got)
	}
	if got := series["mean_speed"]; len(got) != 2 || got[1] != 2.25 {
		t.Errorf("mean_speed = %v", got)
	}
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := fixedStore(t)
	a, err := st.Save(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("both runs saved as %q", a)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(sampleRun()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(st.baseDir, "stray.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(st.baseDir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	st := fixedStore(t)
	runID, err := st.Save(sampleRun())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "series.csv"} {
		if _, err := os.Stat(filepath.Join(st.baseDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := fixedStore(t)
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: %v", err)
	}
	if _, _, err := st.LoadSeries("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSeries: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := fixedStore(t)
	runID, err := st.Save(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	run, err := st.Get(runID)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, run); err != nil {
		t.Fatal(err)
	}
	var back Run
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if back.ID != runID || len(back.Series["population"]) != 3 {
		t.Errorf("round trip lost data: %+v", back)
	}
}
