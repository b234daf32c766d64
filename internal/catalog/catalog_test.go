package catalog

import (
	"errors"
	"testing"

	"github.com/san-kum/oceansim/internal/dynamo"
)

func TestRegistry_ListOrder(t *testing.T) {
	r := NewRegistry()
	want := []dynamo.ModelID{
		dynamo.PlasticDispersal, dynamo.OilSpill, dynamo.FoodChain, dynamo.CoralBleaching, dynamo.Cleanup,
	}
	got := r.IDs()
	if len(got) != len(want) {
		t.Fatalf("expected %d models, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("model %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	m, err := r.Get(dynamo.OilSpill)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if m.Title == "" || m.NominalDuration <= 0 {
		t.Errorf("incomplete model metadata: %+v", m)
	}

	_, err = r.Get("tsunami")
	if !errors.Is(err, dynamo.ErrModelNotFound) {
		t.Errorf("expected ErrModelNotFound, got %v", err)
	}
}

func TestModels_DefaultsInRange(t *testing.T) {
	for _, m := range NewRegistry().List() {
		if len(m.Parameters()) == 0 {
			t.Errorf("%s has no parameters", m.ID)
		}
		for _, p := range m.Parameters() {
			if !p.Accepts(p.Value) {
				t.Errorf("%s.%s default %v outside [%v, %v]", m.ID, p.ID, p.Value, p.Min, p.Max)
			}
			if p.Description == "" || p.ImpactNote == "" {
				t.Errorf("%s.%s missing description or impact note", m.ID, p.ID)
			}
		}
	}
}

func TestModel_ParametersIsCopy(t *testing.T) {
	m, _ := NewRegistry().Get(dynamo.CoralBleaching)
	ps := m.Parameters()
	ps[0].Value = -1
	if m.Parameters()[0].Value == -1 {
		t.Error("Parameters must return a copy")
	}
}

func TestSummaries(t *testing.T) {
	s := Default().Summaries()
	if len(s) != 5 {
		t.Fatalf("expected 5 summaries, got %d", len(s))
	}
	if s[0].ID != dynamo.PlasticDispersal || s[0].Title == "" {
		t.Errorf("unexpected first summary %+v", s[0])
	}
}
