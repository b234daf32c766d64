package catalog

import (
	"github.com/san-kum/oceansim/internal/dynamo"
)

// SimulationModel is one scenario as listed to the user. It is immutable
// once registered.
type SimulationModel struct {
	ID              dynamo.ModelID
	Title           string
	Description     string
	NominalDuration float64 // seconds
	ScientificNote  string
	params          []dynamo.Parameter
}

// Parameters returns a copy of the model's parameters at their defaults.
func (m *SimulationModel) Parameters() []dynamo.Parameter {
	out := make([]dynamo.Parameter, len(m.params))
	copy(out, m.params)
	return out
}

// Defaults returns the model's parameters as a fresh set.
func (m *SimulationModel) Defaults() *dynamo.ParameterSet {
	s, err := dynamo.NewParameterSet(m.params)
	if err != nil {
		// definitions are checked in NewRegistry
		panic(err)
	}
	return s
}

// Summary is the {id, title} pair a selection list needs.
type Summary struct {
	ID    dynamo.ModelID
	Title string
}

type Registry struct {
	models map[dynamo.ModelID]*SimulationModel
	order  []dynamo.ModelID
}

// NewRegistry returns a registry holding the built-in models.
func NewRegistry() *Registry {
	r := &Registry{models: make(map[dynamo.ModelID]*SimulationModel)}
	for _, m := range builtinModels() {
		if _, err := dynamo.NewParameterSet(m.params); err != nil {
			panic("catalog: " + string(m.ID) + ": " + err.Error())
		}
		r.models[m.ID] = m
		r.order = append(r.order, m.ID)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the shared built-in registry.
func Default() *Registry { return defaultRegistry }

// List returns the models in catalog order.
func (r *Registry) List() []*SimulationModel {
	out := make([]*SimulationModel, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.models[id])
	}
	return out
}

func (r *Registry) Get(id dynamo.ModelID) (*SimulationModel, error) {
	m, ok := r.models[id]
	if !ok {
		return nil, &dynamo.ModelError{ID: id, Wrapped: dynamo.ErrModelNotFound}
	}
	return m, nil
}

func (r *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Summary{ID: id, Title: r.models[id].Title})
	}
	return out
}

func (r *Registry) IDs() []dynamo.ModelID {
	out := make([]dynamo.ModelID, len(r.order))
	copy(out, r.order)
	return out
}
