package dynamo

import "math"

// Parameter is a bounded, named numeric control.
type Parameter struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Value       float64 `json:"value" yaml:"value"`
	Min         float64 `json:"min" yaml:"min"`
	Max         float64 `json:"max" yaml:"max"`
	Unit        string  `json:"unit" yaml:"unit"`
	Description string  `json:"description" yaml:"description"`
	ImpactNote  string  `json:"impact_note" yaml:"impact_note"`
}

// Accepts reports whether v is a legal value for p.
func (p Parameter) Accepts(v float64) bool {
	return !math.IsNaN(v) && v >= p.Min && v <= p.Max
}

// Normalized returns the position of Value inside [Min, Max] as a fraction.
func (p Parameter) Normalized() float64 {
	if p.Max <= p.Min {
		return 0
	}
	return clamp((p.Value-p.Min)/(p.Max-p.Min), 0, 1)
}

// ParameterSet is an immutable, ordered collection of parameters.
type ParameterSet struct {
	params []Parameter
	index  map[string]int
}

// NewParameterSet copies params and checks every value against its bounds.
func NewParameterSet(params []Parameter) (*ParameterSet, error) {
	s := &ParameterSet{
		params: make([]Parameter, len(params)),
		index:  make(map[string]int, len(params)),
	}
	copy(s.params, params)
	for i, p := range s.params {
		if !p.Accepts(p.Value) {
			return nil, &ParameterError{ID: p.ID, Value: p.Value, Min: p.Min, Max: p.Max, Wrapped: ErrParameterOutOfRange}
		}
		s.index[p.ID] = i
	}
	return s, nil
}

func (s *ParameterSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.params)
}

// Get returns the parameter with the given id.
func (s *ParameterSet) Get(id string) (Parameter, bool) {
	if s == nil {
		return Parameter{}, false
	}
	i, ok := s.index[id]
	if !ok {
		return Parameter{}, false
	}
	return s.params[i], true
}

// Value returns the current value of id, or zero when the set lacks it.
func (s *ParameterSet) Value(id string) float64 {
	p, _ := s.Get(id)
	return p.Value
}

// List returns a copy of the parameters in declaration order.
func (s *ParameterSet) List() []Parameter {
	if s == nil {
		return nil
	}
	out := make([]Parameter, len(s.params))
	copy(out, s.params)
	return out
}

// Values returns the parameters as an id to value map.
func (s *ParameterSet) Values() map[string]float64 {
	out := make(map[string]float64, s.Len())
	if s == nil {
		return out
	}
	for _, p := range s.params {
		out[p.ID] = p.Value
	}
	return out
}

// With returns a new set where id holds v. The receiver is left untouched,
// including when the edit is rejected.
func (s *ParameterSet) With(id string, v float64) (*ParameterSet, error) {
	p, ok := s.Get(id)
	if !ok {
		return s, &ParameterError{ID: id, Value: v, Wrapped: ErrUnknownParameter}
	}
	if !p.Accepts(v) {
		return s, &ParameterError{ID: id, Value: v, Min: p.Min, Max: p.Max, Wrapped: ErrParameterOutOfRange}
	}
	next := &ParameterSet{
		params: make([]Parameter, len(s.params)),
		index:  s.index,
	}
	copy(next.params, s.params)
	next.params[s.index[id]].Value = v
	return next, nil
}

// WithValues applies every entry of values, failing on the first rejected edit.
func (s *ParameterSet) WithValues(values map[string]float64) (*ParameterSet, error) {
	cur := s
	for _, p := range s.List() {
		v, ok := values[p.ID]
		if !ok {
			continue
		}
		next, err := cur.With(p.ID, v)
		if err != nil {
			return s, err
		}
		cur = next
	}
	for id, v := range values {
		if _, ok := s.Get(id); !ok {
			return s, &ParameterError{ID: id, Value: v, Wrapped: ErrUnknownParameter}
		}
	}
	return cur, nil
}
