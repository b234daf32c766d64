package sim

import (
	"github.com/san-kum/oceansim/internal/catalog"
	"github.com/san-kum/oceansim/internal/dynamo"
)

// Controls is the user-facing surface of an Engine: model selection,
// parameter edits and transport.
type Controls struct {
	e *Engine
}

func NewControls(e *Engine) *Controls { return &Controls{e: e} }

func (c *Controls) Engine() *Engine { return c.e }

func (c *Controls) Models() []catalog.Summary { return c.e.Catalog().Summaries() }

// Select switches model and starts it from a fresh population. An unknown
// id leaves the engine stopped on its previous model.
func (c *Controls) Select(id dynamo.ModelID) (Token, error) {
	if err := c.e.Select(id); err != nil {
		return Token{}, err
	}
	return c.e.Play(), nil
}

func (c *Controls) Parameters() []dynamo.Parameter { return c.e.Parameters().List() }

func (c *Controls) SetParameter(id string, v float64) error { return c.e.SetParameter(id, v) }

// Nudge moves a parameter by frac of its range, clamped to the bounds.
func (c *Controls) Nudge(id string, frac float64) error {
	p, ok := c.e.Parameters().Get(id)
	if !ok {
		return &dynamo.ParameterError{ID: id, Wrapped: dynamo.ErrUnknownParameter}
	}
	v := p.Value + frac*(p.Max-p.Min)
	if v < p.Min {
		v = p.Min
	}
	if v > p.Max {
		v = p.Max
	}
	return c.e.SetParameter(id, v)
}

// Toggle pauses a running engine and plays otherwise. The returned token
// is cancelled when the engine ends up paused.
func (c *Controls) Toggle() Token {
	if c.e.Phase() == Running {
		c.e.Pause()
		return Token{}
	}
	return c.e.Play()
}

func (c *Controls) Reset() { c.e.Reset() }

func (c *Controls) SetSpeed(m float64) { c.e.SetSpeed(m) }

func (c *Controls) Token() Token { return c.e.Token() }
