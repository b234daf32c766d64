package sim

import (
	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/render"
)

// Phase is the transport state of an Engine.
type Phase int

const (
	Stopped Phase = iota
	Running
	Paused
)

func (p Phase) String() string {
	switch p {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "unknown"
	}
}

// State is a copy of the engine's simulation state.
type State struct {
	Model     dynamo.ModelID
	Phase     Phase
	Elapsed   float64
	Speed     float64
	Tick      uint64
	Particles []dynamo.Particle
}

func (s State) IsPlaying() bool { return s.Phase == Running }

// Metric accumulates a scalar over the frames of a run. Frames passed to
// Observe are only valid for the duration of the call.
type Metric interface {
	Name() string
	Observe(f render.Frame)
	Value() float64
	Reset()
}

// Observer is notified after every committed tick.
type Observer interface {
	OnFrame(f render.Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f render.Frame)

func (fn ObserverFunc) OnFrame(f render.Frame) { fn(f) }

const (
	MinSpeed = 0.25
	MaxSpeed = 4.0
)
