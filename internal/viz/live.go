package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/oceansim/internal/dynamo"
	"github.com/san-kum/oceansim/internal/metrics"
	"github.com/san-kum/oceansim/internal/sim"
)

const (
	canvasWidth  = 72
	canvasHeight = 22
	panelWidth   = 50
	graphPoints  = 120
	nudgeStep    = 0.05
)

type TickMsg time.Time

// LiveConfig sets up a Live session.
type LiveConfig struct {
	Theme  string
	FPS    int
	Logger *log.Logger
}

// Live is the interactive terminal front end. It owns the only ticker of
// its engine and drives it with the run token.
type Live struct {
	ctl     *sim.Controls
	tok     sim.Token
	log     *log.Logger
	fps     int
	dt      float64
	canvas  *Canvas
	surface *BrailleSurface
	theme   Theme
	styles  Styles
	gauges  *Gauges
	metrics []sim.Metric

	selected int
	status   string
	showHelp bool
	quitting bool
}

func NewLive(ctl *sim.Controls, cfg LiveConfig) *Live {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	theme, ok := GetTheme(cfg.Theme)
	if !ok && cfg.Theme != "" {
		cfg.Logger.Warn("unknown theme", "theme", cfg.Theme, "using", theme.Name)
	}
	m := &Live{
		ctl:    ctl,
		log:    cfg.Logger,
		fps:    cfg.FPS,
		dt:     1 / float64(cfg.FPS),
		theme:  theme,
		styles: theme.Styles(),
		gauges: NewGauges(cfg.FPS, 6.0, 0.8),
	}
	m.resize(canvasWidth, canvasHeight)
	m.attach()
	m.tok = ctl.Engine().Play()
	return m
}

// attach fits metrics and gauges to the active model.
func (m *Live) attach() {
	e := m.ctl.Engine()
	m.metrics = metrics.ForModel(e.Model().ID)
	e.SetMetrics(m.metrics...)
	m.selected = 0
	m.gauges.Snap(m.targets())
}

func (m *Live) resize(w, h int) {
	m.canvas = NewCanvas(w, h)
	m.surface = NewBrailleSurface(m.canvas)
}

func (m *Live) targets() []float64 {
	ps := m.ctl.Parameters()
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Normalized()
	}
	return out
}

func (m *Live) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Live) Init() tea.Cmd { return m.tick() }

func (m *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		w := max(msg.Width-panelWidth-4, 20)
		h := max(msg.Height-2, 8)
		m.resize(w, h)
		return m, nil
	case TickMsg:
		if m.quitting {
			return m, nil
		}
		m.ctl.Engine().TickWith(m.tok, m.dt)
		if err := m.ctl.Engine().Draw(m.surface); err != nil {
			m.log.Error("draw failed", "err", err)
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Live) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch key := msg.String(); key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		m.ctl.Engine().Close()
		return tea.Quit
	case " ":
		m.tok = m.ctl.Toggle()
	case "r":
		m.ctl.Reset()
		m.tok = sim.Token{}
	case "tab":
		if n := len(m.ctl.Parameters()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "up", "k":
		m.nudge(nudgeStep)
	case "down", "j":
		m.nudge(-nudgeStep)
	case "+", "=":
		m.ctl.SetSpeed(m.ctl.Engine().Speed() * 2)
	case "-", "_":
		m.ctl.SetSpeed(m.ctl.Engine().Speed() / 2)
	case "0":
		m.ctl.SetSpeed(1)
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = m.theme.Styles()
	case "?":
		m.showHelp = !m.showHelp
	case "1", "2", "3", "4", "5":
		m.selectModel(int(key[0] - '1'))
	}
	return nil
}

func (m *Live) nudge(frac float64) {
	ps := m.ctl.Parameters()
	if m.selected >= len(ps) {
		return
	}
	if err := m.ctl.Nudge(ps[m.selected].ID, frac); err != nil {
		m.status = err.Error()
		m.log.Warn("nudge refused", "param", ps[m.selected].ID, "err", err)
	}
}

func (m *Live) selectModel(i int) {
	models := m.ctl.Models()
	if i < 0 || i >= len(models) {
		return
	}
	tok, err := m.ctl.Select(models[i].ID)
	if err != nil {
		m.status = err.Error()
		m.log.Error("select failed", "model", models[i].ID, "err", err)
		return
	}
	m.tok = tok
	m.attach()
	m.log.Info("model switched", "model", models[i].ID)
}

func (m *Live) View() string {
	if m.quitting {
		return ""
	}
	canvasView := m.styles.Canvas.Render(m.canvas.String())
	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.Panel.Render(m.panel()))
	if m.showHelp {
		return m.help() + "\n" + view
	}
	return view
}

func (m *Live) panel() string {
	e := m.ctl.Engine()
	st := e.Snapshot()
	model := e.Model()
	var s strings.Builder

	s.WriteString(GradientText(strings.ToUpper(model.Title), m.theme.Primary, m.theme.Accent) + "\n")
	s.WriteString(m.styles.Muted.Render(model.ScientificNote) + "\n\n")

	var phase string
	switch st.Phase {
	case sim.Running:
		phase = m.styles.Running.Render("RUNNING")
	case sim.Paused:
		phase = m.styles.Paused.Render("PAUSED")
	default:
		phase = m.styles.Stopped.Render("STOPPED")
	}
	s.WriteString(phase + "\n")
	s.WriteString(m.styles.Label.Render("Time") + m.styles.Value.Render(fmt.Sprintf("%.2fs", st.Elapsed)) + "\n")
	s.WriteString(m.styles.Label.Render("Speed") + m.styles.Value.Render(fmt.Sprintf("%.2fx", st.Speed)) + "\n")
	s.WriteString(m.styles.Label.Render("Particles") + m.styles.Value.Render(fmt.Sprintf("%d", alive(st.Particles))) + "\n")
	for _, mt := range m.metrics[1:] {
		s.WriteString(m.styles.Label.Render(mt.Name()) + m.styles.Value.Render(fmt.Sprintf("%.3f", mt.Value())) + "\n")
	}

	if g := m.graph(); g != "" {
		s.WriteString(m.styles.Graph.Render(g) + "\n")
	}

	s.WriteString("\n" + m.styles.Header.Render("PARAMETERS") + "\n")
	for i, p := range m.ctl.Parameters() {
		frac := m.gauges.Step(i, p.Normalized())
		line := fmt.Sprintf("%-14s %s %7.2f %s", p.Name, Bar(frac, 10), p.Value, p.Unit)
		if i == m.selected {
			s.WriteString(m.styles.Active.Render("> "+line) + "\n")
			if p.ImpactNote != "" {
				s.WriteString(m.styles.Muted.Render("  "+p.ImpactNote) + "\n")
			}
		} else {
			s.WriteString("  " + m.styles.Value.Render(line) + "\n")
		}
	}

	s.WriteString("\n" + m.styles.Header.Render("MODELS") + "\n")
	for i, sum := range m.ctl.Models() {
		line := fmt.Sprintf("%d %s", i+1, sum.Title)
		if sum.ID == model.ID {
			s.WriteString(m.styles.Active.Render(line) + "\n")
		} else {
			s.WriteString(m.styles.Muted.Render(line) + "\n")
		}
	}

	if m.status != "" {
		s.WriteString("\n" + m.styles.Error.Render(m.status) + "\n")
	}
	s.WriteString(m.styles.Help.Render(Separator(30) + "\nSP:Play/Pause R:Reset Q:Quit\nTab:Param ↑↓:Tune +-:Speed\n1-5:Model T:Theme ?:Help"))
	return s.String()
}

// graph plots the model's headline metric.
func (m *Live) graph() string {
	mt, ok := metrics.Lookup(m.metrics, metrics.Headline(m.ctl.Engine().Model().ID))
	if !ok {
		return ""
	}
	h, ok := mt.(metrics.History)
	if !ok {
		return ""
	}
	data := h.History()
	if len(data) < 2 {
		return ""
	}
	if len(data) > graphPoints {
		data = data[len(data)-graphPoints:]
	}
	return asciigraph.Plot(data, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(mt.Name()))
}

func (m *Live) help() string {
	return m.styles.Header.Render(`
  Space    play / pause
  R        reset to a stopped, empty scene
  Tab      next parameter
  Up/K     raise parameter 5% of its range
  Down/J   lower parameter 5% of its range
  + / -    double / halve speed (0 resets)
  1-5      switch model
  T        cycle theme
  Q        quit`)
}

func alive(ps []dynamo.Particle) int {
	n := 0
	for _, p := range ps {
		if p.Alive() {
			n++
		}
	}
	return n
}

// Run starts the terminal UI and blocks until the user quits.
func Run(ctl *sim.Controls, cfg LiveConfig) error {
	_, err := tea.NewProgram(NewLive(ctl, cfg), tea.WithAltScreen()).Run()
	return err
}
