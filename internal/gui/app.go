package gui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/oceansim/internal/sim"
)

var (
	ColText    = rl.NewColor(224, 240, 255, 255)
	ColTextDim = rl.NewColor(90, 120, 150, 255)
	ColSelect  = rl.NewColor(255, 215, 0, 255)
	ColPanel   = rl.NewColor(0, 10, 25, 170)
)

const (
	windowWidth  = 1280
	windowHeight = 720
	maxFrameTime = 0.1
	nudgeStep    = 0.05
)

// App is the raylib window around one engine.
type App struct {
	ctl      *sim.Controls
	tok      sim.Token
	log      *log.Logger
	selected int
	status   string
	quit     bool
}

func NewApp(ctl *sim.Controls, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &App{ctl: ctl, log: logger}
}

// Run opens the window, plays the engine and blocks until the window
// closes or Q is pressed. The engine is closed on return.
func Run(ctl *sim.Controls, title string, fps int, logger *log.Logger) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)

	a := NewApp(ctl, logger)
	a.RunLoop()
}

func (a *App) RunLoop() {
	e := a.ctl.Engine()
	e.SetSurface(surface{})
	defer e.Close()
	a.tok = e.Play()

	for !a.quit && !rl.WindowShouldClose() {
		for k := rl.GetKeyPressed(); k != 0; k = rl.GetKeyPressed() {
			a.apply(k)
		}
		dt := float64(rl.GetFrameTime())
		if dt > maxFrameTime {
			dt = maxFrameTime
		}

		rl.BeginDrawing()
		if !e.TickWith(a.tok, dt) {
			if err := e.Draw(surface{}); err != nil {
				a.log.Error("draw failed", "err", err)
			}
		}
		a.drawHUD()
		rl.EndDrawing()
	}
}

// apply performs the action bound to key.
func (a *App) apply(key int32) {
	a.status = ""
	switch key {
	case rl.KeyQ, rl.KeyEscape:
		a.quit = true
	case rl.KeySpace:
		a.tok = a.ctl.Toggle()
	case rl.KeyR:
		a.ctl.Reset()
		a.tok = sim.Token{}
	case rl.KeyTab:
		if n := len(a.ctl.Parameters()); n > 0 {
			a.selected = (a.selected + 1) % n
		}
	case rl.KeyUp:
		a.nudge(nudgeStep)
	case rl.KeyDown:
		a.nudge(-nudgeStep)
	case rl.KeyEqual, rl.KeyKpAdd:
		a.ctl.SetSpeed(a.ctl.Engine().Speed() * 2)
	case rl.KeyMinus, rl.KeyKpSubtract:
		a.ctl.SetSpeed(a.ctl.Engine().Speed() / 2)
	case rl.KeyZero:
		a.ctl.SetSpeed(1)
	case rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour, rl.KeyFive:
		a.selectModel(int(key - rl.KeyOne))
	}
}

func (a *App) nudge(frac float64) {
	ps := a.ctl.Parameters()
	if a.selected >= len(ps) {
		return
	}
	if err := a.ctl.Nudge(ps[a.selected].ID, frac); err != nil {
		a.status = err.Error()
		a.log.Warn("nudge refused", "param", ps[a.selected].ID, "err", err)
	}
}

func (a *App) selectModel(i int) {
	models := a.ctl.Models()
	if i < 0 || i >= len(models) {
		return
	}
	tok, err := a.ctl.Select(models[i].ID)
	if err != nil {
		a.status = err.Error()
		a.log.Error("select failed", "model", models[i].ID, "err", err)
		return
	}
	a.tok = tok
	a.selected = 0
	a.log.Info("model switched", "model", models[i].ID)
}

func (a *App) drawHUD() {
	e := a.ctl.Engine()
	st := e.Snapshot()
	m := e.Model()

	rl.DrawRectangle(10, 10, 420, int32(130+22*len(a.ctl.Parameters())), ColPanel)
	rl.DrawText(m.Title, 24, 20, 24, ColText)
	rl.DrawText(fmt.Sprintf("%s  t=%.1fs  x%.2f  n=%d", st.Phase, st.Elapsed, st.Speed, len(st.Particles)), 24, 52, 16, ColTextDim)

	y := int32(84)
	for i, p := range a.ctl.Parameters() {
		col := ColText
		prefix := "  "
		if i == a.selected {
			col, prefix = ColSelect, "> "
		}
		rl.DrawText(fmt.Sprintf("%s%-20s %8.2f %s", prefix, p.Name, p.Value, p.Unit), 24, y, 16, col)
		y += 22
	}
	if a.status != "" {
		rl.DrawText(a.status, 24, y+4, 14, rl.Red)
	}

	h := int32(rl.GetScreenHeight())
	rl.DrawText("[SPACE] PLAY/PAUSE  [R] RESET  [TAB] PARAM  [UP/DOWN] TUNE  [+/-] SPEED  [1-5] MODEL  [Q] QUIT", 24, h-28, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), int32(rl.GetScreenWidth())-80, h-28, 14, ColTextDim)
}
