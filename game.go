package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/olivierh59500/collision-go/internal/shell"
)

// Viewer constants
const (
	ScreenSize  = 640
	BoxMargin   = 20.0
	HUDHeight   = 40
	StrokeWidth = 2.0
	MessageTPS  = 60 * 5 // Messages stay for five seconds
)

var (
	edgeColor = color.RGBA{31, 119, 180, 255}
	boxColor  = color.RGBA{220, 220, 220, 255}
)

// Game drives a simulation session from ebiten's update loop. Ticks and
// draws both run on ebiten's goroutine, so no locking is needed.
type Game struct {
	session      *shell.Session
	snapshotPath string
	Paused       bool
	message      string
	messageTTL   int
}

// NewGame wraps a session for ebiten.
func NewGame(session *shell.Session, snapshotPath string) *Game {
	return &Game{session: session, snapshotPath: snapshotPath}
}

// Update is called each tick by Ebitengine. A simulation error stops the game.
func (g *Game) Update() error {
	step := g.handleInput()

	if g.messageTTL > 0 {
		g.messageTTL--
	}

	if g.Paused && !step {
		return nil
	}
	if err := g.session.Sim.Tick(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	side := float32(ScreenSize - 2*BoxMargin)
	vector.StrokeRect(screen, BoxMargin, BoxMargin, side, side, StrokeWidth, boxColor, true)

	snap := g.session.Sim.Snapshot()
	for _, p := range snap.Particles {
		sx, sy := worldToScreen(p.X, p.Y)
		r := float32(p.Radius) * side
		vector.StrokeCircle(screen, sx, sy, r, StrokeWidth, edgeColor, true)
	}

	stats := g.session.Sim.Stats()
	hud := fmt.Sprintf("n=%d tick=%d collisions=%d E=%.6f  [space] pause [n] step [r] regenerate [+/-] count [s/l] save/load",
		len(snap.Particles), stats.Ticks, stats.TotalCollisions, g.session.Sim.KineticEnergy())
	if g.messageTTL > 0 {
		hud += "\n" + g.message
	}
	ebitenutil.DebugPrintAt(screen, hud, int(BoxMargin), ScreenSize)
}

// Layout returns the screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenSize, ScreenSize + HUDHeight
}

// handleInput processes keyboard input and reports a single-step request.
func (g *Game) handleInput() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resize(g.session.Sim.Len())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.resize(g.session.Sim.Len() + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.resize(g.session.Sim.Len() - 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.report("saved "+g.snapshotPath, g.session.Save(g.snapshotPath))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.report("loaded "+g.snapshotPath, g.session.Load(g.snapshotPath))
	}
	return g.Paused && inpututil.IsKeyJustPressed(ebiten.KeyN)
}

func (g *Game) resize(n int) {
	g.report(fmt.Sprintf("generated %d particles", shell.ClampCount(n)), g.session.Resize(n))
}

// report shows ok or the error on the HUD.
func (g *Game) report(ok string, err error) {
	g.message = ok
	if err != nil {
		log.Printf("%v", err)
		g.message = "error: " + err.Error()
	}
	g.messageTTL = MessageTPS
}

// worldToScreen maps the unit square into the box, y up.
func worldToScreen(x, y float64) (float32, float32) {
	side := float64(ScreenSize - 2*BoxMargin)
	return float32(BoxMargin + x*side), float32(BoxMargin + (1-y)*side)
}

var _ ebiten.Game = (*Game)(nil)
