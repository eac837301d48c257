// Command collision-tui runs the particle collision simulation in a terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/olivierh59500/collision-go/internal/shell"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	clickHz       = 880
	clickDuration = 20 * time.Millisecond
)

// Viewer runs a session in a tcell screen and maps keys to shell actions.
type Viewer struct {
	screen       tcell.Screen
	session      *shell.Session
	snapshotPath string
	paused       bool
	message      string

	// Audio
	audioInit bool
}

// NewViewer creates a running viewer. Snapshots are saved to and loaded from
// snapshotPath.
func NewViewer(screen tcell.Screen, session *shell.Session, snapshotPath string) *Viewer {
	return &Viewer{screen: screen, session: session, snapshotPath: snapshotPath}
}

func (v *Viewer) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		v.audioInit = true
	}
	return err
}

// playClick sounds once for a tick with collisions.
func (v *Viewer) playClick() {
	if !v.audioInit {
		return
	}
	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, clickHz)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(clickDuration), sine))
}

// step runs one tick and clicks if any pair collided.
func (v *Viewer) step() error {
	sim := v.session.Sim
	if err := sim.Tick(); err != nil {
		return err
	}
	if sim.Stats().Collisions > 0 {
		v.playClick()
	}
	return nil
}

func (v *Viewer) status() string {
	sim := v.session.Sim
	stats := sim.Stats()
	s := fmt.Sprintf("n=%d tick=%d collisions=%d E=%.6f  spc pause  n step  r regen  +/- count  s/l save/load  q quit",
		sim.Len(), stats.Ticks, stats.TotalCollisions, sim.KineticEnergy())
	if v.message != "" {
		s = v.message + "  " + s
	}
	return s
}

func (v *Viewer) report(ok string, err error) {
	v.message = ok
	if err != nil {
		v.message = "error: " + err.Error()
	}
}

// handleInput applies a key event. Returns false to quit.
func (v *Viewer) handleInput(ev tcell.Event) (bool, error) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false, nil
		}
		if ev.Key() != tcell.KeyRune {
			return true, nil
		}
		switch ev.Rune() {
		case 'q':
			return false, nil
		case ' ':
			v.paused = !v.paused
		case 'n':
			if v.paused {
				return true, v.step()
			}
		case 'r':
			v.resize(v.session.Sim.Len())
		case '+', '=':
			v.resize(v.session.Sim.Len() + 1)
		case '-':
			v.resize(v.session.Sim.Len() - 1)
		case 's':
			v.report("saved "+v.snapshotPath, v.session.Save(v.snapshotPath))
		case 'l':
			v.report("loaded "+v.snapshotPath, v.session.Load(v.snapshotPath))
		}

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true, nil
}

func (v *Viewer) resize(n int) {
	v.report(fmt.Sprintf("generated %d particles", shell.ClampCount(n)), v.session.Resize(n))
}

// run owns the simulation; input arrives on a channel from the poll goroutine.
func (v *Viewer) run() error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(v.screen, eventChan, done)

	for {
		select {
		case ev := <-eventChan:
			ok, err := v.handleInput(ev)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

		case <-ticker.C:
			if !v.paused {
				if err := v.step(); err != nil {
					return err
				}
			}
			render(v.screen, v.session.Sim.Snapshot(), v.status())
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (v *Viewer) cleanup() {
	if v.audioInit {
		speaker.Close()
	}
	v.screen.Fini()
}

func main() {
	var opts shell.Options
	opts.Register(flag.CommandLine)
	sound := flag.Bool("sound", false, "click on collisions")
	flag.Parse()

	cfg, err := opts.Build()
	if err != nil {
		log.Fatal(err)
	}
	session, err := shell.NewSession(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("particles=%d dt=%g seed=%d force=%q", cfg.Count, cfg.Dt, cfg.Seed, cfg.Force.Kind)

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	viewer := NewViewer(screen, session, opts.SnapshotPath)
	if *sound {
		if err := viewer.initAudio(); err != nil {
			// Non-fatal, runs without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}

	err = viewer.run()
	viewer.cleanup()
	if err != nil {
		log.Fatal(err)
	}
}
