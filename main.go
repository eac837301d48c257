package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/olivierh59500/collision-go/internal/shell"
)

func main() {
	var opts shell.Options
	opts.Register(flag.CommandLine)
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

	// Set up Ebitengine game
	ebiten.SetWindowSize(ScreenSize, ScreenSize+HUDHeight)
	ebiten.SetWindowTitle("Particle Collision Simulation")
	ebiten.SetTPS(60) // Target 60 ticks per second

	// Run the game loop
	if err := ebiten.RunGame(NewGame(session, opts.SnapshotPath)); err != nil {
		log.Fatal(err)
	}
}
