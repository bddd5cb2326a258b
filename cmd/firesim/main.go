//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"wildfire-ca/internal/app"
	"wildfire-ca/internal/sims/forestfire"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	simCfg, err := cfg.SimConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	engine, err := forestfire.New(simCfg)
	if err != nil {
		log.Fatalf("engine: %v", err)
	}

	game := app.New(engine, cfg.Scale, cfg.HUDWidth)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("wildfire-ca")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
