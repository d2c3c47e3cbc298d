package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"quietquadrant/client/internal/viewer"
	"quietquadrant/internal/config"
	"quietquadrant/internal/demo"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	v, err := viewer.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer v.Close()

	ebiten.SetWindowSize(demo.ArenaW, demo.ArenaH)
	ebiten.SetWindowTitle("Quiet Quadrant FX")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	log.Println("viewer starting, theme", cfg.Theme)
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
