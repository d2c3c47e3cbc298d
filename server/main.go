package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"quietquadrant/internal/config"
	"quietquadrant/internal/demo"
	"quietquadrant/server/auth"
	"quietquadrant/server/srv"
)

func source(cfg config.Config) (demo.Source, string) {
	if cfg.Server.Script == "" {
		return demo.New(cfg.Seed, cfg.Server.TickRate), "demo"
	}
	s, err := demo.LoadScript(cfg.Server.Script)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("HUB: replaying %s (%d ticks)", cfg.Server.Script, s.Len())
	return s, filepath.Base(cfg.Server.Script)
}

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	a, err := auth.NewAuth(cfg.Server.DataDir, cfg.Feed.Password)
	if err != nil {
		log.Fatal(err)
	}
	src, name := source(cfg)
	hub := srv.NewHub(src, name, cfg.Server.TickRate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go hub.Run(ctx)

	s := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv.Routes(hub, a),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdown)
	}()
	log.Println("feed server listening on", cfg.Server.Addr)
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
