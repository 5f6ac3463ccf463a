package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nachoviau/automatizacion-broker/internal/config"
	"github.com/nachoviau/automatizacion-broker/internal/fields"
	"github.com/nachoviau/automatizacion-broker/internal/listener"
	"github.com/nachoviau/automatizacion-broker/internal/mapping"
	"github.com/nachoviau/automatizacion-broker/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	table := mapping.Empty()
	if _, err := os.Stat(cfg.MappingPath); err == nil {
		table, err = mapping.Load(cfg.MappingPath)
		must(err)
	}

	svc := listener.NewService(db, cfg, fields.AllianzAuto(), table)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
