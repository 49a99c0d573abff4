package main

import (
	"askdoc/app/client/llm"
	"askdoc/app/config"
	"askdoc/app/server"
	"askdoc/app/service/agent"
	"askdoc/app/service/booking"
	"askdoc/app/service/dateparse"
	"askdoc/app/service/docstore"
	"askdoc/app/service/watcher"
	"askdoc/app/util/mylog"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, llm.NewClient)
	do.Provide(di, booking.New)
	do.Provide(di, dateparse.New)
	do.Provide(di, docstore.New)
	do.Provide(di, agent.New)
	do.Provide(di, watcher.New)
	do.Provide(di, server.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*docstore.Service](di).Bootstrap(appCtx); err != nil {
			slog.Error("Document bootstrap failed", "error", err)
		}
	}()

	if cfg.Documents.Watch {
		go func() {
			err := do.MustInvoke[*watcher.Service](di).Run(appCtx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Watcher stopped", "error", err)
			}
		}()
	}

	go func() {
		if err := do.MustInvoke[*server.Service](di).Run(); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-appCtx.Done()
}
