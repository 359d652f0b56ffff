package main

import (
	"conectin/app/client/llm"
	"conectin/app/client/whatsapp"
	"conectin/app/config"
	"conectin/app/service/conversation"
	"conectin/app/service/engine"
	"conectin/app/service/intent"
	"conectin/app/service/operator"
	"conectin/app/service/queue"
	"conectin/app/service/router"
	"conectin/app/service/web"
	"conectin/app/util/mylog"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

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

	do.Provide(di, whatsapp.NewClient)
	do.Provide(di, llm.NewClient)
	do.Provide(di, conversation.New)
	do.Provide(di, intent.New)
	do.Provide(di, router.New)
	do.Provide(di, queue.New)
	do.Provide(di, engine.New)
	do.Provide(di, operator.New)
	do.Provide(di, web.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go func() {
		if err := do.MustInvoke[*web.Service](di).Run(appCtx); err != nil {
			slog.Error("HTTP server failed", "error", err)
			cancel()
		}
	}()

	go func() {
		if err := do.MustInvoke[*engine.Service](di).Run(appCtx); err != nil {
			slog.Error("Engine stopped", "error", err)
		}
		cancel()
	}()

	<-appCtx.Done()
}
