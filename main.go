package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"weatherwork/app/client/weather"
	"weatherwork/app/client/workspace"
	"weatherwork/app/config"
	"weatherwork/app/service/dialog"
	"weatherwork/app/service/events"
	"weatherwork/app/service/state"
	"weatherwork/app/service/webhook"
	"weatherwork/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
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

	do.Provide(di, workspace.NewClient)
	do.Provide(di, weather.NewClient)
	do.Provide(di, events.New)
	do.Provide(di, state.New)
	do.Provide(di, dialog.New)
	do.Provide(di, webhook.New)

	workspaceClient := do.MustInvoke[*workspace.Client](di)

	// the app must not serve webhook traffic without a token
	if err = workspaceClient.Authenticate(appCtx); err != nil {
		log.Fatalf("authentication failed: %v", err)
	}

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	g, gctx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		workspaceClient.RunRefreshLoop(gctx)
		return nil
	})

	g.Go(func() error {
		return do.MustInvoke[*webhook.Service](di).Run(gctx)
	})

	if err = g.Wait(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
