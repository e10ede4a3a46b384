package main

import (
	"context"
	"time"

	"github.com/niksmo/shop-admin/config"
	"github.com/niksmo/shop-admin/internal/app"
	"github.com/niksmo/shop-admin/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	adminService := app.New(sigCtx, cfg)

	adminService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	adminService.Close(ctx)
}
