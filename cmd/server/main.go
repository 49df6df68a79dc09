package main

import (
	"context"
	"log"
	"os"

	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/buildinfo"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/logging"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server"
	"github.com/Nkosana1/Cogni-Flash-Card-site-app/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	app := server.NewApp(cfg, logger)

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
