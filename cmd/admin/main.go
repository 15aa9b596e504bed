package main

import (
	"context"
	"log"
	"os"

	"github.com/mkragh/socialapi/internal/admin"
	"github.com/mkragh/socialapi/internal/buildinfo"
	"github.com/mkragh/socialapi/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stderr)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := admin.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}
