package main

import (
	"context"
	"log"
	"os"

	"github.com/mkragh/socialapi/internal/buildinfo"
	"github.com/mkragh/socialapi/internal/server"
	"github.com/mkragh/socialapi/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
