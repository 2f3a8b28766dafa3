package main

import (
	"log"

	"github.com/joho/godotenv"

	"fieldprof/adapters/api"
	"fieldprof/adapters/excel"
	"fieldprof/internal/config"
	"fieldprof/internal/profiler"
	"fieldprof/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	engine := profiler.New(cfg.Profiler.Options())

	// The file reader is always available; SQL sources go through the CLI
	// where the connection lifetime is per invocation.
	server := api.NewServer(api.Config{
		Port:    cfg.Server.Port,
		GinMode: cfg.Server.GinMode,
	}, engine, excel.NewReader())

	viewer := ui.NewApp()
	go func() {
		if err := viewer.Run(ui.Config{Port: cfg.Server.ViewerPort}); err != nil {
			log.Fatalf("Report viewer failed: %v", err)
		}
	}()

	if err := server.Run(cfg.Server.Port); err != nil {
		log.Fatalf("Profile API failed: %v", err)
	}
}
