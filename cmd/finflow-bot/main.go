package main

import (
	"log"

	"github.com/joho/godotenv"

	corecmd "github.com/finflow/finflow-bot/core/cmd"
	"github.com/finflow/finflow-bot/internal/app"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: app.BootstrapCarrier,
	})
	if err != nil {
		log.Fatalf("finflow-bot: %v", err)
	}
}
