package main

import (
	"context"
	"flag"
	"log"

	"pacer/internal/config"
	"pacer/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg); err != nil {
		log.Fatalf("pacerd: %v", err)
	}
}
