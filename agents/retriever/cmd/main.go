package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yt-sentiment/agents/retriever"
	"yt-sentiment/shared/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := retriever.New(cfg)
	if err := agent.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize retriever: %v", err)
	}

	if err := agent.Run(ctx, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Failed to download file: %v", err)
	}
}
