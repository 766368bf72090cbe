package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yt-sentiment/agents/analyst"
	"yt-sentiment/shared/config"
	"yt-sentiment/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := analyst.New(cfg)
	s := scheduler.New(cfg, agent)

	if len(os.Args) > 1 && os.Args[1] == "--watch" {
		fmt.Println("Starting scheduler...")
		if err := s.Start(ctx); err != nil {
			log.Fatalf("Scheduler failed: %v", err)
		}
		return
	}

	if err := agent.Initialize(); err != nil {
		log.Fatalf("Failed to initialize analyst: %v", err)
	}

	if err := s.RunOnce(ctx); err != nil {
		log.Fatalf("Failed to run: %v", err)
	}
}
