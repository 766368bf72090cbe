package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yt-sentiment/agents/collector"
	"yt-sentiment/shared/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: collector <youtube_video_url_or_video_id>")
		fmt.Println("\nExample usage:")
		fmt.Println("  collector https://www.youtube.com/watch?v=dQw4w9WgXcQ")
		fmt.Println("  collector dQw4w9WgXcQ")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := collector.New(cfg)
	if err := agent.Initialize(ctx); err != nil {
		log.Fatalf("Failed to initialize collector: %v", err)
	}

	if err := agent.Run(ctx, os.Args[1]); err != nil {
		log.Fatalf("Failed to collect video data: %v", err)
	}
}
