package collector

import (
	"context"
	"errors"
	"fmt"
	"log"

	"yt-sentiment/shared/config"
	"yt-sentiment/shared/storage"
	"yt-sentiment/shared/youtube"
)

// Collector fetches metadata and comments for a single video, stages them as
// CSV files and uploads both to the blob container.
type Collector struct {
	config    *config.Config
	client    *youtube.Client
	artifacts *storage.ArtifactDir
	blobs     *storage.BlobStore
}

func New(cfg *config.Config) *Collector {
	return &Collector{
		config:    cfg,
		artifacts: storage.NewArtifactDir(cfg.OutputDir),
	}
}

func (c *Collector) Initialize(ctx context.Context) error {
	if c.client == nil {
		client, err := youtube.NewClient(ctx, &c.config.YouTube, c.config.Fetch.PageSize)
		if err != nil {
			return fmt.Errorf("failed to create YouTube client: %w", err)
		}
		c.client = client
		log.Println("YouTube client initialized")
	}

	if c.blobs == nil {
		blobs, err := storage.NewBlobStore(ctx, &c.config.Blob)
		if err != nil {
			return fmt.Errorf("failed to create blob store: %w", err)
		}
		c.blobs = blobs
		log.Println("Blob store initialized")
	}

	return nil
}

// Run resolves the input to a video ID and executes the fetch pipeline.
// Metadata failure is terminal; comment failure degrades to a zero-row
// comments file so downstream stages can tell the fetch ran.
func (c *Collector) Run(ctx context.Context, input string) error {
	videoID := youtube.ExtractVideoID(input)
	if videoID == "" {
		return fmt.Errorf("%w: %q", youtube.ErrInvalidReference, input)
	}
	log.Printf("Using video ID: %s", videoID)

	meta, err := c.client.FetchMetadata(ctx, videoID)
	if err != nil {
		return fmt.Errorf("failed to fetch video metadata: %w", err)
	}
	metadataPath, err := c.artifacts.WriteMetadata(videoID, meta)
	if err != nil {
		return err
	}
	log.Printf("Saved video metadata to %s", metadataPath)

	comments, err := c.client.FetchComments(ctx, videoID, c.config.Fetch.MaxComments)
	if err != nil {
		if errors.Is(err, youtube.ErrCommentsDisabled) {
			log.Println("Comments are disabled for this video.")
		} else {
			log.Printf("Warning: Issues fetching comments, continuing with what we have: %v", err)
		}
	}
	if len(comments) == 0 {
		log.Println("No comments found for this video.")
	}

	// Written even when empty so the comment file marks the attempt.
	commentsPath, err := c.artifacts.WriteComments(videoID, comments)
	if err != nil {
		return err
	}
	log.Printf("Saved %d comments to %s", len(comments), commentsPath)

	if err := c.blobs.Upload(ctx, storage.MetadataBlobName(videoID), metadataPath); err != nil {
		return fmt.Errorf("failed to upload metadata: %w", err)
	}
	if err := c.blobs.Upload(ctx, storage.CommentsBlobName(videoID), commentsPath); err != nil {
		return fmt.Errorf("failed to upload comments: %w", err)
	}

	log.Printf("Data fetching successful for %s.", videoID)
	return nil
}
