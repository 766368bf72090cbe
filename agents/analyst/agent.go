package analyst

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"yt-sentiment/internal/models"
	"yt-sentiment/shared/ai"
	"yt-sentiment/shared/config"
	"yt-sentiment/shared/scheduler"
	"yt-sentiment/shared/storage"
)

const commentFileSuffix = "_comments.csv"

// blobStore is the slice of the blob gateway the analyst uses.
type blobStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Download(ctx context.Context, blobName, localPath string) error
	Upload(ctx context.Context, blobName, localPath string) error
}

// summarizer produces an analysis for one comment batch.
type summarizer interface {
	Summarize(ctx context.Context, comments []models.Comment, meta *models.VideoMetadata, totalComments int) (string, error)
}

// Analyst implements the scheduler.Agent interface. One run downloads every
// pending comment file from the blob container, summarizes each through the
// LLM and uploads the analyses plus a processing summary. A failing file is
// a logged omission, never an abort.
type Analyst struct {
	config    *config.Config
	analyzer  summarizer // nil when no LLM credential is configured
	artifacts *storage.ArtifactDir
	blobs     blobStore
}

// Metrics summarizes one batch run.
type Metrics struct {
	TotalFiles int
	Successful int
}

func (m Metrics) GetSummary() string {
	return fmt.Sprintf("analyzed %d of %d comment files", m.Successful, m.TotalFiles)
}

func New(cfg *config.Config) *Analyst {
	return &Analyst{
		config:    cfg,
		artifacts: storage.NewArtifactDir(cfg.OutputDir),
	}
}

func (a *Analyst) Name() string {
	return "Comment Analyst"
}

func (a *Analyst) Initialize() error {
	ctx := context.Background()

	if a.blobs == nil {
		blobs, err := storage.NewBlobStore(ctx, &a.config.Blob)
		if err != nil {
			return fmt.Errorf("failed to create blob store: %w", err)
		}
		a.blobs = blobs
		log.Println("Blob store initialized")
	}

	if a.analyzer == nil {
		analyzer, err := ai.NewAnalyzer(ctx, &a.config.AI)
		if err != nil {
			if errors.Is(err, ai.ErrMissingCredential) {
				log.Println("Warning: no LLM API key configured; comment files will be listed but not analyzed")
				return nil
			}
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		a.analyzer = analyzer
		log.Println("Analyzer initialized")
	}

	return nil
}

func (a *Analyst) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	blobNames, err := a.blobs.List(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list blobs: %w", err)
	}

	var commentBlobs []string
	for _, name := range blobNames {
		if strings.HasSuffix(name, commentFileSuffix) {
			commentBlobs = append(commentBlobs, name)
		}
	}
	log.Printf("Found %d comment files to process", len(commentBlobs))

	results := make([]models.AnalysisResult, 0, len(commentBlobs))
	for _, blobName := range commentBlobs {
		result, err := a.processCommentFile(ctx, blobName)
		if err != nil {
			log.Printf("Warning: Failed to process %s: %v", blobName, err)
			continue
		}
		if result != nil {
			results = append(results, *result)
		}
	}

	summary := &models.ProcessingSummary{
		ProcessedDate:      time.Now().Format("2006-01-02 15:04:05"),
		TotalFiles:         len(commentBlobs),
		SuccessfulAnalyses: len(results),
		Videos:             results,
	}
	summaryPath, err := a.artifacts.WriteSummary(summary)
	if err != nil {
		return err
	}
	if err := a.blobs.Upload(ctx, "sentiment_analysis/processing_summary.json", summaryPath); err != nil {
		return fmt.Errorf("failed to upload processing summary: %w", err)
	}

	log.Printf("Processing complete. %d of %d files analyzed successfully.", len(results), len(commentBlobs))

	metrics := Metrics{TotalFiles: len(commentBlobs), Successful: len(results)}
	duration := time.Since(startTime)
	if events != nil {
		if len(results) < len(commentBlobs) && events.OnPartialFailure != nil {
			events.OnPartialFailure(fmt.Errorf("%d of %d comment files not analyzed", len(commentBlobs)-len(results), len(commentBlobs)), duration)
		}
		if events.OnSuccess != nil {
			events.OnSuccess(metrics, duration)
		}
	}

	return nil
}

// processCommentFile runs the full per-file pipeline: download, load, look up
// metadata (best effort), summarize, persist local and remote copies. A nil,
// nil return means the file was deliberately skipped (empty batch or no
// credential); the caller's counters simply don't increment.
func (a *Analyst) processCommentFile(ctx context.Context, blobName string) (*models.AnalysisResult, error) {
	// Trim the suffix rather than cutting at "_": underscores are legal
	// inside video IDs.
	videoID := strings.TrimSuffix(blobName, commentFileSuffix)
	if videoID == "" || videoID == blobName {
		return nil, fmt.Errorf("cannot derive video ID from blob name %q", blobName)
	}

	localPath := a.artifacts.LocalPath(blobName)
	if err := a.blobs.Download(ctx, blobName, localPath); err != nil {
		return nil, err
	}

	comments, err := storage.ReadComments(localPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Processing %d comments for video %s", len(comments), videoID)

	if len(comments) == 0 {
		log.Printf("Skipping %s: comment file has no rows", blobName)
		return nil, nil
	}
	if a.analyzer == nil {
		log.Printf("Skipping %s: no LLM API key configured", blobName)
		return nil, nil
	}

	meta := a.lookupMetadata(ctx, videoID)

	analysis, err := a.analyzer.Summarize(ctx, comments, meta, len(comments))
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102_150405")
	filename, err := a.artifacts.WriteAnalysis(videoID, timestamp, analysis)
	if err != nil {
		return nil, err
	}
	if err := a.blobs.Upload(ctx, "sentiment_analysis/"+filename, a.artifacts.AnalysisPath(filename)); err != nil {
		return nil, err
	}

	log.Printf("Analysis completed for %s", videoID)
	return &models.AnalysisResult{
		VideoID:      videoID,
		AnalysisFile: filename,
		CommentCount: len(comments),
		Timestamp:    timestamp,
	}, nil
}

// lookupMetadata fetches the video's metadata blob. Absence is fine; the
// prompt renders a placeholder instead.
func (a *Analyst) lookupMetadata(ctx context.Context, videoID string) *models.VideoMetadata {
	blobName := storage.MetadataBlobName(videoID)
	localPath := a.artifacts.LocalPath(blobName)

	if err := a.blobs.Download(ctx, blobName, localPath); err != nil {
		log.Printf("No metadata for %s: %v", videoID, err)
		return nil
	}

	meta, err := storage.ReadMetadata(localPath)
	if err != nil {
		log.Printf("Failed to read metadata for %s: %v", videoID, err)
		return nil
	}
	return meta
}
