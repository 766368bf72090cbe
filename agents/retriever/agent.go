package retriever

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"yt-sentiment/shared/config"
	"yt-sentiment/shared/storage"
	"yt-sentiment/shared/youtube"
)

// Retriever interactively downloads a previously uploaded comment or
// metadata file for one video from the blob container.
type Retriever struct {
	config *config.Config
	blobs  *storage.BlobStore
}

func New(cfg *config.Config) *Retriever {
	return &Retriever{config: cfg}
}

func (r *Retriever) Initialize(ctx context.Context) error {
	if r.blobs == nil {
		blobs, err := storage.NewBlobStore(ctx, &r.config.Blob)
		if err != nil {
			return fmt.Errorf("failed to create blob store: %w", err)
		}
		r.blobs = blobs
	}
	return nil
}

// Run prompts for a video reference and a file-type selector ('c' or 'm')
// and downloads the matching blob into the download directory.
func (r *Retriever) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "Enter YouTube URL or video ID: ")
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return fmt.Errorf("failed to read input: %w", err)
	}

	videoID := youtube.ExtractVideoID(strings.TrimSpace(input))
	if videoID == "" {
		return youtube.ErrInvalidReference
	}
	fmt.Fprintf(out, "Using video ID: %s\n", videoID)

	fmt.Fprint(out, "Enter 'c' for comments or 'm' for metadata: ")
	choice, err := reader.ReadString('\n')
	if err != nil && choice == "" {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var blobName string
	switch strings.ToLower(strings.TrimSpace(choice)) {
	case "c":
		blobName = storage.CommentsBlobName(videoID)
	case "m":
		blobName = storage.MetadataBlobName(videoID)
	default:
		return fmt.Errorf("invalid option %q: must be 'c' or 'm'", strings.TrimSpace(choice))
	}

	localPath := filepath.Join(r.config.DownloadDir, blobName)
	if err := r.blobs.Download(ctx, blobName, localPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "Successfully downloaded %s to %s\n", blobName, localPath)
	return nil
}
