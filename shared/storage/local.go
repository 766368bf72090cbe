package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"yt-sentiment/internal/models"
)

const analysisSubdir = "sentiment_analysis"

var (
	metadataHeader = []string{"title", "channelTitle", "publishedAt", "viewCount", "likeCount", "commentCount"}
	commentHeader  = []string{"author", "text", "likeCount", "publishedAt"}
)

// ArtifactDir manages the local staging area for CSV, analysis and summary
// files. Re-running a fetch replaces files wholesale; nothing is mutated in
// place.
type ArtifactDir struct {
	dir string
}

func NewArtifactDir(dir string) *ArtifactDir {
	return &ArtifactDir{dir: dir}
}

func (a *ArtifactDir) MetadataPath(videoID string) string {
	return filepath.Join(a.dir, MetadataBlobName(videoID))
}

func (a *ArtifactDir) CommentsPath(videoID string) string {
	return filepath.Join(a.dir, CommentsBlobName(videoID))
}

func (a *ArtifactDir) AnalysisPath(filename string) string {
	return filepath.Join(a.dir, analysisSubdir, filename)
}

func (a *ArtifactDir) SummaryPath() string {
	return filepath.Join(a.dir, analysisSubdir, "processing_summary.json")
}

// LocalPath maps a blob name onto the staging directory, keeping any
// path-like structure in the name.
func (a *ArtifactDir) LocalPath(blobName string) string {
	return filepath.Join(a.dir, filepath.FromSlash(blobName))
}

func MetadataBlobName(videoID string) string {
	return videoID + "_metadata.csv"
}

func CommentsBlobName(videoID string) string {
	return videoID + "_comments.csv"
}

// WriteMetadata writes the single-row metadata CSV, overwriting any prior
// record for the video.
func (a *ArtifactDir) WriteMetadata(videoID string, meta *models.VideoMetadata) (string, error) {
	row := []string{
		meta.Title,
		meta.ChannelTitle,
		meta.PublishedAt,
		strconv.FormatInt(meta.ViewCount, 10),
		strconv.FormatInt(meta.LikeCount, 10),
		strconv.FormatInt(meta.CommentCount, 10),
	}
	path := a.MetadataPath(videoID)
	if err := a.writeCSV(path, metadataHeader, [][]string{row}); err != nil {
		return "", err
	}
	return path, nil
}

// WriteComments writes the comments CSV. A nil or empty batch still produces
// a well-formed zero-row file with the full header, so downstream stages can
// tell "ran and found nothing" from "never ran".
func (a *ArtifactDir) WriteComments(videoID string, comments []models.Comment) (string, error) {
	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{
			c.Author,
			c.Text,
			strconv.FormatInt(c.LikeCount, 10),
			c.PublishedAt,
		})
	}
	path := a.CommentsPath(videoID)
	if err := a.writeCSV(path, commentHeader, rows); err != nil {
		return "", err
	}
	return path, nil
}

func (a *ArtifactDir) writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	return nil
}

// ReadMetadata loads a metadata CSV back into a record. Returns nil (no
// error) for a header-only file.
func ReadMetadata(path string) (*models.VideoMetadata, error) {
	rows, err := readCSV(path, len(metadataHeader))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	meta := &models.VideoMetadata{
		Title:        row[0],
		ChannelTitle: row[1],
		PublishedAt:  row[2],
	}
	meta.ViewCount, _ = strconv.ParseInt(row[3], 10, 64)
	meta.LikeCount, _ = strconv.ParseInt(row[4], 10, 64)
	meta.CommentCount, _ = strconv.ParseInt(row[5], 10, 64)
	return meta, nil
}

// ReadComments loads a comments CSV. A zero-row file yields an empty batch
// without error.
func ReadComments(path string) ([]models.Comment, error) {
	rows, err := readCSV(path, len(commentHeader))
	if err != nil {
		return nil, err
	}

	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		c := models.Comment{
			Author:      row[0],
			Text:        row[1],
			PublishedAt: row[3],
		}
		c.LikeCount, _ = strconv.ParseInt(row[2], 10, 64)
		comments = append(comments, c)
	}
	return comments, nil
}

func readCSV(path string, wantColumns int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = wantColumns

	// Skip header.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s is empty (missing header)", path)
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteAnalysis persists one LLM analysis as a timestamped text artifact and
// returns its filename (not the full path).
func (a *ArtifactDir) WriteAnalysis(videoID, timestamp, text string) (string, error) {
	filename := fmt.Sprintf("%s_analysis_%s.txt", videoID, timestamp)
	path := a.AnalysisPath(filename)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create analysis directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to write analysis file: %w", err)
	}
	return filename, nil
}

// WriteSummary writes the per-run processing summary, overwriting the
// previous run's file.
func (a *ArtifactDir) WriteSummary(summary *models.ProcessingSummary) (string, error) {
	path := a.SummaryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create analysis directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}
	return path, nil
}
