package models

// AnalysisResult describes one completed summarization pass over a comment
// file. Results are append-only: a new timestamped analysis file per pass.
type AnalysisResult struct {
	VideoID      string `json:"video_id"`
	AnalysisFile string `json:"analysis_file"`
	CommentCount int    `json:"comment_count"`
	Timestamp    string `json:"timestamp"`
}

// ProcessingSummary is the per-batch report, overwritten each run.
type ProcessingSummary struct {
	ProcessedDate      string           `json:"processed_date"`
	TotalFiles         int              `json:"total_files"`
	SuccessfulAnalyses int              `json:"successful_analyses"`
	Videos             []AnalysisResult `json:"videos"`
}
