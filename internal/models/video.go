package models

// VideoMetadata is the single-row record fetched for a video. Timestamps stay
// as the RFC3339 strings the API returns so the CSV round-trips byte-for-byte.
type VideoMetadata struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}

// Comment is one flattened top-level comment. Order follows API pagination
// order, which is not guaranteed chronological.
type Comment struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	LikeCount   int64  `json:"like_count"`
	PublishedAt string `json:"published_at"`
}
