package youtube

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"yt-sentiment/internal/models"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func makeComments(n int, prefix string) []models.Comment {
	comments := make([]models.Comment, n)
	for i := range comments {
		comments[i] = models.Comment{
			Author:      fmt.Sprintf("%s-author-%d", prefix, i),
			Text:        fmt.Sprintf("%s-text-%d", prefix, i),
			LikeCount:   int64(i),
			PublishedAt: "2024-01-01T00:00:00Z",
		}
	}
	return comments
}

func TestCollectCommentsHaltsAtCap(t *testing.T) {
	// A service with unlimited pages must be cut off exactly at the cap.
	pages := 0
	infinite := func(token string) (*commentPage, error) {
		pages++
		return &commentPage{
			comments:  makeComments(100, fmt.Sprintf("page%d", pages)),
			nextToken: fmt.Sprintf("token-%d", pages),
		}, nil
	}

	comments, err := collectComments(infinite, 500)
	if err != nil {
		t.Fatalf("collectComments returned error: %v", err)
	}
	if len(comments) != 500 {
		t.Errorf("got %d comments, want exactly 500", len(comments))
	}
	if pages != 5 {
		t.Errorf("fetched %d pages, want 5", pages)
	}
}

func TestCollectCommentsMidPageCap(t *testing.T) {
	fetch := func(token string) (*commentPage, error) {
		return &commentPage{comments: makeComments(100, "p"), nextToken: "more"}, nil
	}

	comments, err := collectComments(fetch, 250)
	if err != nil {
		t.Fatalf("collectComments returned error: %v", err)
	}
	if len(comments) != 250 {
		t.Errorf("got %d comments, want 250", len(comments))
	}
}

func TestCollectCommentsStopsWithoutNextToken(t *testing.T) {
	calls := 0
	fetch := func(token string) (*commentPage, error) {
		calls++
		return &commentPage{comments: makeComments(30, "only")}, nil
	}

	comments, err := collectComments(fetch, 500)
	if err != nil {
		t.Fatalf("collectComments returned error: %v", err)
	}
	if len(comments) != 30 {
		t.Errorf("got %d comments, want 30", len(comments))
	}
	if calls != 1 {
		t.Errorf("fetched %d pages, want 1", calls)
	}
}

func TestCollectCommentsEmptyFirstPage(t *testing.T) {
	fetch := func(token string) (*commentPage, error) {
		return &commentPage{nextToken: "more"}, nil
	}

	comments, err := collectComments(fetch, 500)
	if err != nil {
		t.Fatalf("collectComments returned error: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments, want 0", len(comments))
	}
}

func TestCollectCommentsPropagatesError(t *testing.T) {
	fetch := func(token string) (*commentPage, error) {
		if token == "" {
			return &commentPage{comments: makeComments(50, "first"), nextToken: "second"}, nil
		}
		return nil, ErrCommentsDisabled
	}

	comments, err := collectComments(fetch, 500)
	if !errors.Is(err, ErrCommentsDisabled) {
		t.Fatalf("got error %v, want ErrCommentsDisabled", err)
	}
	// Partial results survive so the caller can still write a file.
	if len(comments) != 50 {
		t.Errorf("got %d comments, want the 50 fetched before the failure", len(comments))
	}
}

func TestClassifyCommentsError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantDisabled bool
	}{
		{
			name: "Disabled reason",
			err: &googleapi.Error{
				Code:   403,
				Errors: []googleapi.ErrorItem{{Reason: "commentsDisabled"}},
			},
			wantDisabled: true,
		},
		{
			name: "Disabled message only",
			err: &googleapi.Error{
				Code:    403,
				Message: "The video identified by the videoId parameter has disabled comments.",
			},
			wantDisabled: true,
		},
		{
			name: "Other 403",
			err: &googleapi.Error{
				Code:   403,
				Errors: []googleapi.ErrorItem{{Reason: "quotaExceeded"}},
			},
			wantDisabled: false,
		},
		{
			name:         "Plain transport error",
			err:          errors.New("connection reset"),
			wantDisabled: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyCommentsError(tt.err)
			if errors.Is(got, ErrCommentsDisabled) != tt.wantDisabled {
				t.Errorf("classifyCommentsError(%v) = %v, wantDisabled=%v", tt.err, got, tt.wantDisabled)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "test_token.json")

	original := &oauth2.Token{
		AccessToken:  "original-access-token",
		RefreshToken: "test-refresh-token",
		Expiry:       time.Now().Add(-time.Hour), // Expired but refreshable
	}

	if err := saveToken(tokenFile, original); err != nil {
		t.Fatalf("Failed to save token: %v", err)
	}

	loaded, err := tokenFromFile(tokenFile)
	if err != nil {
		t.Fatalf("Failed to load saved token: %v", err)
	}
	if loaded.RefreshToken != original.RefreshToken {
		t.Errorf("Refresh token mismatch: got %s, want %s", loaded.RefreshToken, original.RefreshToken)
	}
	if loaded.AccessToken != original.AccessToken {
		t.Errorf("Access token mismatch: got %s, want %s", loaded.AccessToken, original.AccessToken)
	}
}

func TestSaveTokenCreatesParentDir(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "nested", "dir", "token.json")

	if err := saveToken(tokenFile, &oauth2.Token{AccessToken: "tok"}); err != nil {
		t.Fatalf("Failed to save token into nested directory: %v", err)
	}
	if _, err := tokenFromFile(tokenFile); err != nil {
		t.Fatalf("Failed to load token back: %v", err)
	}
}
