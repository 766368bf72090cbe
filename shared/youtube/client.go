package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"yt-sentiment/internal/models"
	"yt-sentiment/shared/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	// ErrMissingCredential means no API key and no OAuth client is configured.
	// Checked before any network call.
	ErrMissingCredential = errors.New("no YouTube credential configured")

	// ErrVideoNotFound means the video ID resolved to an empty result set.
	ErrVideoNotFound = errors.New("video not found or not accessible")

	// ErrCommentsDisabled is the service's distinct "comments are turned off"
	// condition, separate from generic API failures.
	ErrCommentsDisabled = errors.New("comments are disabled for this video")
)

type Client struct {
	service  *youtube.Service
	pageSize int64
}

// NewClient builds a Data API client. An API key is the default credential;
// when absent, an OAuth client ID/secret pair selects the device
// authorization flow with a persisted, auto-refreshing token.
func NewClient(ctx context.Context, cfg *config.YouTubeConfig, pageSize int) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	case cfg.ClientID != "" && cfg.ClientSecret != "":
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/youtube.readonly"},
			Endpoint:     google.Endpoint,
		}
		token, err := getToken(ctx, oauthConfig, cfg.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to get OAuth token: %w", err)
		}
		source := &tokenSaver{config: oauthConfig, token: token, tokenFile: cfg.TokenFile}
		opts = append(opts, option.WithHTTPClient(oauth2.NewClient(ctx, source)))
	default:
		return nil, ErrMissingCredential
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service, pageSize: int64(pageSize)}, nil
}

// FetchMetadata retrieves the single metadata record for a video.
func (c *Client) FetchMetadata(ctx context.Context, videoID string) (*models.VideoMetadata, error) {
	resp, err := c.service.Videos.List([]string{"snippet", "statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("metadata request for %s failed: %w", videoID, err)
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrVideoNotFound)
	}

	item := resp.Items[0]
	meta := &models.VideoMetadata{
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		PublishedAt:  item.Snippet.PublishedAt,
	}
	if item.Statistics != nil {
		meta.ViewCount = int64(item.Statistics.ViewCount)
		meta.LikeCount = int64(item.Statistics.LikeCount)
		meta.CommentCount = int64(item.Statistics.CommentCount)
	}

	return meta, nil
}

// commentPage is one page of flattened top-level comments plus the token for
// the next page ("" when the service reports no further pages).
type commentPage struct {
	comments  []models.Comment
	nextToken string
}

type pageFetch func(pageToken string) (*commentPage, error)

// FetchComments pages through the comment threads for a video, flattening
// top-level comments until limit is reached or the service runs out of
// pages. On ErrCommentsDisabled the comments accumulated so far (usually
// none) are still returned so the caller can write a well-formed empty file.
func (c *Client) FetchComments(ctx context.Context, videoID string, limit int) ([]models.Comment, error) {
	fetch := func(pageToken string) (*commentPage, error) {
		call := c.service.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(c.pageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, classifyCommentsError(err)
		}

		page := &commentPage{nextToken: resp.NextPageToken}
		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
				continue
			}
			s := item.Snippet.TopLevelComment.Snippet
			page.comments = append(page.comments, models.Comment{
				Author:      s.AuthorDisplayName,
				Text:        s.TextDisplay,
				LikeCount:   s.LikeCount,
				PublishedAt: s.PublishedAt,
			})
		}
		return page, nil
	}

	return collectComments(fetch, limit)
}

// collectComments drives the pagination loop. Factored over the page fetch
// so tests can feed it a fake service with unlimited pages.
func collectComments(fetch pageFetch, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	token := ""

	for len(comments) < limit {
		page, err := fetch(token)
		if err != nil {
			return comments, err
		}
		if len(page.comments) == 0 {
			break
		}

		for _, comment := range page.comments {
			comments = append(comments, comment)
			if len(comments) >= limit {
				return comments, nil
			}
		}

		if page.nextToken == "" {
			break
		}
		token = page.nextToken
	}

	return comments, nil
}

func classifyCommentsError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 403 {
		for _, item := range apiErr.Errors {
			if item.Reason == "commentsDisabled" {
				return ErrCommentsDisabled
			}
		}
		if strings.Contains(apiErr.Message, "disabled comments") {
			return ErrCommentsDisabled
		}
	}
	return fmt.Errorf("comment request failed: %w", err)
}

// tokenSaver wraps an oauth2.TokenSource so refreshed tokens are written
// back to disk and survive restarts.
type tokenSaver struct {
	config    *oauth2.Config
	token     *oauth2.Token
	tokenFile string
	mu        sync.Mutex
}

func (ts *tokenSaver) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	newToken, err := ts.config.TokenSource(context.Background(), ts.token).Token()
	if err != nil {
		return nil, err
	}

	if newToken.AccessToken != ts.token.AccessToken {
		log.Println("Token refreshed, saving to file")
		ts.token = newToken
		if err := saveToken(ts.tokenFile, newToken); err != nil {
			log.Printf("Warning: Failed to save refreshed token: %v", err)
		}
	}

	return newToken, nil
}

// getToken loads a token from disk, preferring anything with a refresh token
// (even expired — the tokenSaver refreshes it), and falls back to the device
// authorization flow.
func getToken(ctx context.Context, config *oauth2.Config, tokenFile string) (*oauth2.Token, error) {
	tok, err := tokenFromFile(tokenFile)
	if err == nil {
		if tok.RefreshToken != "" {
			log.Printf("Loaded token from file (expires: %v)", tok.Expiry)
			return tok, nil
		}
		if tok.Valid() {
			return tok, nil
		}
	}

	log.Println("Getting new token via device authorization...")
	tok, err = getTokenWithDeviceFlow(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("device authorization failed: %w", err)
	}

	if err := saveToken(tokenFile, tok); err != nil {
		log.Printf("Warning: Failed to save token: %v", err)
	}
	return tok, nil
}

func getTokenWithDeviceFlow(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	resp, err := config.DeviceAuth(ctx, oauth2.AccessTypeOffline)
	if err != nil {
		return nil, fmt.Errorf("unable to start device authorization: %w", err)
	}

	fmt.Printf("\nVisit %s and enter code: %s\n", resp.VerificationURI, resp.UserCode)
	fmt.Println("Waiting for authorization to complete... (Ctrl+C to cancel)")

	tok, err := config.DeviceAccessToken(ctx, resp, oauth2.AccessTypeOffline)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			log.Printf("Device authorization response failed (%s): %s", retrieveErr.Response.Status, strings.TrimSpace(string(retrieveErr.Body)))
		}
		return nil, fmt.Errorf("device authorization did not complete: %w", err)
	}

	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("unable to create token directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode oauth token: %w", err)
	}
	return nil
}
