package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"yt-sentiment/internal/models"
	"yt-sentiment/shared/config"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"google.golang.org/genai"
)

// ErrMissingCredential signals that no API key is configured for the selected
// provider. Callers treat it as "skip summarization", not a crash.
var ErrMissingCredential = errors.New("no LLM API key configured")

const systemPersona = "You are an expert YouTube content analyst who helps creators understand their audience."

// Analyzer turns a comment batch into a sentiment/theme summary through a
// hosted model. Only a bounded random sample of the batch is shown to the
// model, so analysis quality is bounded by sample representativeness.
type Analyzer struct {
	provider   string
	model      string
	maxTokens  int
	sampleSize int
	rng        *rand.Rand

	openai *openai.Client
	gemini *genai.Client
}

func NewAnalyzer(ctx context.Context, cfg *config.AIConfig) (*Analyzer, error) {
	if cfg.APIKeyFor() == "" {
		return nil, ErrMissingCredential
	}

	a := &Analyzer{
		provider:   cfg.Provider,
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		sampleSize: cfg.SampleSize,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	switch cfg.Provider {
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		a.gemini = client
	default:
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		a.openai = &client
	}

	return a, nil
}

// Summarize renders the prompt from the sampled comments plus metadata (a
// nil metadata record gets an explicit placeholder) and requests a bounded
// completion. totalComments is the full batch size, which may exceed
// len(comments) only through the caller's own truncation.
func (a *Analyzer) Summarize(ctx context.Context, comments []models.Comment, meta *models.VideoMetadata, totalComments int) (string, error) {
	sample := a.sample(comments)
	prompt := buildPrompt(meta, sample, totalComments)

	var (
		text string
		err  error
	)
	if a.provider == "gemini" {
		text, err = a.completeGemini(ctx, prompt)
	} else {
		text, err = a.completeOpenAI(ctx, prompt)
	}
	if err != nil {
		return "", fmt.Errorf("failed to analyze comments: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}

	log.Printf("Analysis completed (%d comments sampled of %d)", len(sample), totalComments)
	return text, nil
}

// sample draws a uniform random subset without replacement when the batch is
// larger than the sample size; smaller batches are used verbatim.
func (a *Analyzer) sample(comments []models.Comment) []models.Comment {
	if len(comments) <= a.sampleSize {
		return comments
	}

	picked := make([]models.Comment, 0, a.sampleSize)
	for _, i := range a.rng.Perm(len(comments))[:a.sampleSize] {
		picked = append(picked, comments[i])
	}
	return picked
}

func buildPrompt(meta *models.VideoMetadata, sample []models.Comment, totalComments int) string {
	var videoInfo string
	if meta != nil {
		videoInfo = fmt.Sprintf(`Video Title: %s
Channel: %s
Published: %s
View Count: %d
Like Count: %d
Comment Count: %d`,
			meta.Title, meta.ChannelTitle, meta.PublishedAt,
			meta.ViewCount, meta.LikeCount, meta.CommentCount)
	} else {
		videoInfo = "Video metadata not available."
	}

	var rendered strings.Builder
	for i, comment := range sample {
		fmt.Fprintf(&rendered, "Comment %d:\nText: %s\nAuthor: %s\nLikes: %d\n\n",
			i+1, comment.Text, comment.Author, comment.LikeCount)
	}

	return fmt.Sprintf(`Please analyze these YouTube video comments and provide insights:

%s

SAMPLE COMMENTS (out of %d total comments):
%s
Based on these comments, please provide:
1. A summary of the overall viewer sentiment and key themes
2. Notable patterns or trends in the comments
3. Suggestions for the content creator based on viewer feedback
4. Any issues or concerns that might need addressing`,
		videoInfo, totalComments, rendered.String())
}

func (a *Analyzer) completeOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := a.openai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(a.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPersona),
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(a.maxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (a *Analyzer) completeGemini(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(prompt)}, genai.RoleUser),
	}
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPersona, genai.RoleUser),
		MaxOutputTokens:   int32(a.maxTokens),
	}

	result, err := a.gemini.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}
