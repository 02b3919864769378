package gcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
)

var (
	// ErrModelRefusal is returned when the model declines to answer.
	ErrModelRefusal = errors.New("model refused to extract")
	// ErrEmptyResponse is returned when the model returns no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// ExtractorConfig holds the generation settings of the extraction model.
type ExtractorConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int32
	MaxRetries  int
}

// VertexClient holds the pre-configured extraction model.
type VertexClient struct {
	ExtractorModel *genai.GenerativeModel
	maxRetries     int
	baseClient     *genai.Client
}

// NewVertexClient creates a new client holding the extraction model.
func NewVertexClient(ctx context.Context, projectID, region string, cfg ExtractorConfig) (*VertexClient, error) {
	if projectID == "" || region == "" {
		return nil, fmt.Errorf("NewVertexClient: projectID and region cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(ExtractionPrompt(time.Now().Year()))},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(cfg.Temperature),
		MaxOutputTokens:  genai.Ptr(cfg.MaxTokens),
	}
	// Listings quote landlords verbatim; blocking them loses posts.
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockNone},
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockNone},
	}

	return &VertexClient{
		ExtractorModel: model,
		maxRetries:     cfg.MaxRetries,
		baseClient:     baseClient,
	}, nil
}

func (c *VertexClient) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// Extract sends one post to the model and returns its raw text answer.
// Transport errors are retried with a doubling backoff; refusals and empty
// answers are not.
func (c *VertexClient) Extract(ctx context.Context, postText string) (string, error) {
	backoff := time.Second
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err := c.ExtractorModel.GenerateContent(ctx, genai.Text("TEXT TO ANALYZE:\n"+postText))
		if err == nil {
			return checkResponse(resp)
		}

		lastErr = err
		if attempt == c.maxRetries {
			break
		}
		slog.Warn("Extraction call failed, will retry.",
			"attempt", attempt+1,
			"maxRetries", c.maxRetries,
			"backoff", backoff.String(),
			"error", err,
		)
		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("failed to generate content from gemini: %w", lastErr)
}

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot answer",
	"i cannot provide",
	"as a large language model",
}

func checkResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		return "", fmt.Errorf("%w: prompt blocked (%s)", ErrModelRefusal, resp.PromptFeedback.BlockReason)
	}
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finished for safety", ErrModelRefusal)
	}

	text := extractText(resp)
	if text == "" {
		return "", ErrEmptyResponse
	}
	lower := strings.ToLower(text)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return "", fmt.Errorf("%w: %q", ErrModelRefusal, phrase)
		}
	}
	return text, nil
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
