package gemini

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Per-call deadlines; the upstream API has no timeout contract of its own.
const (
	replyTimeout = 60 * time.Second
	titleTimeout = 15 * time.Second
	ttsTimeout   = 60 * time.Second
)

// thinkingBudget caps reasoning tokens for chat replies (low-effort mode).
const thinkingBudget = 128

// Turn is one (role, text) exchange unit sent to the model.
// Role values match the stored message roles: "user" or "model".
type Turn struct {
	Role string
	Text string
}

// Client wraps the Gemini API for chat replies, title summaries and speech.
type Client struct {
	client     *genai.Client
	chatModel  string
	titleModel string
	ttsModel   string
}

// NewClient creates a Gemini-backed client. The underlying client is
// read-only external state and needs no teardown.
func NewClient(ctx context.Context, apiKey, chatModel, titleModel, ttsModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{
		client:     client,
		chatModel:  chatModel,
		titleModel: titleModel,
		ttsModel:   ttsModel,
	}, nil
}

// GenerateReply sends the full conversation history with a system
// instruction and returns the model's next turn.
func (c *Client) GenerateReply(ctx context.Context, systemInstruction string, history []Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, genai.NewContentFromText(turn.Text, genai.Role(turn.Role)))
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](thinkingBudget),
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.chatModel, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate reply: empty response")
	}
	return text, nil
}

// GenerateTitle runs a single-prompt call with a small output cap, used for
// session title summarization.
func (c *Client) GenerateTitle(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, titleTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: 20,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.titleModel, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return resp.Text(), nil
}

// Synthesize converts text to raw mono 16-bit PCM at 24kHz. All four harm
// categories are set to not-block; a blocked generation is reported with
// its finish reason.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, ttsTimeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: "Kore"},
			},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.ttsModel, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("synthesize speech: no candidates returned")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("synthesize speech: generation blocked (finish reason: %s)", candidate.FinishReason)
	}
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData.Data, nil
		}
	}
	return nil, fmt.Errorf("synthesize speech: no audio data in response")
}
