// Package llm provides the OpenAI-backed analyzer adapter.
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"inboxcal/pkg/apperr"
)

const (
	DefaultModel = "gpt-4o-mini"

	maxBodyLen = 6000
)

// Analyzer implements out.AnalyzerPort using the OpenAI chat API.
type Analyzer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// Config holds analyzer configuration.
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewAnalyzer creates an Analyzer, filling in defaults for unset fields.
func NewAnalyzer(cfg Config) *Analyzer {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}
	return &Analyzer{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

const systemPrompt = `You are a meeting scheduling assistant. Analyze the email and decide whether it is a meeting invitation.

Always respond with exactly one JSON object and nothing else. No prose, no Markdown fences.

The JSON object must have these keys:
- explanation: a string explaining why no meeting could be scheduled. Empty when a meeting is found.
- meeting_details: an object, populated only when a meeting with a start time is found, with keys:
    - subject: the meeting subject.
    - start_time: start date and time in ISO 8601 format with an explicit UTC offset.
    - end_time: end date and time in ISO 8601 format with an explicit UTC offset.
    - attendees: a list of attendee email addresses.
    - location: the physical location, empty string if none.
    - online_meeting_url: the online meeting link, empty string if none.

Rules:
- If no end time is mentioned, assume the meeting lasts exactly one hour and set end_time accordingly.
- If no year is mentioned, assume the current year.
- If no attendees are mentioned, assume the sender is the only attendee and include their address.
- Interpret relative date expressions ("tomorrow", "next Friday") against the reference time and timezone given below.
- If the extracted start time is not strictly in the future relative to the reference time, leave meeting_details empty and give a concise reason in explanation.
- If the email is not a meeting invitation or no start time can be found, leave meeting_details empty and give a concise reason in explanation.
- Every timestamp you emit must carry an explicit UTC offset.`

// buildUserPrompt anchors the model with the reference clock and zone
// before handing it the email content.
func buildUserPrompt(body string, now time.Time, timezone string) string {
	return fmt.Sprintf("Reference time: %s\nReference timezone: %s\n\nEmail content:\n%s",
		now.Format(time.RFC3339), timezone, truncateBody(body, maxBodyLen))
}

// Analyze asks the model for a verdict on one email body. The reply is raw
// text; interpretation is the pipeline's job.
func (a *Analyzer) Analyze(ctx context.Context, body string, now time.Time, timezone string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		MaxTokens:   a.maxTokens,
		Temperature: a.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(body, now, timezone),
			},
		},
	})
	if err != nil {
		return "", apperr.AnalyzerError(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func truncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "..."
}
