package llm

import (
	"strings"
	"testing"
	"time"
)

func TestBuildUserPrompt(t *testing.T) {
	now := time.Date(2025, 9, 19, 15, 0, 0, 0, time.FixedZone("UTC+3", 3*60*60))
	prompt := buildUserPrompt("Lunch tomorrow at noon?", now, "Asia/Riyadh")

	if !strings.Contains(prompt, "2025-09-19T15:00:00+03:00") {
		t.Errorf("prompt missing reference time: %s", prompt)
	}
	if !strings.Contains(prompt, "Asia/Riyadh") {
		t.Errorf("prompt missing reference timezone: %s", prompt)
	}
	if !strings.Contains(prompt, "Lunch tomorrow at noon?") {
		t.Errorf("prompt missing email body: %s", prompt)
	}
}

func TestSystemPromptContract(t *testing.T) {
	// The behavioral requirements placed on the model.
	for _, want := range []string{
		"explanation",
		"meeting_details",
		"start_time",
		"end_time",
		"attendees",
		"online_meeting_url",
		"one hour",
		"current year",
		"only attendee",
		"UTC offset",
	} {
		if !strings.Contains(systemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestTruncateBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		maxLen   int
		expected string
	}{
		{
			name:     "short body",
			body:     "Hello world",
			maxLen:   100,
			expected: "Hello world",
		},
		{
			name:     "exact length",
			body:     "Hello",
			maxLen:   5,
			expected: "Hello",
		},
		{
			name:     "truncated",
			body:     "Hello world, this is a long message",
			maxLen:   10,
			expected: "Hello worl...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateBody(tt.body, tt.maxLen)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestNewAnalyzerDefaults(t *testing.T) {
	a := NewAnalyzer(Config{APIKey: "test"})
	if a.model != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, a.model)
	}
	if a.maxTokens != 1024 {
		t.Errorf("expected max tokens 1024, got %d", a.maxTokens)
	}

	a = NewAnalyzer(Config{APIKey: "test", Model: "gpt-4o", MaxTokens: 256, Temperature: 0.5})
	if a.model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %s", a.model)
	}
	if a.maxTokens != 256 {
		t.Errorf("expected max tokens 256, got %d", a.maxTokens)
	}
	if a.temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %v", a.temperature)
	}
}
