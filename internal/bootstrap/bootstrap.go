// Package bootstrap wires adapters and services into a runnable agent.
package bootstrap

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"

	"inboxcal/adapter/in/worker"
	"inboxcal/adapter/out/llm"
	"inboxcal/adapter/out/persistence"
	"inboxcal/adapter/out/provider"
	gmailadapter "inboxcal/adapter/out/provider/gmail"
	"inboxcal/config"
	"inboxcal/core/port/out"
	"inboxcal/core/service/extraction"
	"inboxcal/pkg/apperr"
	"inboxcal/pkg/logger"
)

// NewAgent builds the batch runner with real adapters. The returned cleanup
// persists any refreshed OAuth token back through the token store.
func NewAgent(ctx context.Context, cfg *config.Config) (*worker.Runner, func(), error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, nil, apperr.ConfigError("OPENAI_API_KEY is required")
	}
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return nil, nil, apperr.ConfigError("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required")
	}

	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes: []string{
			gmail.GmailReadonlyScope,
			gmail.GmailModifyScope,
			calendar.CalendarEventsScope,
		},
		Endpoint: google.Endpoint,
	}

	var tokenStore out.TokenStore = persistence.NewFileTokenStore(cfg.GoogleTokenFile)
	token, err := tokenStore.Load(ctx)
	if err != nil {
		return nil, nil, apperr.OAuthFailed("google", err)
	}

	mailbox, err := gmailadapter.NewAdapter(ctx, oauthConfig, token)
	if err != nil {
		return nil, nil, err
	}

	cal, err := provider.NewGoogleCalendarAdapter(ctx, oauthConfig, token, cfg.CalendarID, cfg.ReferenceTimezone)
	if err != nil {
		return nil, nil, err
	}

	analyzer := llm.NewAnalyzer(llm.Config{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})

	pipeline, err := extraction.NewPipeline(analyzer, cfg.ReferenceTimezone, nil)
	if err != nil {
		return nil, nil, err
	}

	runner := worker.NewRunner(mailbox, cal, pipeline, cfg.PollDelay, cfg.MaxMessages)

	tokenSource := oauthConfig.TokenSource(ctx, token)
	cleanup := func() {
		current, err := tokenSource.Token()
		if err != nil || current.AccessToken == token.AccessToken {
			return
		}
		if err := tokenStore.Save(context.Background(), current); err != nil {
			logger.Warn("Failed to persist refreshed token: %v", err)
		}
	}

	return runner, cleanup, nil
}
