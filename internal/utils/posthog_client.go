package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

const posthogEndpoint = "https://eu.i.posthog.com"

// PosthogClientWrapper sends product analytics events. Without an API key every call is a no-op.
type PosthogClientWrapper struct {
	client posthog.Client
	logger *slog.Logger
}

// InitializePosthogClient returns a wrapper for apiKey. Failures are logged, never fatal.
func InitializePosthogClient(apiKey string, logger *slog.Logger) *PosthogClientWrapper {
	w := &PosthogClientWrapper{logger: logger}
	if apiKey == "" {
		logger.Warn("POSTHOG_API_KEY not set, analytics disabled")
		return w
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: posthogEndpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("error", err.Error()))
		return w
	}
	logger.Info("Posthog client initialized")
	w.client = client
	return w
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.client != nil
}

// Enqueue queues event for the user. Delivery happens in the background.
func (w *PosthogClientWrapper) Enqueue(userID string, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	err := w.client.Enqueue(posthog.Capture{
		DistinctId: userID,
		Event:      event,
		Properties: posthog.Properties(properties),
	})
	if err != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes queued events.
func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.client.Close(); err != nil {
		w.logger.Warn("Failed to close posthog client", slog.String("error", err.Error()))
	}
}
