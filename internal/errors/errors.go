package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrTrackNotFound       = errors.New("track not found")
	ErrNoStream            = errors.New("no playable stream")
	ErrNoAudio             = errors.New("no audio rendition")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProxyUnreachable    = errors.New("proxy unreachable")
	ErrLyricsNotFound      = errors.New("lyrics not found")
	ErrEmptyQueue          = errors.New("queue is empty")
	ErrTransportDead       = errors.New("no active stream")
	ErrPlaylistNotFound    = errors.New("playlist not found")
	ErrTimeout             = errors.New("request timeout")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// AriaError wraps an error with a user-friendly suggestion.
type AriaError struct {
	Err        error
	Suggestion string
}

func (e *AriaError) Error() string {
	return e.Err.Error()
}

func (e *AriaError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &AriaError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already an AriaError with suggestion
	var ariaErr *AriaError
	if errors.As(err, &ariaErr) && ariaErr.Suggestion != "" {
		return ariaErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	if errors.Is(err, ErrTrackNotFound) || strings.Contains(errStr, "track not found") {
		return "Try a simpler query, or search first with 'aria search'"
	}

	if errors.Is(err, ErrNoStream) || errors.Is(err, ErrNoAudio) {
		return "The matched video has no usable audio. Try another track"
	}

	if errors.Is(err, ErrProviderUnavailable) || strings.Contains(errStr, "all instances failed") {
		return "Every public instance is down right now. Try again in a few minutes"
	}

	if errors.Is(err, ErrProxyUnreachable) || strings.Contains(errStr, "received html") {
		return "Start the pass-through proxy with 'aria proxy' or point proxy_url at a running one"
	}

	if errors.Is(err, ErrEmptyQueue) {
		return "Queue something first with 'aria play <query>'"
	}

	if errors.Is(err, ErrPlaylistNotFound) {
		return "Run 'aria playlist list' to see your playlists"
	}

	if errors.Is(err, ErrTimeout) || strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection refused") {
		return "Check your internet connection and try again"
	}

	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Check ~/.config/aria/config.toml for mistakes"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
