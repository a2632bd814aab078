// Package settings reads and updates the client configuration file.
package settings

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"agent-finder/internal/localstore"
)

const (
	fileName = "config.json"

	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 30
)

type Settings struct {
	APIBaseURL            string `json:"api_base_url,omitempty"`
	Notify                *bool  `json:"notify,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"`
}

func defaultSettings() Settings {
	return Settings{
		APIBaseURL:            DefaultBaseURL,
		RequestTimeoutSeconds: DefaultTimeoutSeconds,
	}
}

func normalize(raw Settings) Settings {
	norm := raw
	if norm.APIBaseURL == "" {
		norm.APIBaseURL = DefaultBaseURL
	}
	if norm.RequestTimeoutSeconds <= 0 {
		norm.RequestTimeoutSeconds = DefaultTimeoutSeconds
	}
	return norm
}

// NotifyEnabled defaults to on when the file never set it.
func (s Settings) NotifyEnabled() bool {
	if s.Notify == nil {
		return true
	}
	return *s.Notify
}

// Timeout applies to plain request/response calls only; the progress stream
// deliberately runs without one.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

func DefaultPath() (string, error) {
	dir, err := localstore.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Read loads settings from path; a missing file yields defaults.
func Read(path string) (Settings, error) {
	var s Settings
	if err := localstore.ReadJSON(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultSettings(), nil
		}
		return Settings{}, err
	}
	return normalize(s), nil
}

// Update normalizes and persists the given settings, returning what was
// written.
func Update(path string, s Settings) (Settings, error) {
	norm := normalize(s)
	if err := localstore.WriteJSON(path, norm); err != nil {
		return Settings{}, err
	}
	return norm, nil
}
