package cli

import (
	"strings"

	"agent-finder/internal/api"
	"agent-finder/internal/settings"
)

// loadSettings reads the config file and resolves the effective API base
// URL, letting a per-command --base-url flag win over the file.
func loadSettings(baseURLOverride string) (settings.Settings, string, error) {
	path, err := settings.DefaultPath()
	if err != nil {
		return settings.Settings{}, "", err
	}
	cfg, err := settings.Read(path)
	if err != nil {
		return settings.Settings{}, "", err
	}
	base := firstNonEmpty(strings.TrimSpace(baseURLOverride), cfg.APIBaseURL)
	return cfg, base, nil
}

func newClient(base string, cfg settings.Settings) *api.Client {
	return api.NewClient(base, cfg.Timeout())
}
