package cli

import (
	"flag"
	"fmt"
	"strings"

	"agent-finder/internal/settings"
)

func runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	setBase := fs.String("set-base-url", "", "set the API base URL")
	setNotify := fs.String("set-notify", "", "enable desktop notifications: on|off")
	setTimeout := fs.Int("set-timeout", 0, "request timeout in seconds")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := settings.Read(path)
	if err != nil {
		return err
	}

	changed := false
	if v := strings.TrimSpace(*setBase); v != "" {
		cfg.APIBaseURL = v
		changed = true
	}
	if v := strings.ToLower(strings.TrimSpace(*setNotify)); v != "" {
		switch v {
		case "on", "true", "yes":
			on := true
			cfg.Notify = &on
		case "off", "false", "no":
			off := false
			cfg.Notify = &off
		default:
			return fmt.Errorf("invalid --set-notify %q (expected on or off)", *setNotify)
		}
		changed = true
	}
	if *setTimeout > 0 {
		cfg.RequestTimeoutSeconds = *setTimeout
		changed = true
	}

	if changed {
		cfg, err = settings.Update(path, cfg)
		if err != nil {
			return err
		}
	}

	if *jsonOut {
		return printJSON(cfg)
	}
	fmt.Printf("config: %s\n", path)
	fmt.Printf("  api_base_url: %s\n", cfg.APIBaseURL)
	fmt.Printf("  notify:       %v\n", cfg.NotifyEnabled())
	fmt.Printf("  timeout:      %ds\n", cfg.RequestTimeoutSeconds)
	return nil
}
