package settings

import (
	"path/filepath"
	"testing"
	"time"
)

func TestReadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Read(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if s.APIBaseURL != DefaultBaseURL {
		t.Fatalf("expected default base URL, got %q", s.APIBaseURL)
	}
	if s.Timeout() != time.Duration(DefaultTimeoutSeconds)*time.Second {
		t.Fatalf("expected default timeout, got %v", s.Timeout())
	}
	if !s.NotifyEnabled() {
		t.Fatalf("notifications must default to enabled")
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	off := false

	written, err := Update(path, Settings{
		APIBaseURL:            "https://api.example.test",
		Notify:                &off,
		RequestTimeoutSeconds: 5,
	})
	if err != nil {
		t.Fatal(err)
	}
	if written.APIBaseURL != "https://api.example.test" {
		t.Fatalf("unexpected written settings: %+v", written)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.APIBaseURL != "https://api.example.test" || got.RequestTimeoutSeconds != 5 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.NotifyEnabled() {
		t.Fatalf("notify=false must survive the round trip")
	}
}

func TestUpdateNormalizesZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	written, err := Update(path, Settings{})
	if err != nil {
		t.Fatal(err)
	}
	if written.APIBaseURL != DefaultBaseURL || written.RequestTimeoutSeconds != DefaultTimeoutSeconds {
		t.Fatalf("zero values must normalize to defaults, got %+v", written)
	}
}
