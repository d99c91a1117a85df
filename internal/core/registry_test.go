package core

import (
	"slices"
	"testing"
)

func TestRegisterAndNew(t *testing.T) {
	var gotURL string
	Register("test-eco", "https://registry.example", func(baseURL string, client *Client) Registry {
		gotURL = baseURL
		return &stubRegistry{}
	})

	if !slices.Contains(SupportedEcosystems(), "test-eco") {
		t.Fatalf("test-eco not in %v", SupportedEcosystems())
	}
	if DefaultURL("test-eco") != "https://registry.example" {
		t.Errorf("DefaultURL = %q", DefaultURL("test-eco"))
	}

	if _, err := New("test-eco", "", nil); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if gotURL != "https://registry.example" {
		t.Errorf("factory got %q, want default URL", gotURL)
	}

	if _, err := New("test-eco", "http://localhost:1234", nil); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if gotURL != "http://localhost:1234" {
		t.Errorf("factory got %q, want override", gotURL)
	}
}

func TestNew_UnknownEcosystem(t *testing.T) {
	if _, err := New("nope", "", nil); err == nil {
		t.Error("expected error for unknown ecosystem")
	}
}
