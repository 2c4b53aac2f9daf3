package provider

import (
	"context"
	"testing"

	"marginalia/pkg/types"
)

func TestCloudProviderRefusesWithoutKey(t *testing.T) {
	p := NewCloudProvider("", "")
	if _, err := p.Complete(context.Background(), "sys", "note", types.LLMConfig{MaxTokens: 64}); err == nil {
		t.Fatalf("expected error without API key")
	}
	if err := p.CheckConnection(context.Background()); err == nil {
		t.Fatalf("expected connection check failure without API key")
	}
}

func TestCloudProviderWithKey(t *testing.T) {
	p := NewCloudProvider("sk-test", "")
	if p.Name() != CloudAPI {
		t.Fatalf("unexpected name %q", p.Name())
	}
	if err := p.CheckConnection(context.Background()); err != nil {
		t.Fatalf("CheckConnection with key: %v", err)
	}
}
