package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"GPT-4", "gpt-4", true},
		{"GPT-3.5-Turbo", "gpt-3.5-turbo", true},
		{"GPT-4o", "gpt-4o", true},
		{"ChatGPT", "chatgpt", true},
		{"Ada", "ada", true},
		{"gpt-4", "", false},
		{"GPT-5", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveModel(tt.name)
			if !tt.wantOK {
				if !errors.Is(err, ErrModelNotFound) {
					t.Errorf("ResolveModel(%q) error = %v, want ErrModelNotFound", tt.name, err)
				}
				if errors.Is(err, ErrAPI) {
					t.Errorf("ResolveModel(%q) error should not be an API error", tt.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveModel(%q) unexpected error = %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ResolveModel(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestResolveModel_ErrorListsOptions(t *testing.T) {
	_, err := ResolveModel("Bogus")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "Bogus") {
		t.Errorf("error %q should name the invalid model", msg)
	}
	for _, name := range Models() {
		if !strings.Contains(msg, name) {
			t.Errorf("error %q should list %s", msg, name)
		}
	}
}

func TestModels(t *testing.T) {
	models := Models()
	if len(models) != 25 {
		t.Errorf("len(Models()) = %d, want 25", len(models))
	}
	if models[0] != DefaultModel {
		t.Errorf("Models()[0] = %s, want %s", models[0], DefaultModel)
	}
	if !ValidModel(DefaultModel) {
		t.Error("default model must be allow-listed")
	}

	models[0] = "changed"
	if Models()[0] != DefaultModel {
		t.Error("Models() must return a copy")
	}
}
