package config

import (
	"strings"
	"testing"
)

func TestValidatorChecks(t *testing.T) {
	tests := []struct {
		name      string
		check     func(v *Validator)
		wantError bool
	}{
		{"non-empty value", func(v *Validator) { v.RequireNonEmpty("f", "valid") }, false},
		{"empty value", func(v *Validator) { v.RequireNonEmpty("f", "") }, true},
		{"positive", func(v *Validator) { v.RequirePositive("f", 10) }, false},
		{"zero not positive", func(v *Validator) { v.RequirePositive("f", 0) }, true},
		{"range lower bound", func(v *Validator) { v.ValidateRange("f", 1, 1, 10) }, false},
		{"range above max", func(v *Validator) { v.ValidateRange("f", 11, 1, 10) }, true},
		{"float in range", func(v *Validator) { v.ValidateFloatRange("f", 0.3, 0, 2) }, false},
		{"float above max", func(v *Validator) { v.ValidateFloatRange("f", 2.5, 0, 2) }, true},
		{"redis db", func(v *Validator) { v.ValidateDBNumber("f", 15) }, false},
		{"redis db too high", func(v *Validator) { v.ValidateDBNumber("f", 16) }, true},
		{"one of", func(v *Validator) { v.ValidateOneOf("f", "b", "a", "b") }, false},
		{"not one of", func(v *Validator) { v.ValidateOneOf("f", "c", "a", "b") }, true},
		{"non-empty list", func(v *Validator) { v.RequireNonEmptyList("f", []string{"", "x"}) }, false},
		{"blank list", func(v *Validator) { v.RequireNonEmptyList("f", []string{" "}) }, true},
		{"each one of", func(v *Validator) { v.ValidateEachOneOf("f", []string{"a", "b"}, "a", "b") }, false},
		{"each one of with stranger", func(v *Validator) { v.ValidateEachOneOf("f", []string{"a", "z"}, "a", "b") }, true},
		{"zero is non-negative", func(v *Validator) { v.ValidateNonNegative("f", 0) }, false},
		{"negative", func(v *Validator) { v.ValidateNonNegative("f", -1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			tt.check(v)
			if got := v.HasErrors(); got != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", got, tt.wantError)
			}
			if (v.Error() != nil) != tt.wantError {
				t.Errorf("Error() = %v, wantError %v", v.Error(), tt.wantError)
			}
		})
	}
}

func TestValidatorMultipleErrors(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("name", "").
		RequirePositive("count", -1).
		ValidateOneOf("mode", "x", "a")

	if len(v.Errors()) != 3 {
		t.Fatalf("Errors() returned %d entries, want 3", len(v.Errors()))
	}
	msg := v.Error().Error()
	for _, field := range []string{"name", "count", "mode"} {
		if !strings.Contains(msg, "  - "+field+":") {
			t.Errorf("error message missing field %q:\n%s", field, msg)
		}
	}
}

func TestValidateStageModel(t *testing.T) {
	tests := []struct {
		name      string
		model     StageModel
		wantError bool
	}{
		{"valid", StageModel{Provider: ProviderGroq, Model: "llama-3.1-8b-instant", Temperature: 0.1, MaxTokens: 50}, false},
		{"unknown provider", StageModel{Provider: "cohere", Model: "m", Temperature: 0.1, MaxTokens: 50}, true},
		{"missing model", StageModel{Provider: ProviderOpenAI, Temperature: 0.1, MaxTokens: 50}, true},
		{"temperature too high", StageModel{Provider: ProviderClaude, Model: "m", Temperature: 3, MaxTokens: 50}, true},
		{"no token budget", StageModel{Provider: ProviderGemini, Model: "m", Temperature: 0.1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator().ValidateStageModel("models.draft", tt.model)
			if got := v.HasErrors(); got != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v (%v)", got, tt.wantError, v.Error())
			}
		})
	}
}
