package concept

import (
	"errors"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Type
	}{
		{name: "language", input: "language", expected: TypeLanguage},
		{name: "library", input: "library", expected: TypeLibrary},
		{name: "tool", input: "tool", expected: TypeTool},
		{name: "concept", input: "concept", expected: TypeConcept},
		{name: "methodology", input: "methodology", expected: TypeMethodology},
		{name: "unknown falls back", input: "framework", expected: TypeConcept},
		{name: "empty falls back", input: "", expected: TypeConcept},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseType(tt.input); got != tt.expected {
				t.Errorf("ParseType(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		concept Concept
		wantErr error
	}{
		{
			name:    "valid",
			concept: Concept{Name: "Python", Type: TypeLanguage, Embedding: []float32{1, 0}},
			wantErr: nil,
		},
		{
			name:    "empty name",
			concept: Concept{Embedding: []float32{1, 0}},
			wantErr: ErrEmptyName,
		},
		{
			name:    "missing embedding",
			concept: Concept{Name: "Python"},
			wantErr: ErrEmptyEmbedding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.concept.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	c := Concept{Name: "Docker"}
	c.ApplyDefaults()

	if c.Type != TypeConcept {
		t.Errorf("default type = %q, want %q", c.Type, TypeConcept)
	}
	if c.Importance != DefaultImportance {
		t.Errorf("default importance = %v, want %v", c.Importance, DefaultImportance)
	}

	// Explicit values survive.
	c2 := Concept{Name: "Flask", Type: TypeLibrary, Importance: 0.9}
	c2.ApplyDefaults()
	if c2.Type != TypeLibrary || c2.Importance != 0.9 {
		t.Errorf("ApplyDefaults overwrote explicit fields: %+v", c2)
	}
}
