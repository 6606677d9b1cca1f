// Package concept defines the core domain types for mined concepts.
package concept

import "errors"

// Type categorizes a concept.
type Type string

// Known concept types.
const (
	TypeLanguage    Type = "language"
	TypeLibrary     Type = "library"
	TypeTool        Type = "tool"
	TypeConcept     Type = "concept"
	TypeMethodology Type = "methodology"
)

// DefaultImportance is the neutral importance assigned when the feed omits
// the field.
const DefaultImportance = 0.5

// Validation errors.
var (
	ErrEmptyName       = errors.New("concept name is required")
	ErrEmptyEmbedding  = errors.New("concept embedding is required")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Concept represents a named entity (technology, idea, method) tracked by
// the index. Name is the unique canonical key; alias resolution happens
// upstream, before a concept reaches this package.
type Concept struct {
	Name         string    `json:"name"`
	Type         Type      `json:"type"`
	Embedding    []float32 `json:"-"`
	SourceVideos []string  `json:"source_videos,omitempty"`
	Importance   float64   `json:"importance,omitempty"`
}

// ParseType maps a raw type string to a known Type. Unknown or empty values
// fall back to the generic TypeConcept rather than failing, since the feed
// originates from loosely-shaped extractor output.
func ParseType(s string) Type {
	switch Type(s) {
	case TypeLanguage, TypeLibrary, TypeTool, TypeConcept, TypeMethodology:
		return Type(s)
	default:
		return TypeConcept
	}
}

// Validate checks that the concept can enter an index.
func (c *Concept) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if len(c.Embedding) == 0 {
		return ErrEmptyEmbedding
	}
	return nil
}

// ApplyDefaults fills optional fields that the feed may omit.
func (c *Concept) ApplyDefaults() {
	if c.Type == "" {
		c.Type = TypeConcept
	}
	if c.Importance <= 0 {
		c.Importance = DefaultImportance
	}
}
