// Package quiz derives multiple-choice similarity questions from the
// concept index.
package quiz

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/videomine/cartographer/internal/concept"
	"github.com/videomine/cartographer/internal/index"
	"github.com/videomine/cartographer/internal/vecmath"
)

// MinConcepts is the smallest index that can yield a question: one prompt,
// one correct answer and three distractors, all distinct.
const MinConcepts = 5

// distractorOffset skips the highest-similarity neighbors so distractors
// are clearly less similar than the correct answer.
const distractorOffset = 3

// Question is an ephemeral similarity question. Options holds the correct
// answer and the distractors in shuffled order.
type Question struct {
	ID            string
	Prompt        string
	CorrectAnswer string
	Distractors   []string
	Options       []string
}

// Generator produces quiz questions from the current index snapshot.
type Generator struct {
	idx *index.Index
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed fixes the rng so question selection is reproducible in tests.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates a quiz generator over the given index.
func New(idx *index.Index, opts ...Option) *Generator {
	g := &Generator{
		idx: idx,
		rng: rand.New(rand.NewSource(rand.Int63())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next picks a random prompt concept and builds a question around it: the
// correct answer is the prompt's nearest neighbor by cosine similarity, the
// distractors come from further down the ranking.
func (g *Generator) Next() (Question, error) {
	concepts := g.idx.All()
	if len(concepts) == 0 {
		return Question{}, fmt.Errorf("quiz: %w", vecmath.ErrEmptyInput)
	}
	if len(concepts) < MinConcepts {
		return Question{}, fmt.Errorf("%w: quiz needs at least %d concepts, have %d",
			concept.ErrInvalidArgument, MinConcepts, len(concepts))
	}

	prompt := concepts[g.rng.Intn(len(concepts))]

	ranked, err := rankOthers(prompt, concepts)
	if err != nil {
		return Question{}, err
	}

	correct := ranked[0]

	// Distractors start a few ranks below the correct answer (lower
	// similarity); near the end of the list we take whatever remains.
	start := distractorOffset
	if start > len(ranked)-3 {
		start = len(ranked) - 3
	}
	distractors := []string{ranked[start], ranked[start+1], ranked[start+2]}

	options := append([]string{correct}, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return Question{
		ID:            uuid.NewString(),
		Prompt:        prompt.Name,
		CorrectAnswer: correct,
		Distractors:   distractors,
		Options:       options,
	}, nil
}

// Answer returns the expected answer for a prompt: its nearest neighbor in
// the index by cosine similarity, excluding itself.
func (g *Generator) Answer(prompt string) (string, error) {
	c, err := g.idx.Get(prompt)
	if err != nil {
		return "", err
	}
	concepts := g.idx.All()
	if len(concepts) < 2 {
		return "", fmt.Errorf("quiz: %w", vecmath.ErrEmptyInput)
	}

	ranked, err := rankOthers(c, concepts)
	if err != nil {
		return "", err
	}
	return ranked[0], nil
}

// Check reports whether the chosen answer is the question's correct answer.
// Pure equality, no side effects.
func Check(q Question, chosen string) bool {
	return chosen == q.CorrectAnswer
}

// rankOthers sorts all concepts except the prompt by similarity to it,
// descending, ties keeping index order.
func rankOthers(prompt concept.Concept, concepts []concept.Concept) ([]string, error) {
	type scored struct {
		name  string
		score float64
	}

	others := make([]scored, 0, len(concepts)-1)
	for _, c := range concepts {
		if c.Name == prompt.Name {
			continue
		}
		score, err := vecmath.Cosine(prompt.Embedding, c.Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring %q: %w", c.Name, err)
		}
		others = append(others, scored{name: c.Name, score: score})
	}

	sort.SliceStable(others, func(i, j int) bool {
		return others[i].score > others[j].score
	})

	names := make([]string, len(others))
	for i, s := range others {
		names[i] = s.name
	}
	return names, nil
}
