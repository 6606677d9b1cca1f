package cartographer

// SimilarityLevel is a qualitative band for a cosine similarity score, used
// by the presentation layer.
type SimilarityLevel string

// Similarity bands.
const (
	LevelVeryHigh SimilarityLevel = "very_high" // >= 0.8
	LevelHigh     SimilarityLevel = "high"      // >= 0.6
	LevelMedium   SimilarityLevel = "medium"    // >= 0.4
	LevelLow      SimilarityLevel = "low"
)

// LevelFor maps a cosine similarity score onto its qualitative band.
func LevelFor(score float64) SimilarityLevel {
	switch {
	case score >= 0.8:
		return LevelVeryHigh
	case score >= 0.6:
		return LevelHigh
	case score >= 0.4:
		return LevelMedium
	default:
		return LevelLow
	}
}
