package faq

// DefaultClarification is sent with every disambiguation response unless configured.
const DefaultClarification = "I'm not sure I understood. Did you mean one of these questions?"

// Config holds runtime knobs for the FAQ service.
type Config struct {
	ClarificationText  string
	SimilarityMetric   string
	TopRecommendations int
}
