package faq

import (
	"encoding/json"
	"time"
)

// QAPair is a stored question with its canned answer.
type QAPair struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuestionAssociation links a phrasing that failed to match to the question
// the user picked for it.
type QuestionAssociation struct {
	ID                 int64     `json:"id"`
	OriginalQuestion   string    `json:"originalQuestion"`
	AssociatedQuestion string    `json:"associatedQuestion"`
	Count              int64     `json:"count"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// MatchCandidate is the rating of one candidate string against a query.
type MatchCandidate struct {
	Target string  `json:"target"`
	Rating float64 `json:"rating"`
}

// BestMatch summarizes the ratings of a query against ordered candidates.
type BestMatch struct {
	BestIndex  int
	BestRating float64
	Ratings    []MatchCandidate
}

// SuggestedQuestion is offered to the user when a message was not understood.
type SuggestedQuestion struct {
	Question string  `json:"question"`
	Rating   float64 `json:"rating"`
}

// Outcome identifies which path produced a resolution.
type Outcome string

const (
	OutcomeDirect         Outcome = "direct"
	OutcomeAssociation    Outcome = "association"
	OutcomeDisambiguation Outcome = "disambiguation"
)

// ResolutionResult is the answer to a processed chat message.
type ResolutionResult struct {
	Response            string                `json:"response"`
	Understood          bool                  `json:"understood"`
	PossibleQuestions   []SuggestedQuestion   `json:"possibleQuestions,omitempty"`
	AssociatedQuestions []QuestionAssociation `json:"associatedQuestions,omitempty"`
	Outcome             Outcome               `json:"-"`
}

// MarshalJSON omits the suggestion lists for understood messages and always
// emits them, possibly empty, for disambiguation.
func (r ResolutionResult) MarshalJSON() ([]byte, error) {
	if r.Understood {
		return json.Marshal(struct {
			Response   string `json:"response"`
			Understood bool   `json:"understood"`
		}{r.Response, true})
	}
	possible := r.PossibleQuestions
	if possible == nil {
		possible = []SuggestedQuestion{}
	}
	associated := r.AssociatedQuestions
	if associated == nil {
		associated = []QuestionAssociation{}
	}
	return json.Marshal(struct {
		Response            string                `json:"response"`
		Understood          bool                  `json:"understood"`
		PossibleQuestions   []SuggestedQuestion   `json:"possibleQuestions"`
		AssociatedQuestions []QuestionAssociation `json:"associatedQuestions"`
	}{r.Response, false, possible, associated})
}

// SelectionResult answers a confirmed suggested question.
type SelectionResult struct {
	Response   string `json:"response"`
	Understood bool   `json:"understood"`
}

// AddPairRequest creates a QAPair.
type AddPairRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MessageRequest carries a free-text chat message.
type MessageRequest struct {
	Message string `json:"message"`
}

// SelectionRequest reports which suggested question the user picked.
type SelectionRequest struct {
	OriginalMessage  string `json:"originalMessage"`
	SelectedQuestion string `json:"selectedQuestion"`
}

// AssociationRequest inserts or bumps an association directly.
type AssociationRequest struct {
	OriginalQuestion   string `json:"originalQuestion"`
	AssociatedQuestion string `json:"associatedQuestion"`
}

// TrendingQuery represents a frequently sent message.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// SeedPair is a sample QAPair loaded at startup or by the seed command.
type SeedPair struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// SeedReport summarizes a seeding run.
type SeedReport struct {
	Reset    bool `json:"reset"`
	Inserted int  `json:"inserted"`
	Skipped  int  `json:"skipped"`
}

// Snapshot is a point-in-time copy of both collections.
type Snapshot struct {
	TakenAt      time.Time             `json:"takenAt"`
	Pairs        []QAPair              `json:"pairs"`
	Associations []QuestionAssociation `json:"associations"`
}
