package ai

import (
	"context"

	"github.com/odudnyk/cvscout/internal/resume"
)

// Query describes what the recruiter is looking for. It is the stable half
// of every evaluation: one query is matched against many candidates.
type Query struct {
	Position string   `json:"position"`
	Skills   []string `json:"skills,omitempty"`
	Location string   `json:"location,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

type FitAssessment struct {
	Fit     bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

type Matcher interface {
	Evaluate(ctx context.Context, query *Query, candidate *resume.Resume) (*FitAssessment, error)
}
