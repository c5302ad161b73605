package filtering

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/ai"
	"github.com/odudnyk/cvscout/internal/resume"
)

type stubMatcher struct {
	fitByURL map[string]bool
	err      error
	calls    int
}

func (s *stubMatcher) Evaluate(_ context.Context, _ *ai.Query, candidate *resume.Resume) (*ai.FitAssessment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	fit := s.fitByURL[candidate.URL]
	return &ai.FitAssessment{Fit: fit, Score: 0.8, Reason: "stub"}, nil
}

func pipelineFixture() *resume.Resumes {
	one, five := 1.0, 5.0

	all := &resume.Resumes{}
	all.Append(
		&resume.Resume{URL: "https://example.com/1", ExperienceYears: &five, Skills: []string{"Python"}},
		&resume.Resume{URL: "https://example.com/2", ExperienceYears: &one, Skills: []string{"Python"}},
		&resume.Resume{URL: "https://example.com/3", ExperienceYears: &five, Skills: []string{"Java"}},
	)
	return all
}

func TestRunAppliesStepsInOrder(t *testing.T) {
	min := 2.0
	cfg := &Config{MinExperience: &min, Skills: []string{"python"}}
	deps := Deps{Logger: zap.NewNop()}

	got, _, err := Run(context.Background(), cfg, deps, Default(), pipelineFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Len() != 1 || got.Items[0].URL != "https://example.com/1" {
		t.Fatalf("unexpected survivors: %v", got.URLs())
	}
}

func TestRunWithoutConstraintsKeepsEverything(t *testing.T) {
	got, _, err := Run(context.Background(), &Config{}, Deps{Logger: zap.NewNop()}, Default(), pipelineFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("got %d resumes, want 3", got.Len())
	}
}

func TestAIFitDropsUnfitAndCollectsAssessments(t *testing.T) {
	matcher := &stubMatcher{fitByURL: map[string]bool{
		"https://example.com/1": true,
		"https://example.com/3": true,
	}}
	cfg := &Config{AI: &AIConfig{
		Enabled:         true,
		Provider:        "gemini",
		MinimumFitScore: 0.5,
		Gemini:          &GeminiConfig{Model: "gemini-2.5-flash"},
	}}
	deps := Deps{Logger: zap.NewNop(), Matcher: matcher, Query: &ai.Query{Position: "Python"}}

	got, assessments, err := Run(context.Background(), cfg, deps, Default(), pipelineFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("unexpected survivors: %v", got.URLs())
	}
	if matcher.calls != 3 {
		t.Fatalf("matcher called %d times, want 3", matcher.calls)
	}
	if len(assessments) != 2 || assessments["https://example.com/1"] == nil {
		t.Fatalf("assessments not collected: %v", assessments)
	}
}

func TestAIFitKeepsCandidateOnEvaluationError(t *testing.T) {
	matcher := &stubMatcher{err: errors.New("quota exceeded")}
	cfg := &Config{AI: &AIConfig{
		Enabled: true,
		Gemini:  &GeminiConfig{Model: "gemini-2.5-flash"},
	}}
	deps := Deps{Logger: zap.NewNop(), Matcher: matcher, Query: &ai.Query{Position: "Python"}}

	got, _, err := Run(context.Background(), cfg, deps, Default(), pipelineFixture())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("evaluation errors must not drop candidates: %v", got.URLs())
	}
}

func TestAIFitValidateRequiresModel(t *testing.T) {
	cfg := &Config{AI: &AIConfig{Enabled: true, Gemini: &GeminiConfig{}}}

	_, _, err := Run(context.Background(), cfg, Deps{Logger: zap.NewNop()}, Default(), pipelineFixture())
	if err == nil {
		t.Fatal("expected validation error for missing model")
	}
}

func TestDisableByName(t *testing.T) {
	steps := Default()
	DisableByName(steps, "ai_fit", "disabled in test")

	for _, status := range Describe(steps) {
		if status.Name == "ai_fit" {
			if status.Enabled {
				t.Fatal("ai_fit must be disabled")
			}
			if status.Reason != "disabled in test" {
				t.Fatalf("unexpected reason: %q", status.Reason)
			}
		}
	}
}
