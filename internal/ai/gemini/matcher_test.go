package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/ai"
	"github.com/odudnyk/cvscout/internal/resume"
)

type stubGenerator struct {
	response  string
	err       error
	cacheName string
	cacheErr  error

	lastPrompt  string
	lastCache   string
	lastPayload string
}

func (s *stubGenerator) EnsureQueryCache(_ context.Context, _, _, payload string) (string, error) {
	s.lastPayload = payload
	if s.cacheErr != nil {
		return "", s.cacheErr
	}
	return s.cacheName, nil
}

func (s *stubGenerator) GenerateContentWithCache(_ context.Context, prompt, cacheName string) (string, error) {
	s.lastPrompt = prompt
	s.lastCache = cacheName
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testQuery() *ai.Query {
	return &ai.Query{Position: "Python розробник", Skills: []string{"Python", "Django"}}
}

func testCandidate() *resume.Resume {
	return &resume.Resume{
		FullName: "Іван Іваненко",
		Position: "Python розробник",
		Skills:   []string{"Python"},
		URL:      "https://www.work.ua/resumes/1234567/",
	}
}

func TestMatcherEvaluate(t *testing.T) {
	stub := &stubGenerator{
		response: `{"fit": true, "score": 0.9, "reason": "Matches skills", "message": "Strong candidate"}`,
		cacheErr: errors.New("caching disabled"),
	}
	matcher := NewMatcher(stub, zap.NewNop(), 0.5, 0)

	assessment, err := matcher.Evaluate(context.Background(), testQuery(), testCandidate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assessment.Fit {
		t.Fatalf("expected fit to be true")
	}
	if assessment.Score != 0.9 {
		t.Fatalf("expected score 0.9, got %v", assessment.Score)
	}
	if assessment.Reason == "" || assessment.Message == "" {
		t.Fatalf("expected reason and message to be populated: %+v", assessment)
	}
	if assessment.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}

	// Without a cache the query travels inline.
	if !strings.Contains(stub.lastPrompt, "Python розробник") {
		t.Fatalf("expected query in prompt, got: %s", stub.lastPrompt)
	}
	if stub.lastCache != "" {
		t.Fatalf("expected no cache name, got %q", stub.lastCache)
	}
}

func TestMatcherUsesQueryCache(t *testing.T) {
	stub := &stubGenerator{
		response:  `{"fit": true, "score": 0.7, "reason": "ok", "message": "ok"}`,
		cacheName: "cachedContents/abc",
	}
	matcher := NewMatcher(stub, zap.NewNop(), 0, 0)

	if _, err := matcher.Evaluate(context.Background(), testQuery(), testCandidate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.lastCache != "cachedContents/abc" {
		t.Fatalf("expected cached content to be used, got %q", stub.lastCache)
	}
	if !strings.Contains(stub.lastPayload, "Django") {
		t.Fatalf("expected query payload in cache, got: %s", stub.lastPayload)
	}
	if strings.Contains(stub.lastPrompt, `"Django"`) {
		t.Fatalf("cached query must not be repeated inline: %s", stub.lastPrompt)
	}
}

func TestMatcherScoreThreshold(t *testing.T) {
	stub := &stubGenerator{
		response: `{"fit": true, "score": 0.3, "reason": "weak overlap", "message": ""}`,
		cacheErr: errors.New("caching disabled"),
	}
	matcher := NewMatcher(stub, zap.NewNop(), 0.5, 0)

	assessment, err := matcher.Evaluate(context.Background(), testQuery(), testCandidate())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessment.Fit {
		t.Fatalf("score below threshold must flip fit to false")
	}
}

func TestMatcherGeneratorError(t *testing.T) {
	stub := &stubGenerator{err: errors.New("quota exceeded"), cacheErr: errors.New("caching disabled")}
	matcher := NewMatcher(stub, zap.NewNop(), 0, 0)

	if _, err := matcher.Evaluate(context.Background(), testQuery(), testCandidate()); err == nil {
		t.Fatalf("expected generator error to propagate")
	}
}

func TestParseResponseFencedJSON(t *testing.T) {
	raw := "```json\n{\"fit\": \"yes\", \"score\": \"0.8\", \"reason\": \"ok\"}\n```"

	assessment, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !assessment.Fit || assessment.Score != 0.8 {
		t.Fatalf("coercion failed: %+v", assessment)
	}
}

func TestParseResponseGarbage(t *testing.T) {
	if _, err := parseResponse("not json at all"); err == nil {
		t.Fatalf("expected parse error")
	}
}
