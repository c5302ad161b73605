package relevance

import (
	"testing"

	"github.com/odudnyk/cvscout/internal/resume"
)

func fullResume(years float64, skills int) *resume.Resume {
	skillList := make([]string, skills)
	for i := range skillList {
		skillList[i] = "skill"
	}
	return &resume.Resume{
		FullName:        "Тарас Коваленко",
		Position:        "Розробник",
		ExperienceYears: &years,
		Experience:      []resume.Experience{{Position: "Розробник", Years: years}},
		Education:       []resume.Education{{Name: "КПІ", Year: 2018}},
		Skills:          skillList,
		Details:         "Про себе",
		URL:             "https://example.com/r/1",
	}
}

func TestScoreMaximum(t *testing.T) {
	// All six completeness sections, 12 skills, 10+ years: 50 + 30 + 20.
	got := Score(fullResume(10, 12))
	if got != 100 {
		t.Fatalf("got %v, want 100", got)
	}
}

func TestScoreExperienceMonotonicUpToCap(t *testing.T) {
	prev := -1.0
	for years := 0.0; years <= 10; years += 0.5 {
		got := Score(fullResume(years, 0))
		if got < prev {
			t.Fatalf("score decreased at %v years: %v < %v", years, got, prev)
		}
		prev = got
	}

	// Constant beyond the 10-year cap.
	atCap := Score(fullResume(10, 0))
	if beyond := Score(fullResume(25, 0)); beyond != atCap {
		t.Fatalf("score beyond cap %v != score at cap %v", beyond, atCap)
	}
}

func TestScoreEmptyResume(t *testing.T) {
	if got := Score(&resume.Resume{URL: "https://example.com/r/2"}); got != 0 {
		t.Fatalf("got %v, want 0", got)
	}
}

func TestScoreCompletenessPerField(t *testing.T) {
	r := &resume.Resume{URL: "https://example.com/r/3", FullName: "Ім'я"}
	if got := Score(r); got != 5 {
		t.Fatalf("one completeness field: got %v, want 5", got)
	}
	r.Position = "Позиція"
	if got := Score(r); got != 10 {
		t.Fatalf("two completeness fields: got %v, want 10", got)
	}
}

func TestScoreSkillsCapped(t *testing.T) {
	// Skills contribute to both completeness (5) and the skill component.
	three := Score(&resume.Resume{URL: "u", Skills: []string{"a", "b", "c"}})
	if three != 5+6 {
		t.Fatalf("3 skills: got %v, want 11", three)
	}
	many := Score(&resume.Resume{URL: "u", Skills: make([]string, 30)})
	if many != 5+20 {
		t.Fatalf("30 skills: got %v, want 25", many)
	}
}

func TestApplySkipsInvalidRecords(t *testing.T) {
	valid := fullResume(2, 1)
	invalid := fullResume(2, 1)
	invalid.URL = ""

	all := &resume.Resumes{}
	all.Append(valid, invalid)

	Apply(all)

	if valid.Score == nil {
		t.Fatal("valid record was not scored")
	}
	if invalid.Score != nil {
		t.Fatal("invalid record must stay unscored")
	}
}
