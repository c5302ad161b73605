package source

import (
	"testing"

	"github.com/odudnyk/cvscout/internal/resume"
)

func narrowFixture() *resume.Resumes {
	twoYears, fiveYears := 2.0, 5.0
	lowSalary, highSalary := 15000.0, 60000.0

	all := &resume.Resumes{}
	all.Append(
		&resume.Resume{
			URL:             "https://example.com/1",
			ExperienceYears: &fiveYears,
			Skills:          []string{"Python", "Django", "SQL"},
			Location:        "Київ",
			Salary:          &highSalary,
		},
		&resume.Resume{
			URL:             "https://example.com/2",
			ExperienceYears: &twoYears,
			Skills:          []string{"PYTHON"},
			Location:        "Дніпро",
			Salary:          &lowSalary,
		},
		&resume.Resume{
			URL:      "https://example.com/3",
			Skills:   []string{"Java"},
			Location: "Київ",
		},
	)
	return all
}

func TestNarrowNoConstraints(t *testing.T) {
	all := narrowFixture()

	got := Narrow(all, NarrowOptions{})

	if got.Len() != all.Len() {
		t.Fatalf("got %d resumes, want %d", got.Len(), all.Len())
	}
}

func TestNarrowBySkillsCaseInsensitive(t *testing.T) {
	got := Narrow(narrowFixture(), NarrowOptions{Skills: []string{"python"}})

	want := []string{"https://example.com/1", "https://example.com/2"}
	if got.Len() != len(want) {
		t.Fatalf("got %d resumes, want %d", got.Len(), len(want))
	}
	for i, url := range want {
		if got.Items[i].URL != url {
			t.Fatalf("position %d: got %s, want %s (order must be preserved)", i, got.Items[i].URL, url)
		}
	}
}

func TestNarrowRequiresAllSkills(t *testing.T) {
	got := Narrow(narrowFixture(), NarrowOptions{Skills: []string{"python", "django"}})

	if got.Len() != 1 || got.Items[0].URL != "https://example.com/1" {
		t.Fatalf("unexpected result: %v", got.URLs())
	}
}

func TestNarrowByExperience(t *testing.T) {
	min := 3.0
	got := Narrow(narrowFixture(), NarrowOptions{MinExperience: &min})

	// Records without experience fail the threshold too.
	if got.Len() != 1 || got.Items[0].URL != "https://example.com/1" {
		t.Fatalf("unexpected result: %v", got.URLs())
	}
}

func TestNarrowByLocationSubstring(t *testing.T) {
	got := Narrow(narrowFixture(), NarrowOptions{Location: "київ"})

	want := []string{"https://example.com/1", "https://example.com/3"}
	if got.Len() != len(want) {
		t.Fatalf("got %v, want %v", got.URLs(), want)
	}
}

func TestNarrowBySalary(t *testing.T) {
	min := 20000.0
	got := Narrow(narrowFixture(), NarrowOptions{MinSalary: &min})

	if got.Len() != 1 || got.Items[0].URL != "https://example.com/1" {
		t.Fatalf("unexpected result: %v", got.URLs())
	}
}

func TestNarrowCombinedPredicates(t *testing.T) {
	min := 1.0
	got := Narrow(narrowFixture(), NarrowOptions{
		MinExperience: &min,
		Skills:        []string{"Python"},
		Location:      "Дніпро",
	})

	if got.Len() != 1 || got.Items[0].URL != "https://example.com/2" {
		t.Fatalf("unexpected result: %v", got.URLs())
	}
}
