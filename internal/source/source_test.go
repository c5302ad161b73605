package source

import (
	"context"
	"errors"
	"testing"

	"github.com/odudnyk/cvscout/internal/resume"
)

type fakeParser struct {
	resumes *resume.Resumes
}

func (f *fakeParser) Site() string              { return "fake" }
func (f *fakeParser) BuildURL(Criteria) string  { return "https://fake/search" }
func (f *fakeParser) Close() error              { return nil }
func (f *fakeParser) Parse(context.Context, Criteria) (*resume.Resumes, error) {
	return f.resumes, nil
}

func TestGetUnsupportedSite(t *testing.T) {
	_, err := Get("linkedin.com", Deps{})
	if !errors.Is(err, ErrUnsupportedSite) {
		t.Fatalf("expected ErrUnsupportedSite, got %v", err)
	}
}

func TestRegisterAndGet(t *testing.T) {
	Register("fake", func(Deps) (Parser, error) {
		return &fakeParser{resumes: &resume.Resumes{}}, nil
	})
	t.Cleanup(func() { delete(registry, "fake") })

	p, err := Get("fake", Deps{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Site() != "fake" {
		t.Fatalf("unexpected site: %s", p.Site())
	}
}

func TestScrapeScoresEveryRecord(t *testing.T) {
	years := 4.0
	parsed := &resume.Resumes{}
	parsed.Append(
		&resume.Resume{FullName: "A", URL: "https://fake/1", ExperienceYears: &years},
		&resume.Resume{FullName: "B", URL: "https://fake/2"},
	)

	got, err := Scrape(context.Background(), &fakeParser{resumes: parsed}, Criteria{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, r := range got.Items {
		if r.Score == nil {
			t.Fatalf("record %s left unscored", r.URL)
		}
	}
	if *got.Items[0].Score <= *got.Items[1].Score {
		t.Fatalf("experienced record must outscore empty one: %v <= %v",
			*got.Items[0].Score, *got.Items[1].Score)
	}
}

func TestByLabel(t *testing.T) {
	vocab := []Option{{Filter: "kyiv", Label: "Київ"}, {Filter: "", Label: "Вся країна"}}

	opt, ok := ByLabel(vocab, "Київ")
	if !ok || opt.Filter != "kyiv" {
		t.Fatalf("got %+v, ok=%v", opt, ok)
	}
	if _, ok := ByLabel(vocab, "Марс"); ok {
		t.Fatal("unexpected match")
	}

	labels := Labels(vocab)
	if len(labels) != 2 || labels[0] != "Київ" {
		t.Fatalf("labels order not preserved: %v", labels)
	}
}
