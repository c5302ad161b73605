package storage

import (
	"testing"

	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/resume"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func storedFixture() *resume.Resumes {
	low, mid, high := 10.0, 50.0, 90.0
	years := 4.5
	salary := 30000.0

	all := &resume.Resumes{}
	all.Append(
		&resume.Resume{
			FullName:        "Іван Іваненко",
			Position:        "Python розробник",
			ExperienceYears: &years,
			Skills:          []string{"Python", "Django"},
			Location:        "Київ",
			Salary:          &salary,
			Score:           &high,
			URL:             "https://www.work.ua/resumes/1/",
			Experience: []resume.Experience{
				{Position: "Розробник", Company: "Софтсерв", Years: 4.5},
			},
			Education: []resume.Education{
				{Name: "КПІ", TypeEducation: "Вища", Location: "Київ", Year: 2018},
			},
			Languages: []resume.Language{
				{Name: "Англійська", Level: "середній"},
			},
		},
		&resume.Resume{FullName: "Б", Score: &low, URL: "https://robota.ua/candidates/2"},
		&resume.Resume{FullName: "В", Score: &mid, URL: "https://robota.ua/candidates/3"},
	)
	return all
}

func TestSaveAndTopRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(storedFixture(), 10); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Top(10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}

	if got.Len() != 3 {
		t.Fatalf("got %d records, want 3", got.Len())
	}

	// Best score first.
	first := got.Items[0]
	if first.URL != "https://www.work.ua/resumes/1/" {
		t.Fatalf("unexpected order: %v", got.URLs())
	}

	if first.ExperienceYears == nil || *first.ExperienceYears != 4.5 {
		t.Fatalf("experience lost: %v", first.ExperienceYears)
	}
	if len(first.Skills) != 2 || first.Skills[1] != "Django" {
		t.Fatalf("skills lost: %v", first.Skills)
	}
	if len(first.Experience) != 1 || first.Experience[0].Company != "Софтсерв" {
		t.Fatalf("experience rows lost: %+v", first.Experience)
	}
	if len(first.Education) != 1 || first.Education[0].Year != 2018 {
		t.Fatalf("education rows lost: %+v", first.Education)
	}
	if len(first.Languages) != 1 || first.Languages[0].Name != "Англійська" {
		t.Fatalf("language rows lost: %+v", first.Languages)
	}
}

func TestSaveReplacesPreviousShortlist(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(storedFixture(), 10); err != nil {
		t.Fatalf("first save: %v", err)
	}

	score := 42.0
	fresh := &resume.Resumes{}
	fresh.Append(&resume.Resume{FullName: "Нова", Score: &score, URL: "https://www.work.ua/resumes/9/"})

	if err := store.Save(fresh, 10); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Top(10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if got.Len() != 1 || got.Items[0].URL != "https://www.work.ua/resumes/9/" {
		t.Fatalf("old shortlist survived: %v", got.URLs())
	}
}

func TestSaveHonorsLimit(t *testing.T) {
	store := openTestStore(t)

	if err := store.Save(storedFixture(), 2); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Top(0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d records, want 2", got.Len())
	}

	// The two best scores survive the cut.
	for _, r := range got.Items {
		if r.URL == "https://robota.ua/candidates/2" {
			t.Fatalf("lowest score must be cut: %v", got.URLs())
		}
	}
}

func TestSaveDropsInvalidRecords(t *testing.T) {
	store := openTestStore(t)

	batch := &resume.Resumes{}
	batch.Append(&resume.Resume{FullName: "Безпосилання"})

	if err := store.Save(batch, 10); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Top(10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if got.Len() != 0 {
		t.Fatalf("invalid record persisted: %v", got.URLs())
	}
}
