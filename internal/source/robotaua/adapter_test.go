package robotaua

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/source"
)

type stubRates struct {
	rate float64
}

func (s stubRates) Rate(context.Context, string, string) (float64, error) {
	return s.rate, nil
}

func newTestParser() *Parser {
	return &Parser{logger: zap.NewNop(), rates: stubRates{rate: 40}}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(source.Deps{Logger: zap.NewNop()})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestBuildURL(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name     string
		criteria source.Criteria
		want     string
	}{
		{
			name:     "defaults",
			criteria: source.Criteria{},
			want:     "https://robota.ua/candidates/all/ukraine",
		},
		{
			name:     "position slug and city",
			criteria: source.Criteria{Position: "python developer", City: "kyiv"},
			want:     "https://robota.ua/candidates/python-developer/kyiv",
		},
		{
			name: "filters travel as encoded json",
			criteria: source.Criteria{
				Position:   "python developer",
				City:       "kyiv",
				SearchType: "everywhere",
				SalaryFrom: 20000,
				Experience: []string{"2", "3"},
				Period:     "Week",
				WithPhoto:  true,
			},
			want: "https://robota.ua/candidates/python-developer/kyiv" +
				"?experienceIds=%5B%222%22%2C%223%22%5D" +
				"&period=%22Week%22" +
				"&salary=%7B%22from%22%3A20000%2C%22to%22%3Anull%7D" +
				"&searchType=%22everywhere%22" +
				"&withPhoto=true",
		},
		{
			name:     "salary upper bound only",
			criteria: source.Criteria{Position: "all", SalaryTo: 50000},
			want:     "https://robota.ua/candidates/all/ukraine?salary=%7B%22from%22%3Anull%2C%22to%22%3A50000%7D",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.BuildURL(tt.criteria); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSplitSkills(t *testing.T) {
	got := splitSkills("Python, Django , , SQL")
	want := []string{"Python", "Django", "SQL"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if splitSkills("") != nil {
		t.Fatal("empty block must yield no skills")
	}
}

func TestSplitLocationYear(t *testing.T) {
	tests := []struct {
		line         string
		wantLocation string
		wantYear     int
	}{
		{"Київ, 2018", "Київ", 2018},
		{"2020", "", 2020},
		{"Львів", "Львів", 0},
		{"", "", 0},
	}

	for _, tt := range tests {
		location, year := splitLocationYear(tt.line)
		if location != tt.wantLocation || year != tt.wantYear {
			t.Fatalf("splitLocationYear(%q) = (%q, %d), want (%q, %d)",
				tt.line, location, year, tt.wantLocation, tt.wantYear)
		}
	}
}

func TestToResume(t *testing.T) {
	p := newTestParser()

	frag := fragment{
		url:               "https://robota.ua/candidates/1234567",
		fullName:          "Марія Коваленко",
		position:          "QA інженер",
		experienceSummary: "4 роки 6 місяців",
		salaryText:        "30 000 грн",
		location:          "Київ",
		details:           "Шукаю продуктову команду.",
		skills:            []string{"Selenium", "Postman"},
		roles: []roleFragment{
			{
				position:    "QA інженер",
				company:     "Продуктова компанія",
				companyType: "IT",
				period:      "2 роки 3 місяці",
				description: "Тестування вебдодатків.",
			},
		},
		educations: []educationFragment{
			{name: "ЛНУ", typeEducation: "Вища", locationYear: "Львів, 2019"},
		},
		languages: []languageFragment{
			{name: "Англійська", level: "Вище середнього"},
		},
	}

	r, err := p.toResume(context.Background(), frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.Salary == nil || *r.Salary != 30000 {
		t.Fatalf("hryvnia salary must pass through unconverted: %v", r.Salary)
	}

	// A single role outweighs the summary line: 2 роки 3 місяці = 2.3.
	if r.ExperienceYears == nil || *r.ExperienceYears != 2.3 {
		t.Fatalf("got experience %v, want 2.3", r.ExperienceYears)
	}

	if len(r.Education) != 1 || r.Education[0].Location != "Львів" || r.Education[0].Year != 2019 {
		t.Fatalf("education not normalized: %+v", r.Education)
	}
	if len(r.Languages) != 1 || r.Languages[0].Name != "Англійська" {
		t.Fatalf("language lost: %+v", r.Languages)
	}
}

func TestToResumeSummaryFallback(t *testing.T) {
	p := newTestParser()

	frag := fragment{
		url:               "https://robota.ua/candidates/7654321",
		fullName:          "Андрій Шевчук",
		experienceSummary: "7 років",
	}

	r, err := p.toResume(context.Background(), frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ExperienceYears == nil || *r.ExperienceYears != 7 {
		t.Fatalf("got experience %v, want 7", r.ExperienceYears)
	}
}
