// Package resume defines the canonical candidate record every source adapter
// maps into, plus the collection helpers the ranking and storage layers rely
// on. Records are immutable after creation except for Score, which the
// relevance scorer sets exactly once before a record leaves the pipeline.
package resume

import (
	"errors"
	"sort"

	"github.com/odudnyk/cvscout/internal/convert"
)

// ErrNoURL marks a record without a source URL. Such records are invalid and
// must not reach scoring or storage.
var ErrNoURL = errors.New("resume has no source url")

// Experience is one role in the candidate's history.
type Experience struct {
	Position    string
	Company     string
	CompanyType string
	Description string
	Years       float64
}

// Education is one education entry.
type Education struct {
	Name          string
	TypeEducation string
	Location      string
	Year          int
}

// Language is a declared language proficiency.
type Language struct {
	Name  string
	Level string
}

// Resume is the canonical record shared by all sources. Optional scalar
// fields are pointers so "absent" stays distinguishable from zero.
type Resume struct {
	FullName        string
	Position        string
	ExperienceYears *float64
	Experience      []Experience
	Education       []Education
	Skills          []string
	Languages       []Language
	Details         string
	Location        string
	// Salary is always in the reference currency (UAH), converted at ingestion.
	Salary *float64
	// URL identifies the record. Required.
	URL   string
	Score *float64
}

// Validate reports whether the record may enter scoring and storage.
func (r *Resume) Validate() error {
	if r.URL == "" {
		return ErrNoURL
	}
	return nil
}

// TotalExperience sums the un-rounded per-role years and rounds once at the
// end, so per-role rounding errors do not compound. Returns nil when there is
// no per-role breakdown to sum.
func (r *Resume) TotalExperience() *float64 {
	if len(r.Experience) == 0 {
		return nil
	}

	var total float64
	for _, e := range r.Experience {
		total += e.Years
	}

	rounded := convert.Round1(total)
	return &rounded
}

// Resumes is an ordered collection of records. Order is the original scrape
// order and is significant: ranking ties are broken by it.
type Resumes struct {
	Items []*Resume
}

func (r *Resumes) Len() int {
	return len(r.Items)
}

func (r *Resumes) Append(items ...*Resume) {
	r.Items = append(r.Items, items...)
}

// URLs returns the source URLs in collection order.
func (r *Resumes) URLs() []string {
	urls := make([]string, 0, len(r.Items))
	for _, item := range r.Items {
		urls = append(urls, item.URL)
	}
	return urls
}

// SortBySalary orders the collection descending by salary, stable, treating
// absent salaries as zero.
func (r *Resumes) SortBySalary() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return deref(r.Items[i].Salary) > deref(r.Items[j].Salary)
	})
}

// SortByExperience orders the collection descending by total experience,
// stable, treating absent experience as zero.
func (r *Resumes) SortByExperience() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return deref(r.Items[i].ExperienceYears) > deref(r.Items[j].ExperienceYears)
	})
}

// Rank returns a new collection with invalid records dropped, the rest
// ordered descending by score (stable, so equal scores keep their scrape
// order) and truncated to at most n entries.
func (r *Resumes) Rank(n int) *Resumes {
	ranked := &Resumes{Items: make([]*Resume, 0, len(r.Items))}
	for _, item := range r.Items {
		if item.Validate() != nil {
			continue
		}
		ranked.Items = append(ranked.Items, item)
	}

	sort.SliceStable(ranked.Items, func(i, j int) bool {
		return deref(ranked.Items[i].Score) > deref(ranked.Items[j].Score)
	})

	if n >= 0 && len(ranked.Items) > n {
		ranked.Items = ranked.Items[:n]
	}

	return ranked
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
