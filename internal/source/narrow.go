package source

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/odudnyk/cvscout/internal/resume"
)

// NarrowOptions are the post-scrape predicates. Nil / empty members impose no
// constraint.
type NarrowOptions struct {
	MinExperience *float64
	Skills        []string
	Location      string
	MinSalary     *float64
}

// Narrow keeps the records passing every supplied predicate, preserving the
// original order. Pure: the input collection is not modified.
func Narrow(resumes *resume.Resumes, opts NarrowOptions) *resume.Resumes {
	wanted := skillSet(opts.Skills)
	location := strings.ToLower(strings.TrimSpace(opts.Location))

	kept := &resume.Resumes{}
	for _, r := range resumes.Items {
		if opts.MinExperience != nil {
			if r.ExperienceYears == nil || *r.ExperienceYears < *opts.MinExperience {
				continue
			}
		}

		if wanted.Cardinality() > 0 && !wanted.IsSubset(skillSet(r.Skills)) {
			continue
		}

		if location != "" && !strings.Contains(strings.ToLower(r.Location), location) {
			continue
		}

		if opts.MinSalary != nil {
			if r.Salary == nil || *r.Salary < *opts.MinSalary {
				continue
			}
		}

		kept.Append(r)
	}

	return kept
}

// skillSet folds skills to lower case so subset checks are case-insensitive.
func skillSet(skills []string) mapset.Set[string] {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, s := range skills {
		set.Add(strings.ToLower(strings.TrimSpace(s)))
	}
	return set
}
