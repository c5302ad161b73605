// Package relevance computes the single ranking signal for canonical resume
// records. The weights are fixed: comparable scores across sources matter
// more than tunability.
package relevance

import (
	"github.com/odudnyk/cvscout/internal/resume"
)

const (
	experienceWeight     = 5
	experienceCap        = 50.0
	completenessWeight   = 30.0
	completenessSections = 6
	skillWeight          = 2
	skillCap             = 10
)

// Score rates a resume from 0 to 100:
//   - up to 50 points for experience (5 per year, capped at 10 years),
//   - up to 30 points for completeness (5 per present section out of
//     full name, position, experience, education, skills, details),
//   - up to 20 points for skills (2 per skill, capped at 10).
//
// Pure and deterministic; callers apply it exactly once per record.
func Score(r *resume.Resume) float64 {
	var score float64

	if r.ExperienceYears != nil {
		contribution := *r.ExperienceYears * experienceWeight
		if contribution > experienceCap {
			contribution = experienceCap
		}
		if contribution > 0 {
			score += contribution
		}
	}

	present := 0
	for _, filled := range []bool{
		r.FullName != "",
		r.Position != "",
		len(r.Experience) > 0,
		len(r.Education) > 0,
		len(r.Skills) > 0,
		r.Details != "",
	} {
		if filled {
			present++
		}
	}
	score += float64(present) / completenessSections * completenessWeight

	if len(r.Skills) > 0 {
		skills := len(r.Skills)
		if skills > skillCap {
			skills = skillCap
		}
		score += float64(skills * skillWeight)
	}

	return score
}

// Apply scores every record in the collection, setting Score in place.
// Records that fail validation are left unscored.
func Apply(resumes *resume.Resumes) {
	for _, r := range resumes.Items {
		if r.Validate() != nil {
			continue
		}
		s := Score(r)
		r.Score = &s
	}
}
