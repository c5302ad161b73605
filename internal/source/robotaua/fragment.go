package robotaua

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/odudnyk/cvscout/internal/convert"
	"github.com/odudnyk/cvscout/internal/resume"
)

// fragment holds the raw text of one resume page. robota.ua renders each
// field in its own element, so unlike work.ua there is nothing to tease
// apart from combined lines except the education footer.
type fragment struct {
	url               string
	fullName          string
	position          string
	experienceSummary string
	roles             []roleFragment
	educations        []educationFragment
	skills            []string
	languages         []languageFragment
	details           string
	location          string
	salaryText        string
}

type roleFragment struct {
	position    string
	company     string
	companyType string
	period      string
	description string
}

// educationFragment keeps the "Київ, 2018" footer unsplit.
type educationFragment struct {
	name          string
	typeEducation string
	locationYear  string
}

type languageFragment struct {
	name  string
	level string
}

// toResume normalizes one scraped fragment into the canonical record.
func (p *Parser) toResume(ctx context.Context, frag fragment) (*resume.Resume, error) {
	if frag.url == "" {
		return nil, resume.ErrNoURL
	}
	if frag.fullName == "" {
		return nil, fmt.Errorf("resume %s: name block missing", frag.url)
	}

	roles := make([]resume.Experience, 0, len(frag.roles))
	for _, role := range frag.roles {
		roles = append(roles, resume.Experience{
			Position:    strings.TrimSpace(role.position),
			Company:     strings.TrimSpace(role.company),
			CompanyType: strings.TrimSpace(role.companyType),
			Description: strings.TrimSpace(role.description),
			Years:       convert.Duration(role.period),
		})
	}

	educations := make([]resume.Education, 0, len(frag.educations))
	for _, edu := range frag.educations {
		location, year := splitLocationYear(edu.locationYear)
		educations = append(educations, resume.Education{
			Name:          strings.TrimSpace(edu.name),
			TypeEducation: strings.TrimSpace(edu.typeEducation),
			Location:      location,
			Year:          year,
		})
	}

	languages := make([]resume.Language, 0, len(frag.languages))
	for _, lang := range frag.languages {
		if lang.name == "" {
			continue
		}
		languages = append(languages, resume.Language{
			Name:  strings.TrimSpace(lang.name),
			Level: strings.TrimSpace(lang.level),
		})
	}

	salary, err := convert.Salary(ctx, frag.salaryText, p.rates)
	if err != nil {
		return nil, err
	}

	r := &resume.Resume{
		FullName:   strings.TrimSpace(frag.fullName),
		Position:   strings.TrimSpace(frag.position),
		Experience: roles,
		Education:  educations,
		Skills:     frag.skills,
		Languages:  languages,
		Details:    strings.TrimSpace(frag.details),
		Location:   strings.TrimSpace(frag.location),
		Salary:     salary,
		URL:        frag.url,
	}

	if total := r.TotalExperience(); total != nil {
		r.ExperienceYears = total
	} else if years := convert.Duration(frag.experienceSummary); years > 0 {
		r.ExperienceYears = &years
	}

	return r, nil
}

// splitSkills breaks the comma-joined skills block into clean entries.
func splitSkills(text string) []string {
	var skills []string
	for _, part := range strings.Split(text, ",") {
		if part = strings.TrimSpace(part); part != "" {
			skills = append(skills, part)
		}
	}
	return skills
}

// splitLocationYear breaks "Київ, 2018" into location and graduation year.
func splitLocationYear(line string) (string, int) {
	location, tail, found := strings.Cut(strings.TrimSpace(line), ",")
	if !found {
		if year, err := strconv.Atoi(strings.TrimSpace(location)); err == nil {
			return "", year
		}
		return strings.TrimSpace(location), 0
	}

	year, _ := strconv.Atoi(strings.TrimSpace(tail))
	return strings.TrimSpace(location), year
}
