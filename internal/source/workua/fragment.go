package workua

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/odudnyk/cvscout/internal/convert"
	"github.com/odudnyk/cvscout/internal/resume"
)

// fragment is the raw field set scraped from one resume page before any
// normalization. Everything is free text exactly as the site renders it.
type fragment struct {
	url               string
	fullName          string
	position          string
	experienceSummary string
	roles             []roleFragment
	educations        []educationFragment
	skills            []string
	languages         []string
	details           string
	personal          string
	salaryText        string
}

// roleFragment is one work-history block: a heading plus the period line
// ("липень 2019 – теперішній час (4 роки 11 місяців)") and the company line
// ("Компанія (тип компанії)").
type roleFragment struct {
	position    string
	period      string
	company     string
	description string
}

type educationFragment struct {
	name          string
	typeEducation string
	locationYear  string
}

var (
	parenthesesPattern = regexp.MustCompile(`\((.*?)\)`)
	yearPattern        = regexp.MustCompile(`(\d{4})`)

	cityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Місто(?: проживання)?:\s*([^,\n]+)`),
		regexp.MustCompile(`(?i)Місто\s*([^\n]+)`),
		regexp.MustCompile(`(?i)Готовий працювати:\s*[^,\n]+,\s*([^,\n]+)`),
	}
)

// extractParenthesized returns the first parenthesized span of the text.
func extractParenthesized(text string) string {
	if m := parenthesesPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractCity pulls the city out of the personal-details block, which mixes
// the location with availability notes.
func extractCity(text string) string {
	for _, pattern := range cityPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// toResume normalizes one scraped fragment into the canonical record. All
// numeric and currency fields go through the converters; this is what keeps
// work.ua scores comparable with the other source.
func (p *Parser) toResume(ctx context.Context, frag fragment) (*resume.Resume, error) {
	if frag.url == "" {
		return nil, resume.ErrNoURL
	}
	if frag.fullName == "" {
		return nil, fmt.Errorf("resume %s: name block missing", frag.url)
	}

	roles := make([]resume.Experience, 0, len(frag.roles))
	for _, role := range frag.roles {
		name, companyType := splitCompany(role.company)
		roles = append(roles, resume.Experience{
			Position:    strings.TrimSpace(role.position),
			Company:     name,
			CompanyType: companyType,
			Description: strings.TrimSpace(role.description),
			Years:       convert.Duration(extractParenthesized(role.period)),
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
		name, level, ok := strings.Cut(lang, " — ")
		if !ok {
			continue
		}
		languages = append(languages, resume.Language{
			Name:  strings.TrimSpace(name),
			Level: strings.TrimSpace(level),
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
		Location:   extractCity(frag.personal),
		Salary:     salary,
		URL:        frag.url,
	}

	// Prefer the summed per-role breakdown; fall back to the summary line.
	if total := r.TotalExperience(); total != nil {
		r.ExperienceYears = total
	} else if years := convert.Duration(frag.experienceSummary); years > 0 {
		r.ExperienceYears = &years
	}

	return r, nil
}

// splitCompany breaks "Компанія (аутсорсингова компанія)" into name and type.
func splitCompany(line string) (string, string) {
	line = strings.TrimSpace(line)
	companyType := extractParenthesized(line)
	name, _, _ := strings.Cut(line, "(")
	return strings.TrimSpace(name), strings.TrimSpace(companyType)
}

// splitLocationYear breaks "Київ, 2018" into location and graduation year.
// Some entries carry only the year.
func splitLocationYear(line string) (string, int) {
	line = strings.TrimSpace(line)

	year := 0
	if m := yearPattern.FindStringSubmatch(line); m != nil {
		year, _ = strconv.Atoi(m[1])
	}

	location, _, found := strings.Cut(line, ",")
	if !found && yearPattern.MatchString(location) {
		return "", year
	}
	return strings.TrimSpace(location), year
}
