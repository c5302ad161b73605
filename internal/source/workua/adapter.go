// Package workua scrapes candidate resumes from work.ua and maps them into
// the canonical record. Selectors and URL layout are bound to the site's
// current markup and have to be revisited whenever it changes.
package workua

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/browser"
	"github.com/odudnyk/cvscout/internal/exchange"
	"github.com/odudnyk/cvscout/internal/resume"
	"github.com/odudnyk/cvscout/internal/source"
	"github.com/odudnyk/cvscout/internal/utils"
)

// SiteName is the identifier the adapter is registered under.
const SiteName = "work.ua"

const (
	siteURL   = "https://www.work.ua"
	searchURL = siteURL + "/resumes"

	defaultPageDelay = 2 * time.Second
)

func init() {
	source.Register(SiteName, func(deps source.Deps) (source.Parser, error) {
		return New(deps)
	})
}

// Parser is the work.ua adapter. It owns its browser session exclusively;
// the session is released by Close.
type Parser struct {
	logger    *zap.Logger
	rates     exchange.RateSource
	session   *browser.Session
	pageDelay time.Duration
}

func New(deps source.Deps) (*Parser, error) {
	session, err := browser.NewSession(deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("work.ua session: %w", err)
	}

	return &Parser{
		logger:    deps.Logger,
		rates:     deps.Rates,
		session:   session,
		pageDelay: defaultPageDelay,
	}, nil
}

func (p *Parser) Site() string { return SiteName }

func (p *Parser) Close() error {
	if p.session == nil {
		return nil
	}
	return p.session.Close()
}

// BuildURL renders the criteria into a work.ua search URL. The site encodes
// the position and city into the path and everything else into the query;
// experience buckets are joined with a literal "+".
func (p *Parser) BuildURL(c source.Criteria) string {
	slug := url.PathEscape(strings.ToLower(strings.ReplaceAll(c.Position, " ", "-")))

	base := fmt.Sprintf("%s-%s/", searchURL, slug)
	if c.City != "" {
		base = fmt.Sprintf("%s-%s-%s/", searchURL, c.City, slug)
	}

	q := url.Values{}

	// Search type is a ready query fragment like "anyword=1".
	if c.SearchType != "" {
		for _, pair := range strings.Split(c.SearchType, "&") {
			if key, value, ok := strings.Cut(pair, "="); ok {
				q.Set(key, value)
			}
		}
	}

	if code := salaryCode(c.SalaryFrom, false); code != "" {
		q.Set("salaryfrom", code)
	}
	if code := salaryCode(c.SalaryTo, true); code != "" {
		q.Set("salaryto", code)
	}
	if len(c.Experience) > 0 {
		q.Set("experience", strings.Join(c.Experience, "+"))
	}
	if c.Period != "" {
		q.Set("period", c.Period)
	}

	if len(q) == 0 {
		return base
	}

	// The site expects the experience separator as a raw plus.
	return base + "?" + strings.ReplaceAll(q.Encode(), "%2B", "+")
}

// salaryCode maps a hryvnia amount onto the site's coded salary buckets:
// the highest band not above the amount for the lower bound, the lowest band
// not below it for the upper one.
func salaryCode(amount int, upper bool) string {
	if amount <= 0 {
		return ""
	}

	code := ""
	for _, band := range SalaryBands {
		value, err := strconv.Atoi(band.Label)
		if err != nil {
			continue
		}
		if upper {
			if value >= amount {
				return band.Filter
			}
			code = band.Filter
		} else if value <= amount {
			code = band.Filter
		}
	}
	return code
}

// Parse walks the search results serially: one page at a time, one resume at
// a time, with a cancellable delay between pages. A record that fails to
// normalize is logged and skipped; a failed exchange-rate lookup aborts the
// batch because its scores would not be comparable.
func (p *Parser) Parse(ctx context.Context, c source.Criteria) (*resume.Resumes, error) {
	resumes := &resume.Resumes{}

	pageURL := p.BuildURL(c)
	for pageURL != "" {
		if err := ctx.Err(); err != nil {
			return resumes, err
		}

		links, next, err := p.collectPage(pageURL)
		if err != nil {
			p.logger.Error("collecting results page failed", zap.String("url", pageURL), zap.Error(err))
			break
		}

		for _, link := range links {
			r, err := p.parseSingle(ctx, link)
			if err != nil {
				if errors.Is(err, exchange.ErrBadResponse) {
					return resumes, err
				}
				p.logger.Warn("skipping resume", zap.String("url", link), zap.Error(err))
				continue
			}
			resumes.Append(r)
		}

		p.logger.Info("parsed results page",
			zap.String("url", pageURL),
			zap.Int("resumes", resumes.Len()),
		)

		pageURL = next
		if pageURL != "" {
			if err := utils.WaitFor(ctx, p.pageDelay); err != nil {
				return resumes, err
			}
		}
	}

	return resumes, nil
}

// collectPage returns the resume links of one results page and the URL of
// the next page, empty when pagination ends.
func (p *Parser) collectPage(pageURL string) ([]string, string, error) {
	page, err := p.session.Open(pageURL)
	if err != nil {
		return nil, "", err
	}

	if err := page.Locator("#pjax-resume-list").WaitFor(); err != nil {
		return nil, "", fmt.Errorf("results list did not load: %w", err)
	}

	cards, err := page.Locator("div.card.resume-link h2 a").All()
	if err != nil {
		return nil, "", err
	}

	links := make([]string, 0, len(cards))
	for _, card := range cards {
		href, err := card.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		links = append(links, absoluteURL(href))
	}

	return links, p.nextPageURL(page), nil
}

func (p *Parser) nextPageURL(page playwright.Page) string {
	next := page.Locator("a.link-icon").First()

	count, err := next.Count()
	if err != nil || count == 0 {
		return ""
	}

	text, err := next.TextContent()
	if err != nil || !strings.Contains(text, "Наступна") {
		return ""
	}

	href, err := next.GetAttribute("href")
	if err != nil || href == "" {
		return ""
	}
	return absoluteURL(href)
}

// parseSingle scrapes one resume page into a fragment and normalizes it.
func (p *Parser) parseSingle(ctx context.Context, resumeURL string) (*resume.Resume, error) {
	page, err := p.session.Open(resumeURL)
	if err != nil {
		return nil, err
	}

	frag := fragment{url: resumeURL}

	frag.fullName = browser.Text(page.Locator("h1").First())

	// The title line holds position and, when declared, the expected salary:
	// "Python розробник, 45 000 грн".
	titleLine := browser.Text(page.Locator("h2").First())
	frag.position, frag.salaryText = splitTitleLine(titleLine)

	frag.experienceSummary = browser.Text(page.Locator("span.text-default-7").First())
	frag.personal = browser.Text(page.Locator("dl.dl-horizontal").First())
	frag.details = browser.Text(sectionSibling(page, "Додаткова інформація", "p[1]"))

	frag.roles = p.collectRoles(page)
	frag.educations = p.collectEducations(page)
	frag.skills = browser.Texts(sectionItems(page, "Знання і навички", "ul[1]/li"))
	frag.languages = browser.Texts(sectionItems(page, "Знання мов", "ul[1]/li"))

	return p.toResume(ctx, frag)
}

// collectRoles walks the siblings between the experience heading and the
// next section: an h2 starts a role, a period/company paragraph fills it in,
// a muted paragraph is its description.
func (p *Parser) collectRoles(page playwright.Page) []roleFragment {
	siblings, err := page.Locator(
		"xpath=//h2[contains(text(),'Досвід роботи')]/following-sibling::*",
	).All()
	if err != nil {
		return nil
	}

	var roles []roleFragment
	var current *roleFragment

	for _, el := range siblings {
		tag := browser.EvalString(el, "e => e.tagName")
		class := browser.EvalString(el, "e => e.className")
		text, err := el.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)

		if tag == "H2" {
			if strings.Contains(text, "Освіта") || strings.Contains(text, "Знання") {
				break
			}
			roles = append(roles, roleFragment{position: text})
			current = &roles[len(roles)-1]
			continue
		}

		if current == nil {
			continue
		}

		switch {
		case class == "mb-0":
			period, company, _ := strings.Cut(text, "\n")
			current.period = period
			current.company = company
		case strings.Contains(class, "text-default-7"):
			current.description = text
		}
	}

	return roles
}

// collectEducations walks the education section the same way: an h2 names
// the institution, the following paragraph carries type, city and year.
func (p *Parser) collectEducations(page playwright.Page) []educationFragment {
	siblings, err := page.Locator(
		"xpath=//h2[contains(text(),'Освіта')]/following-sibling::*",
	).All()
	if err != nil {
		return nil
	}

	var educations []educationFragment
	var current *educationFragment

	for _, el := range siblings {
		tag := browser.EvalString(el, "e => e.tagName")
		text, err := el.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)

		if tag == "H2" {
			if strings.Contains(text, "Знання") || strings.Contains(text, "Додаткова") {
				break
			}
			educations = append(educations, educationFragment{name: text})
			current = &educations[len(educations)-1]
			continue
		}

		if current != nil && tag == "P" && current.typeEducation == "" {
			typeEducation, rest, _ := strings.Cut(text, ", ")
			current.typeEducation = typeEducation
			current.locationYear = rest
		}
	}

	return educations
}

// splitTitleLine separates "Позиція, 45 000 грн" into position and salary
// text. Without a digit after the comma the whole line is the position.
func splitTitleLine(line string) (string, string) {
	line = strings.TrimSpace(line)

	if idx := strings.LastIndex(line, ","); idx != -1 {
		tail := strings.TrimSpace(line[idx+1:])
		if strings.IndexFunc(tail, func(r rune) bool { return r >= '0' && r <= '9' }) != -1 {
			return strings.TrimSpace(line[:idx]), tail
		}
	}
	return line, ""
}

func sectionSibling(page playwright.Page, heading, sibling string) playwright.Locator {
	return page.Locator(fmt.Sprintf(
		"xpath=//h2[contains(text(),'%s')]/following-sibling::%s", heading, sibling,
	)).First()
}

func sectionItems(page playwright.Page, heading, items string) []playwright.Locator {
	found, err := page.Locator(fmt.Sprintf(
		"xpath=//h2[contains(text(),'%s')]/following-sibling::%s", heading, items,
	)).All()
	if err != nil {
		return nil
	}
	return found
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return siteURL + href
	}
	return href
}
