// Package robotaua scrapes candidate resumes from robota.ua. The site is an
// Angular app: filters travel as JSON-encoded query parameters and full
// resumes are only visible to a logged-in employer account.
package robotaua

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
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
const SiteName = "robota.ua"

const (
	siteURL   = "https://robota.ua"
	searchURL = siteURL + "/candidates"
	loginURL  = siteURL + "/auth/login"

	defaultPageDelay = 2 * time.Second
)

// ErrNoCredentials is returned when the adapter is asked to scrape without
// an employer login.
var ErrNoCredentials = errors.New("robota.ua: employer credentials required")

func init() {
	source.Register(SiteName, func(deps source.Deps) (source.Parser, error) {
		return New(deps)
	})
}

type Parser struct {
	logger    *zap.Logger
	rates     exchange.RateSource
	session   *browser.Session
	pageDelay time.Duration

	email    string
	password string
	loggedIn bool
}

func New(deps source.Deps) (*Parser, error) {
	if deps.LoginEmail == "" || deps.LoginPassword == "" {
		return nil, ErrNoCredentials
	}

	session, err := browser.NewSession(deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("robota.ua session: %w", err)
	}

	return &Parser{
		logger:    deps.Logger,
		rates:     deps.Rates,
		session:   session,
		pageDelay: defaultPageDelay,
		email:     deps.LoginEmail,
		password:  deps.LoginPassword,
	}, nil
}

func (p *Parser) Site() string { return SiteName }

func (p *Parser) Close() error {
	if p.session == nil {
		return nil
	}
	return p.session.Close()
}

// BuildURL renders the criteria into a robota.ua search URL. Position and
// city form the path, everything else becomes JSON-encoded query values the
// way the site's own frontend serializes them.
func (p *Parser) BuildURL(c source.Criteria) string {
	slug := "all"
	if c.Position != "all" && c.Position != "" {
		slug = url.PathEscape(strings.ToLower(strings.ReplaceAll(c.Position, " ", "-")))
	}

	city := c.City
	if city == "" {
		city = "ukraine"
	}
	base := fmt.Sprintf("%s/%s/%s", searchURL, slug, city)

	q := url.Values{}

	if c.SearchType != "" {
		q.Set("searchType", jsonValue(c.SearchType))
	}
	if c.WithPhoto {
		q.Set("withPhoto", "true")
	}
	if c.SalaryFrom > 0 || c.SalaryTo > 0 {
		q.Set("salary", salaryJSON(c.SalaryFrom, c.SalaryTo))
	}
	if len(c.Experience) > 0 {
		q.Set("experienceIds", jsonValue(c.Experience))
	}
	if c.Period != "" {
		q.Set("period", jsonValue(c.Period))
	}

	if len(q) == 0 {
		return base
	}
	return base + "?" + q.Encode()
}

func jsonValue(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(encoded)
}

// salaryJSON renders the salary filter; an unset bound travels as null.
func salaryJSON(from, to int) string {
	bounds := struct {
		From *int `json:"from"`
		To   *int `json:"to"`
	}{}
	if from > 0 {
		bounds.From = &from
	}
	if to > 0 {
		bounds.To = &to
	}
	return jsonValue(bounds)
}

// login authenticates the browser session once per parser lifetime.
func (p *Parser) login() error {
	if p.loggedIn {
		return nil
	}

	page, err := p.session.Open(loginURL)
	if err != nil {
		return err
	}

	username := page.Locator("#otp-username")
	if err := username.WaitFor(); err != nil {
		return fmt.Errorf("login form did not load: %w", err)
	}
	if err := username.Fill(p.email); err != nil {
		return fmt.Errorf("filling login: %w", err)
	}
	if err := page.Locator("xpath=//*[contains(@id, 'santa-input-')]").Fill(p.password); err != nil {
		return fmt.Errorf("filling password: %w", err)
	}
	if err := page.Locator("button.primary-large.santa-block.santa-typo-regular-bold.full-width").Click(); err != nil {
		return fmt.Errorf("submitting login: %w", err)
	}

	// The account widget only renders for authenticated sessions.
	if err := page.Locator("div.santa-pl-10.santa-hidden").WaitFor(); err != nil {
		return fmt.Errorf("login not accepted: %w", err)
	}

	p.logger.Info("logged in", zap.String("site", SiteName))
	p.loggedIn = true
	return nil
}

// Parse logs in, then walks the search results page by page. Per-record
// failures are logged and skipped; a failed exchange-rate lookup aborts the
// batch because its scores would not be comparable.
func (p *Parser) Parse(ctx context.Context, c source.Criteria) (*resume.Resumes, error) {
	resumes := &resume.Resumes{}

	if err := p.login(); err != nil {
		return resumes, err
	}

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

func (p *Parser) collectPage(pageURL string) ([]string, string, error) {
	page, err := p.session.Open(pageURL)
	if err != nil {
		return nil, "", err
	}

	if err := page.Locator("section.cv-card").First().WaitFor(); err != nil {
		return nil, "", fmt.Errorf("results list did not load: %w", err)
	}

	cards, err := page.Locator("div.santa-space-y-10 a.santa-no-underline").All()
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

	return links, absoluteURL(browser.Attr(page.Locator("a.side-btn.next").First(), "href")), nil
}

func (p *Parser) parseSingle(ctx context.Context, resumeURL string) (*resume.Resume, error) {
	page, err := p.session.Open(resumeURL)
	if err != nil {
		return nil, err
	}

	if err := page.Locator("h1.santa-typo-h2.santa-text-black-700").WaitFor(); err != nil {
		return nil, fmt.Errorf("resume page did not load: %w", err)
	}

	frag := fragment{url: resumeURL}

	frag.fullName = browser.Text(page.Locator("h1.santa-typo-h2.santa-text-black-700").First())
	frag.position = browser.Text(page.Locator(".santa-mt-10.santa-typo-secondary.santa-text-black-700").First())
	frag.experienceSummary = browser.Text(page.Locator("span.santa-text-red-500.santa-whitespace-nowrap").First())
	frag.details = browser.Text(page.Locator("div.santa-m-0.santa-mb-20").First())
	frag.location = browser.Text(page.Locator("div.santa-flex.santa-items-start.santa-justify-start.santa-mb-10").First())
	frag.salaryText = browser.Text(page.Locator("p.santa-flex.santa-items-center.santa-mb-10").First())
	frag.skills = splitSkills(browser.Text(page.Locator("div.skills").First()))

	frag.roles = p.collectRoles(page)
	frag.educations = p.collectEducations(page)
	frag.languages = p.collectLanguages(page)

	return p.toResume(ctx, frag)
}

func (p *Parser) collectRoles(page playwright.Page) []roleFragment {
	blocks, err := page.Locator("div.santa-mt-20.santa-mb-20").All()
	if err != nil {
		return nil
	}

	var roles []roleFragment
	for _, block := range blocks {
		role := roleFragment{
			position:    browser.Text(block.Locator("h4.santa-typo-regular-bold.santa-text-black-700.santa-sentence-case.santa-mb-20").First()),
			company:     browser.Text(block.Locator("p.santa-typo-regular.santa-text-black-700").First()),
			companyType: browser.Text(block.Locator("p.santa-typo-secondary.santa-text-black-500").First()),
			period:      browser.Text(block.Locator("span.santa-whitespace-nowrap").First()),
			description: browser.Text(block.Locator("div.santa-pt-20.santa-typo-regular.santa-break-words").First()),
		}
		if role.position == "" && role.company == "" {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

func (p *Parser) collectEducations(page playwright.Page) []educationFragment {
	blocks, err := page.Locator("alliance-shared-ui-prof-resume-education div.santa-mb-20").All()
	if err != nil {
		return nil
	}

	var educations []educationFragment
	for _, block := range blocks {
		edu := educationFragment{
			name:          browser.Text(block.Locator("h4.santa-typo-regular-bold.santa-text-black-700.santa-mb-20").First()),
			typeEducation: browser.Text(block.Locator("p.santa-typo-regular.santa-text-black-700.santa-sentence-case").First()),
			locationYear:  browser.Text(block.Locator("p.santa-typo-regular.santa-text-black-700.santa-list.santa-sentence-case").First()),
		}
		if edu.name == "" {
			continue
		}
		educations = append(educations, edu)
	}
	return educations
}

func (p *Parser) collectLanguages(page playwright.Page) []languageFragment {
	blocks, err := page.Locator("div.language-item.santa-mb-20").All()
	if err != nil {
		return nil
	}

	var languages []languageFragment
	for _, block := range blocks {
		languages = append(languages, languageFragment{
			name:  browser.Text(block.Locator("h4.santa-typo-regular-bold.santa-text-black-700.santa-mb-10").First()),
			level: browser.Text(block.Locator("p.santa-typo-regular.santa-text-black-700.santa-whitespace-nowrap.santa-sentence-case").First()),
		})
	}
	return languages
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return siteURL + href
	}
	return href
}
