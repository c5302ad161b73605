// Package source defines the contract every job-site adapter implements and
// the facade the rest of the pipeline goes through: a registry keyed by site
// name, a scrape orchestrator that scores normalized records, and a pure
// post-scrape narrowing filter.
package source

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/odudnyk/cvscout/internal/exchange"
	"github.com/odudnyk/cvscout/internal/relevance"
	"github.com/odudnyk/cvscout/internal/resume"

	"go.uber.org/zap"
)

// ErrUnsupportedSite is returned by Get for unknown site identifiers. Fatal
// to the calling request; there is nothing to retry.
var ErrUnsupportedSite = errors.New("unsupported job site")

// Option is one entry of a site vocabulary: the machine filter value the site
// expects in its query plus the human label shown in pickers. Vocabularies
// are ordered slices because UI listings iterate them in order.
type Option struct {
	Filter string
	Label  string
}

// Labels returns the display labels of the options, in vocabulary order.
func Labels(options []Option) []string {
	labels := make([]string, 0, len(options))
	for _, o := range options {
		labels = append(labels, o.Label)
	}
	return labels
}

// ByLabel finds the option with the given display label.
func ByLabel(options []Option, label string) (Option, bool) {
	for _, o := range options {
		if o.Label == label {
			return o, true
		}
	}
	return Option{}, false
}

// Criteria carries the user-selected search filters. String fields hold the
// machine filter values from the chosen adapter's vocabularies.
type Criteria struct {
	Position   string   `mapstructure:"position"`
	City       string   `mapstructure:"city"`
	SearchType string   `mapstructure:"search_type"`
	Experience []string `mapstructure:"experience"`
	SalaryFrom int      `mapstructure:"salary_from"`
	SalaryTo   int      `mapstructure:"salary_to"`
	Period     string   `mapstructure:"period"`
	WithPhoto  bool     `mapstructure:"with_photo"`
}

// Deps aggregates what adapters need at construction time.
type Deps struct {
	Logger *zap.Logger
	Rates  exchange.RateSource
	// Robota.ua shows full resumes only to logged-in employers.
	LoginEmail    string
	LoginPassword string
}

// Parser is the adapter contract. One adapter per site; each owns its browser
// session and all knowledge of the site's field layout and vocabularies.
type Parser interface {
	// Site returns the site identifier the adapter was registered under.
	Site() string
	// BuildURL renders the criteria into the site's search URL.
	BuildURL(c Criteria) string
	// Parse fetches and normalizes resumes page by page until pagination
	// ends or ctx is cancelled. Individual broken records are logged and
	// skipped; the rest of the batch survives.
	Parse(ctx context.Context, c Criteria) (*resume.Resumes, error)
	// Close releases the adapter's browser session.
	Close() error
}

type constructor func(deps Deps) (Parser, error)

var registry = map[string]constructor{}

// Register makes an adapter constructor available under the given site name.
// Called from adapter package init, driver style.
func Register(site string, ctor constructor) {
	registry[site] = ctor
}

// Sites lists the registered site identifiers, sorted for stable listings.
func Sites() []string {
	sites := make([]string, 0, len(registry))
	for site := range registry {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	return sites
}

// Get constructs the adapter for the requested site.
func Get(site string, deps Deps) (Parser, error) {
	ctor, ok := registry[site]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSite, site)
	}
	return ctor(deps)
}

// Scrape runs one full scrape: parse, then score every normalized record
// exactly once before it leaves the pipeline.
func Scrape(ctx context.Context, p Parser, c Criteria) (*resume.Resumes, error) {
	resumes, err := p.Parse(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p.Site(), err)
	}

	relevance.Apply(resumes)

	return resumes, nil
}
