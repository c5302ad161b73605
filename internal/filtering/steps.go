package filtering

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/odudnyk/cvscout/internal/ai"
	"github.com/odudnyk/cvscout/internal/resume"
	"github.com/odudnyk/cvscout/internal/source"
)

// Default returns the standard filter chain in execution order. The cheap
// predicate steps run first so the AI step sees the smallest possible list.
func Default() []Filter {
	return []Filter{
		NewExperience(),
		NewSkills(),
		NewLocation(),
		NewSalary(),
		NewAIFit(),
	}
}

type experienceFilter struct {
	min *float64
}

// NewExperience creates a filter that drops candidates below the minimum
// years of experience.
func NewExperience() Filter {
	return &experienceFilter{}
}

func (f *experienceFilter) Name() string { return "experience" }

func (f *experienceFilter) Disable(string) {}

func (f *experienceFilter) IsEnabled() bool { return true }

func (f *experienceFilter) Validate(cfg *Config) error {
	f.min = nil
	if cfg != nil {
		f.min = cfg.MinExperience
	}
	return nil
}

func (f *experienceFilter) Apply(_ context.Context, deps Deps, r *resume.Resumes) (*resume.Resumes, Step, error) {
	initial := r.Len()
	if f.min == nil {
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := source.Narrow(r, source.NarrowOptions{MinExperience: f.min})
	logDropped(deps.Logger, f.Name(), r, kept)

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *experienceFilter) Status() Status {
	details := map[string]string{}
	if f.min != nil {
		details["min_years"] = strconv.FormatFloat(*f.min, 'f', 1, 64)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type skillsFilter struct {
	skills []string
}

// NewSkills creates a filter that keeps only candidates listing every
// required skill.
func NewSkills() Filter {
	return &skillsFilter{}
}

func (f *skillsFilter) Name() string { return "skills" }

func (f *skillsFilter) Disable(string) {}

func (f *skillsFilter) IsEnabled() bool { return true }

func (f *skillsFilter) Validate(cfg *Config) error {
	f.skills = nil
	if cfg != nil {
		f.skills = append(f.skills, cfg.Skills...)
	}
	return nil
}

func (f *skillsFilter) Apply(_ context.Context, deps Deps, r *resume.Resumes) (*resume.Resumes, Step, error) {
	initial := r.Len()
	if len(f.skills) == 0 {
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := source.Narrow(r, source.NarrowOptions{Skills: f.skills})
	logDropped(deps.Logger, f.Name(), r, kept)

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *skillsFilter) Status() Status {
	details := map[string]string{}
	if len(f.skills) > 0 {
		details["skills"] = strings.Join(f.skills, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type locationFilter struct {
	location string
}

// NewLocation creates a filter that keeps candidates from the configured
// location.
func NewLocation() Filter {
	return &locationFilter{}
}

func (f *locationFilter) Name() string { return "location" }

func (f *locationFilter) Disable(string) {}

func (f *locationFilter) IsEnabled() bool { return true }

func (f *locationFilter) Validate(cfg *Config) error {
	f.location = ""
	if cfg != nil {
		f.location = strings.TrimSpace(cfg.Location)
	}
	return nil
}

func (f *locationFilter) Apply(_ context.Context, deps Deps, r *resume.Resumes) (*resume.Resumes, Step, error) {
	initial := r.Len()
	if f.location == "" {
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := source.Narrow(r, source.NarrowOptions{Location: f.location})
	logDropped(deps.Logger, f.Name(), r, kept)

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *locationFilter) Status() Status {
	details := map[string]string{}
	if f.location != "" {
		details["location"] = f.location
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type salaryFilter struct {
	min *float64
}

// NewSalary creates a filter that drops candidates expecting less than the
// minimum salary. Candidates without a declared salary are dropped too.
func NewSalary() Filter {
	return &salaryFilter{}
}

func (f *salaryFilter) Name() string { return "salary" }

func (f *salaryFilter) Disable(string) {}

func (f *salaryFilter) IsEnabled() bool { return true }

func (f *salaryFilter) Validate(cfg *Config) error {
	f.min = nil
	if cfg != nil {
		f.min = cfg.MinSalary
	}
	return nil
}

func (f *salaryFilter) Apply(_ context.Context, deps Deps, r *resume.Resumes) (*resume.Resumes, Step, error) {
	initial := r.Len()
	if f.min == nil {
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := source.Narrow(r, source.NarrowOptions{MinSalary: f.min})
	logDropped(deps.Logger, f.Name(), r, kept)

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *salaryFilter) Status() Status {
	details := map[string]string{}
	if f.min != nil {
		details["min_salary"] = strconv.FormatFloat(*f.min, 'f', 0, 64)
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

type aiFitFilter struct {
	disabled    bool
	reason      string
	config      *AIConfig
	assessments map[string]*ai.FitAssessment
}

// NewAIFit creates the AI-based filtering step.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *aiFitFilter) IsEnabled() bool { return !f.disabled }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.config = nil
	if cfg != nil {
		f.config = cfg.AI
	}
	if !f.IsEnabled() {
		return nil
	}
	if cfg == nil || cfg.AI == nil || !cfg.AI.Enabled {
		f.Disable("ai filtering not configured")
		return nil
	}
	if cfg.AI.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(cfg.AI.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, r *resume.Resumes) (*resume.Resumes, Step, error) {
	initial := r.Len()
	if deps.Matcher == nil {
		if deps.Logger != nil {
			deps.Logger.Info("ai matcher is not configured; skipping ai_fit filter")
		}
		return r, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}
	if deps.Query == nil {
		return r, Step{}, fmt.Errorf("search query is required for AI evaluation")
	}

	kept := &resume.Resumes{}
	f.assessments = make(map[string]*ai.FitAssessment)

	for _, candidate := range r.Items {
		assessment, err := deps.Matcher.Evaluate(ctx, deps.Query, candidate)
		if err != nil {
			// Evaluation failures keep the candidate; a broken provider
			// must not silently empty the result set.
			if deps.Logger != nil {
				deps.Logger.Warn("AI evaluation failed",
					zap.String("resume_url", candidate.URL),
					zap.Error(err),
				)
			}
			kept.Append(candidate)
			continue
		}

		if !assessment.Fit {
			if deps.Logger != nil {
				deps.Logger.Info("candidate rejected by AI provider",
					zap.String("resume_url", candidate.URL),
					zap.Float64("ai_score", assessment.Score),
					zap.String("reason", assessment.Reason),
				)
			}
			continue
		}

		f.assessments[candidate.URL] = assessment
		kept.Append(candidate)
	}

	return kept, Step{Initial: initial, Dropped: initial - kept.Len(), Left: kept.Len()}, nil
}

func (f *aiFitFilter) Assessments() map[string]*ai.FitAssessment {
	if f.assessments == nil {
		return map[string]*ai.FitAssessment{}
	}
	return f.assessments
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		if f.config.Gemini != nil {
			details["model"] = f.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(f.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(f.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

func logDropped(logger *zap.Logger, name string, before, after *resume.Resumes) {
	if logger == nil || before.Len() == after.Len() {
		return
	}
	logger.Info("excluding candidates",
		zap.String("filter", name),
		zap.Int("dropped", before.Len()-after.Len()),
		zap.Int("left", after.Len()),
	)
}
