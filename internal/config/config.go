// Package config loads run configuration from the environment and the YAML
// policy file that assigns an evaluation strategy to each criterion.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/evaluate"
)

// Error reports an invalid or incomplete configuration.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Config is everything a run needs outside the policy file itself.
type Config struct {
	CorpusDir     string
	OutputDir     string
	PolicyFile    string
	StopwordsPath string
	ResultsDSN    string
	CacheDir      string
	LogFile       string
}

// Load reads the optional .env file and the environment. The caller is
// expected to Validate after applying any overrides; COHORT_CORPUS_DIR and
// COHORT_OUTPUT_DIR are required, everything else has a default or is
// optional.
func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load(".env")

	cfg := &Config{
		CorpusDir:     os.Getenv("COHORT_CORPUS_DIR"),
		OutputDir:     os.Getenv("COHORT_OUTPUT_DIR"),
		PolicyFile:    os.Getenv("COHORT_POLICY_FILE"),
		StopwordsPath: os.Getenv("COHORT_STOPWORDS"),
		ResultsDSN:    os.Getenv("COHORT_RESULTS_DSN"),
		CacheDir:      os.Getenv("COHORT_CACHE_DIR"),
		LogFile:       os.Getenv("COHORT_LOG_FILE"),
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".cohortsel-cache"
	}
	return cfg, nil
}

// Validate checks the required fields.
func (c *Config) Validate() error {
	if c.CorpusDir == "" {
		return &Error{Field: "COHORT_CORPUS_DIR", Reason: "corpus directory is required"}
	}
	if c.OutputDir == "" {
		return &Error{Field: "COHORT_OUTPUT_DIR", Reason: "output directory is required"}
	}
	if c.OutputDir == c.CorpusDir {
		return &Error{Field: "COHORT_OUTPUT_DIR", Reason: "output directory must differ from the corpus directory"}
	}
	return nil
}

// CriterionPolicy configures how one criterion is evaluated.
type CriterionPolicy struct {
	Policy   string `yaml:"policy"`
	Artifact string `yaml:"artifact"`
	TieBreak string `yaml:"tie_break"`
}

// Policy is the parsed policy file: a strategy per criterion. Criteria
// absent from the file default to the rule strategy.
type Policy struct {
	Default   string                     `yaml:"default"`
	Criteria  map[string]CriterionPolicy `yaml:"criteria"`
	resolved  map[criteria.Criterion]CriterionPolicy
}

// DefaultPolicy evaluates every criterion with the rule strategy.
func DefaultPolicy() *Policy {
	p := &Policy{Default: string(evaluate.StrategyRule)}
	_ = p.resolve()
	return p
}

// LoadPolicy parses and validates the YAML policy file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Field: "policy", Reason: fmt.Sprintf("reading %s: %v", path, err)}
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, &Error{Field: "policy", Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Policy) resolve() error {
	if p.Default == "" {
		p.Default = string(evaluate.StrategyRule)
	}
	if err := validStrategy(p.Default); err != nil {
		return &Error{Field: "default", Reason: err.Error()}
	}

	p.resolved = make(map[criteria.Criterion]CriterionPolicy, criteria.Count())
	for name, cp := range p.Criteria {
		crit, err := criteria.Parse(name)
		if err != nil {
			return &Error{Field: "criteria", Reason: err.Error()}
		}
		if cp.Policy == "" {
			cp.Policy = p.Default
		}
		if err := validStrategy(cp.Policy); err != nil {
			return &Error{Field: name, Reason: err.Error()}
		}
		if cp.Policy != string(evaluate.StrategyRule) && cp.Artifact == "" {
			return &Error{Field: name, Reason: fmt.Sprintf("%s strategy requires an artifact", cp.Policy)}
		}
		switch cp.TieBreak {
		case "", string(evaluate.TieBreakRule), string(evaluate.TieBreakLearned):
		default:
			return &Error{Field: name, Reason: fmt.Sprintf("unknown tie break %q", cp.TieBreak)}
		}
		p.resolved[crit] = cp
	}

	if p.Default != string(evaluate.StrategyRule) {
		for _, c := range criteria.All() {
			if cp, ok := p.resolved[c]; !ok || cp.Artifact == "" {
				return &Error{Field: string(c), Reason: fmt.Sprintf("default strategy %s requires an artifact for every criterion", p.Default)}
			}
		}
	}
	return nil
}

// For returns the policy for one criterion.
func (p *Policy) For(crit criteria.Criterion) CriterionPolicy {
	if cp, ok := p.resolved[crit]; ok {
		return cp
	}
	return CriterionPolicy{Policy: p.Default}
}

func validStrategy(s string) error {
	switch evaluate.Strategy(s) {
	case evaluate.StrategyRule, evaluate.StrategyLearned, evaluate.StrategyHybrid:
		return nil
	}
	return fmt.Errorf("unknown strategy %q", s)
}
