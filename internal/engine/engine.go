// Package engine wires corpus loading, per-criterion evaluation and output
// writing into a single run.
package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cohorttools/cohortsel/internal/cohort"
	"github.com/cohorttools/cohortsel/internal/config"
	"github.com/cohorttools/cohortsel/internal/corpus"
	"github.com/cohorttools/cohortsel/internal/criteria"
	"github.com/cohorttools/cohortsel/internal/evaluate"
	"github.com/cohorttools/cohortsel/internal/model"
	"github.com/cohorttools/cohortsel/internal/rules"
	"github.com/cohorttools/cohortsel/internal/store"
	"github.com/cohorttools/cohortsel/internal/textproc"
)

// Engine runs cohort selection over one corpus. Construction resolves and
// loads every configured model artifact, so a misconfigured criterion fails
// before any patient is read.
type Engine struct {
	cfg        *config.Config
	policy     *config.Policy
	evaluators map[criteria.Criterion]evaluate.Evaluator
	log        zerolog.Logger
}

// Summary describes a finished run.
type Summary struct {
	RunID    string
	Patients int
	Elapsed  time.Duration
}

// New builds the engine: stopwords, rule classifier, and one evaluator per
// criterion according to the policy. Any artifact that cannot be resolved
// or validated aborts construction.
func New(cfg *config.Config, policy *config.Policy, log zerolog.Logger) (*Engine, error) {
	if policy == nil {
		policy = config.DefaultPolicy()
	}

	var stopwords map[string]struct{}
	if cfg.StopwordsPath != "" {
		var err error
		stopwords, err = textproc.LoadStopwords(cfg.StopwordsPath)
		if err != nil {
			return nil, err
		}
		log.Debug().Int("stopwords", len(stopwords)).Msg("stopword list loaded")
	}

	ruleClf := rules.NewClassifier(log)
	registry := model.NewRegistryClient(cfg.CacheDir, log)

	evaluators := make(map[criteria.Criterion]evaluate.Evaluator, criteria.Count())
	for _, c := range criteria.All() {
		cp := policy.For(c)

		var learned *model.Classifier
		if cp.Policy != string(evaluate.StrategyRule) {
			path, err := registry.Resolve(cp.Artifact)
			if err != nil {
				return nil, err
			}
			artifact, err := model.LoadArtifact(path, c)
			if err != nil {
				return nil, err
			}
			learned = model.NewClassifier(c, artifact, stopwords, log)
		}

		switch evaluate.Strategy(cp.Policy) {
		case evaluate.StrategyRule:
			evaluators[c] = evaluate.NewRuleEvaluator(c, ruleClf)
		case evaluate.StrategyLearned:
			evaluators[c] = evaluate.NewLearnedEvaluator(c, learned)
		case evaluate.StrategyHybrid:
			evaluators[c] = evaluate.NewHybridEvaluator(c, ruleClf, learned, evaluate.TieBreak(cp.TieBreak))
		default:
			return nil, fmt.Errorf("criterion %s: unknown strategy %q", c, cp.Policy)
		}
	}

	return &Engine{
		cfg:        cfg,
		policy:     policy,
		evaluators: evaluators,
		log:        log,
	}, nil
}

// Run evaluates every patient in the corpus, writes the labelled documents
// to the output directory and optionally persists the run. The first corpus
// or evaluation error aborts the run; no output is written in that case.
func (e *Engine) Run() (cohort.Result, *Summary, error) {
	started := time.Now()

	if e.cfg.OutputDir == e.cfg.CorpusDir {
		return nil, nil, fmt.Errorf("refusing to write predictions into the corpus directory %s", e.cfg.CorpusDir)
	}

	sc, err := corpus.NewScanner(e.cfg.CorpusDir)
	if err != nil {
		return nil, nil, err
	}
	e.log.Info().Str("corpus", e.cfg.CorpusDir).Int("documents", sc.Len()).Msg("starting run")

	agg := cohort.NewAggregator(criteria.All())
	patients := make([]*corpus.Patient, 0, sc.Len())

	for sc.Scan() {
		p := sc.Patient()
		for _, c := range criteria.All() {
			d, err := e.evaluators[c].Evaluate(p)
			if err != nil {
				return nil, nil, fmt.Errorf("evaluating patient %s: %w", p.ID, err)
			}
			if err := agg.Add(p.ID, d); err != nil {
				return nil, nil, err
			}
			p.SetLabel(c, d.Met)
		}
		patients = append(patients, p)
		e.log.Debug().Str("patient", p.ID).Msg("patient evaluated")
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}

	result, err := agg.Result()
	if err != nil {
		return nil, nil, err
	}

	w := &corpus.Writer{
		Dir:         e.cfg.OutputDir,
		IncludeText: true,
		IncludeTags: true,
		Overwrite:   true,
	}
	if err := w.WriteAll(patients); err != nil {
		return nil, nil, err
	}

	summary := &Summary{Patients: len(patients), Elapsed: time.Since(started)}

	if e.cfg.ResultsDSN != "" {
		st, err := store.Open(e.cfg.ResultsDSN, e.log)
		if err != nil {
			return nil, nil, err
		}
		defer st.Close()
		runID, err := st.SaveRun(e.cfg.CorpusDir, started, result)
		if err != nil {
			return nil, nil, err
		}
		summary.RunID = runID
	}

	e.log.Info().
		Int("patients", summary.Patients).
		Dur("elapsed", summary.Elapsed).
		Str("output", e.cfg.OutputDir).
		Msg("run finished")
	return result, summary, nil
}
