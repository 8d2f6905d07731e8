package model

import (
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cohorttools/cohortsel/internal/criteria"
)

// Classifier scores cleaned patient documents with a loaded artifact.
type Classifier struct {
	criterion criteria.Criterion
	artifact  *Artifact
	termIndex map[string]int
	stopwords map[string]struct{}
	log       zerolog.Logger
}

// NewClassifier builds a classifier from a validated artifact. The optional
// stopword set is removed from documents before term counting, matching the
// preprocessing the artifact was trained with.
func NewClassifier(crit criteria.Criterion, a *Artifact, stopwords map[string]struct{}, log zerolog.Logger) *Classifier {
	idx := make(map[string]int, len(a.Vocabulary))
	for i, term := range a.Vocabulary {
		idx[term] = i
	}
	return &Classifier{
		criterion: crit,
		artifact:  a,
		termIndex: idx,
		stopwords: stopwords,
		log:       log,
	}
}

// Prediction is the classifier output for one document.
type Prediction struct {
	Met bool
	// Score is the raw decision-function value.
	Score float64
	// Confidence is the logistic transform of the margin over the
	// threshold, in (0, 1).
	Confidence float64
}

// Classify scores a cleaned, whitespace-tokenized document. Sublinear term
// frequency (1 + ln tf) scaled by the stored IDF, dotted with the stored
// weights.
func (c *Classifier) Classify(cleanDoc string) Prediction {
	counts := make(map[int]float64)
	for _, token := range strings.Fields(cleanDoc) {
		if _, stop := c.stopwords[token]; stop {
			continue
		}
		if i, ok := c.termIndex[token]; ok {
			counts[i]++
		}
	}

	score := c.artifact.Bias
	for i, tf := range counts {
		score += (1 + math.Log(tf)) * c.artifact.IDF[i] * c.artifact.Weights[i]
	}

	margin := score - c.artifact.Threshold
	p := Prediction{
		Met:        margin >= 0,
		Score:      score,
		Confidence: 1 / (1 + math.Exp(-math.Abs(margin))),
	}
	c.log.Debug().
		Str("criterion", c.criterion.String()).
		Float64("score", score).
		Bool("met", p.Met).
		Msg("classifier score")
	return p
}
