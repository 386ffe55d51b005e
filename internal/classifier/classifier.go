package classifier

import (
	"context"

	"NewsSentinel/internal/model"
)

// Classifier scores financial text. One result per non-blank input text, in
// input order. Deterministic for a given input: no sampling.
//
// The model itself is external; implementations only transport text in and
// probability triples out.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]model.ArticleSentiment, error)
	Name() string
}

// deriveScoreAndLabel fills Score and Label from the probability triple.
// Score = positive − negative. The label is the max-probability class, with
// positive winning ties over negative, and negative over neutral.
func deriveScoreAndLabel(s *model.ArticleSentiment) {
	s.Score = s.Positive - s.Negative
	switch {
	case s.Positive >= s.Negative && s.Positive >= s.Neutral:
		s.Label = model.LabelPositive
	case s.Negative >= s.Positive && s.Negative >= s.Neutral:
		s.Label = model.LabelNegative
	default:
		s.Label = model.LabelNeutral
	}
}

// MockClassifier returns controllable fixed results for development and
// testing. Results are consumed per text in order; once exhausted, texts
// score as fully neutral.
type MockClassifier struct {
	Results []model.ArticleSentiment
	Err     error
}

func (m *MockClassifier) Name() string { return "mock" }

func (m *MockClassifier) Classify(_ context.Context, texts []string) ([]model.ArticleSentiment, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.ArticleSentiment, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			continue
		}
		if i < len(m.Results) {
			r := m.Results[i]
			deriveScoreAndLabel(&r)
			out = append(out, r)
			continue
		}
		neutral := model.ArticleSentiment{Neutral: 1.0}
		deriveScoreAndLabel(&neutral)
		out = append(out, neutral)
	}
	return out, nil
}
