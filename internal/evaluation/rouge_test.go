package evaluation

import (
	"errors"
	"math"
	"testing"

	"textsum/internal/domain"
)

func approx(t *testing.T, got, want float64, name string) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %f, want %f", name, got, want)
	}
}

func TestRouge1Identical(t *testing.T) {
	scores, err := ComputeScores([]string{"the cat sat on the mat"}, "the cat sat on the mat", []string{"rouge-1"}, Config{})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	s := scores["rouge-1"]
	approx(t, s.Precision, 1.0, "precision")
	approx(t, s.Recall, 1.0, "recall")
	approx(t, s.F1, 1.0, "f1")
}

func TestRouge1Disjoint(t *testing.T) {
	scores, err := ComputeScores([]string{"a b c"}, "x y z", []string{"rouge-1"}, Config{})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	s := scores["rouge-1"]
	approx(t, s.Precision, 0.0, "precision")
	approx(t, s.Recall, 0.0, "recall")
	approx(t, s.F1, 0.0, "f1")
}

func TestRougeLPartialOverlap(t *testing.T) {
	// LCS("the cat sat", "the dog sat") = ["the", "sat"], length 2 over 3 tokens each
	scores, err := ComputeScores([]string{"the cat sat"}, "the dog sat", []string{"rouge-l"}, Config{})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	s := scores["rouge-l"]
	approx(t, s.Precision, 2.0/3.0, "precision")
	approx(t, s.Recall, 2.0/3.0, "recall")
	approx(t, s.F1, 2.0/3.0, "f1")
}

func TestRouge2(t *testing.T) {
	scores, err := ComputeScores([]string{"the cat sat on the mat"}, "the cat sat on the mat", []string{"rouge-2"}, Config{})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	approx(t, scores["rouge-2"].F1, 1.0, "f1")
}

func TestRouge1MultisetOverlap(t *testing.T) {
	// repeated unigrams are capped by the minimum count on either side
	scores, err := ComputeScores([]string{"the the the"}, "the the", []string{"rouge-1"}, Config{})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	s := scores["rouge-1"]
	approx(t, s.Precision, 1.0, "precision")
	approx(t, s.Recall, 2.0/3.0, "recall")
}

func TestMultiReferenceMaxPolicy(t *testing.T) {
	scores, err := ComputeScores([]string{"a b c", "x y z"}, "a b c", []string{"rouge-1"}, Config{Aggregation: AggregationMax})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	approx(t, scores["rouge-1"].F1, 1.0, "f1")
}

func TestMultiReferenceAveragePolicy(t *testing.T) {
	scores, err := ComputeScores([]string{"a b c", "x y z"}, "a b c", []string{"rouge-1"}, Config{Aggregation: AggregationAverage})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	approx(t, scores["rouge-1"].F1, 0.5, "f1")
}

func TestDefaultMetrics(t *testing.T) {
	scores, err := ComputeScores([]string{"some reference text"}, "some candidate text", nil, Config{})
	if err != nil {
		t.Fatalf("ComputeScores() error: %v", err)
	}
	for _, name := range []string{"rouge-1", "rouge-2", "rouge-l"} {
		if _, ok := scores[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestComputeScoresValidation(t *testing.T) {
	if _, err := ComputeScores(nil, "candidate", nil, Config{}); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("empty references: error = %v, want ErrEmptyInput", err)
	}
	if _, err := ComputeScores([]string{"ref"}, "  ", nil, Config{}); !errors.Is(err, domain.ErrEmptyInput) {
		t.Errorf("empty candidate: error = %v, want ErrEmptyInput", err)
	}
	if _, err := ComputeScores([]string{"ref"}, "cand", []string{"bleu"}, Config{}); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("unknown metric: error = %v, want ErrInvalidParameter", err)
	}
	if _, err := ComputeScores([]string{"ref"}, "cand", nil, Config{Aggregation: "median"}); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("unknown aggregation: error = %v, want ErrInvalidParameter", err)
	}
}
