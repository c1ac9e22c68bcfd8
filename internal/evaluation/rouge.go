// Package evaluation computes ROUGE-style overlap scores between reference
// summaries and a candidate summary.
package evaluation

import (
	"fmt"
	"strconv"
	"strings"

	"textsum/internal/domain"
	"textsum/internal/token"
)

// Aggregation names the multi-reference policy: report the best-matching
// reference per metric, or the average across references.
type Aggregation string

const (
	AggregationMax     Aggregation = "max"
	AggregationAverage Aggregation = "average"
)

// Config tunes the evaluator. The zero value aggregates with AggregationMax,
// the standard multi-reference ROUGE policy.
type Config struct {
	Aggregation Aggregation
}

// DefaultMetrics is used when the caller passes no metric names.
var DefaultMetrics = []string{"rouge-1", "rouge-2", "rouge-l"}

// ComputeScores scores candidate against one or more references. Metric names
// are "rouge-l" or "rouge-<n>" for any n >= 1.
func ComputeScores(references []string, candidate string, metrics []string, cfg Config) (domain.ScoreSet, error) {
	if len(references) == 0 {
		return nil, fmt.Errorf("%w: no references", domain.ErrEmptyInput)
	}
	for _, ref := range references {
		if strings.TrimSpace(ref) == "" {
			return nil, fmt.Errorf("%w: empty reference", domain.ErrEmptyInput)
		}
	}
	if strings.TrimSpace(candidate) == "" {
		return nil, fmt.Errorf("%w: empty candidate", domain.ErrEmptyInput)
	}
	if len(metrics) == 0 {
		metrics = DefaultMetrics
	}
	agg := cfg.Aggregation
	switch agg {
	case "":
		agg = AggregationMax
	case AggregationMax, AggregationAverage:
	default:
		return nil, fmt.Errorf("%w: unknown aggregation %q", domain.ErrInvalidParameter, agg)
	}

	candToks := token.Words(candidate)
	refToks := make([][]string, len(references))
	for i, ref := range references {
		refToks[i] = token.Words(ref)
	}

	out := make(domain.ScoreSet, len(metrics))
	for _, name := range metrics {
		n, isLCS, err := parseMetric(name)
		if err != nil {
			return nil, err
		}
		perRef := make([]domain.Score, len(references))
		for i, ref := range refToks {
			if isLCS {
				perRef[i] = rougeL(ref, candToks)
			} else {
				perRef[i] = rougeN(ref, candToks, n)
			}
		}
		out[name] = aggregate(perRef, agg)
	}
	return out, nil
}

func parseMetric(name string) (n int, isLCS bool, err error) {
	suffix, ok := strings.CutPrefix(name, "rouge-")
	if !ok {
		return 0, false, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidParameter, name)
	}
	if suffix == "l" {
		return 0, true, nil
	}
	n, aerr := strconv.Atoi(suffix)
	if aerr != nil || n < 1 {
		return 0, false, fmt.Errorf("%w: unknown metric %q", domain.ErrInvalidParameter, name)
	}
	return n, false, nil
}

// rougeN computes precision/recall/F1 of the multiset n-gram overlap, so
// repeated n-grams are credited up to their minimum count on either side.
func rougeN(ref, cand []string, n int) domain.Score {
	refGrams := ngramCounts(ref, n)
	candGrams := ngramCounts(cand, n)
	overlap := 0
	for gram, rc := range refGrams {
		if cc, ok := candGrams[gram]; ok {
			if cc < rc {
				overlap += cc
			} else {
				overlap += rc
			}
		}
	}
	refTotal := max(len(ref)-n+1, 0)
	candTotal := max(len(cand)-n+1, 0)
	return fScore(overlap, refTotal, candTotal)
}

// rougeL derives precision/recall/F1 from the token-level longest common
// subsequence.
func rougeL(ref, cand []string) domain.Score {
	return fScore(lcsLength(ref, cand), len(ref), len(cand))
}

func fScore(overlap, refTotal, candTotal int) domain.Score {
	var p, r float64
	if candTotal > 0 {
		p = float64(overlap) / float64(candTotal)
	}
	if refTotal > 0 {
		r = float64(overlap) / float64(refTotal)
	}
	var f1 float64
	if p+r > 0 {
		f1 = 2 * p * r / (p + r)
	}
	return domain.Score{Precision: p, Recall: r, F1: f1}
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func aggregate(scores []domain.Score, agg Aggregation) domain.Score {
	if agg == AggregationAverage {
		var sum domain.Score
		for _, s := range scores {
			sum.Precision += s.Precision
			sum.Recall += s.Recall
			sum.F1 += s.F1
		}
		n := float64(len(scores))
		return domain.Score{Precision: sum.Precision / n, Recall: sum.Recall / n, F1: sum.F1 / n}
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.F1 > best.F1 {
			best = s
		}
	}
	return best
}
