// Package scoring provides the weighted composite scorer shared by the
// matching and reassignment engines. Scores are plain weighted averages of
// normalized factor values so every ranking the system produces can be
// traced back to its inputs.
package scoring

import (
	"errors"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrZeroWeights is returned when the factor weights sum to zero.
var ErrZeroWeights = errors.New("factor weights sum to zero")

// Factor is one scored dimension: a normalized value in [0,1] and its weight.
type Factor struct {
	Value  float64
	Weight float64
}

// Weighted computes the weight-normalized composite of the given factors:
// sum(value*weight) / sum(weight). The result is in [0,1] as long as every
// factor value is.
func Weighted(factors map[string]Factor) (float64, error) {
	values := make([]float64, 0, len(factors))
	weights := make([]float64, 0, len(factors))
	// Iterate in a fixed key order so float summation is reproducible.
	keys := make([]string, 0, len(factors))
	for k := range factors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f := factors[k]
		values = append(values, f.Value)
		weights = append(weights, f.Weight)
	}
	total := floats.Sum(weights)
	if total == 0 {
		return 0, ErrZeroWeights
	}
	return floats.Dot(values, weights) / total, nil
}

// SetOverlap returns the fraction of required items present in available.
// Comparison is case-insensitive and ignores surrounding whitespace. An
// empty requirement list is fully satisfied.
func SetOverlap(required, available []string) float64 {
	if len(required) == 0 {
		return 1.0
	}
	req := make(map[string]struct{}, len(required))
	for _, r := range required {
		req[normalize(r)] = struct{}{}
	}
	avail := make(map[string]struct{}, len(available))
	for _, a := range available {
		avail[normalize(a)] = struct{}{}
	}
	matched := 0
	for r := range req {
		if _, ok := avail[r]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(req))
}

// Missing returns the required items absent from available, preserving the
// order and spelling of the requirement list.
func Missing(required, available []string) []string {
	avail := make(map[string]struct{}, len(available))
	for _, a := range available {
		avail[normalize(a)] = struct{}{}
	}
	var missing []string
	for _, r := range required {
		if _, ok := avail[normalize(r)]; !ok {
			missing = append(missing, r)
		}
	}
	return missing
}

// LocationMatch returns 1 when both locations are set and equal, 0 otherwise.
func LocationMatch(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if normalize(a) == normalize(b) {
		return 1
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
