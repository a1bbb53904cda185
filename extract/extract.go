package extract

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/poiesic/hitcount/engine"
)

// Strategy identifies which rule produced a count.
type Strategy int

const (
	// StrategyNone means no strategy produced a positive count.
	StrategyNone Strategy = iota
	// StrategyTotalResults means a total-results field was used.
	StrategyTotalResults
	// StrategyAnswer means an answer box field was used.
	StrategyAnswer
	// StrategySampleEstimate means the organic result sample was scaled.
	StrategySampleEstimate
)

// String returns the strategy name used in logs and metric labels.
func (s Strategy) String() string {
	switch s {
	case StrategyTotalResults:
		return "total_results"
	case StrategyAnswer:
		return "answer"
	case StrategySampleEstimate:
		return "sample_estimate"
	default:
		return "none"
	}
}

// Field paths consulted by each strategy, in priority order.
var (
	totalResultsPaths = [][]string{
		{"total_results"},
		{"search_information", "total_results"},
	}
	answerPaths = [][]string{
		{"answer_box", "result"},
		{"answer_box", "answer"},
	}
)

// organicResultsKey holds the array of organic results.
const organicResultsKey = "organic_results"

// Result is a count together with the strategy that produced it.
type Result struct {
	Count    int64
	Strategy Strategy
}

// Count returns the result count for doc. A nil doc counts as 0.
func Count(doc engine.Document, fallbackMultiplier int64) int64 {
	return Extract(doc, fallbackMultiplier).Count
}

// Extract applies the strategies in priority order and returns the first
// positive count along with the strategy that produced it.
func Extract(doc engine.Document, fallbackMultiplier int64) Result {
	if doc == nil {
		return Result{}
	}
	if n := TotalResults(doc); n > 0 {
		return Result{Count: n, Strategy: StrategyTotalResults}
	}
	if n := AnswerResult(doc); n > 0 {
		return Result{Count: n, Strategy: StrategyAnswer}
	}
	if n := SampleEstimate(doc, fallbackMultiplier); n > 0 {
		return Result{Count: n, Strategy: StrategySampleEstimate}
	}
	return Result{}
}

// TotalResults reads the first positive total-results field.
// String values may use comma separators.
func TotalResults(doc engine.Document) int64 {
	for _, path := range totalResultsPaths {
		v, ok := lookup(doc, path)
		if !ok {
			continue
		}
		if n := toCount(v, stripCommas); n > 0 {
			return n
		}
	}
	return 0
}

// AnswerResult reads the first positive answer box value.
// String values may use comma or space separators.
func AnswerResult(doc engine.Document) int64 {
	for _, path := range answerPaths {
		v, ok := lookup(doc, path)
		if !ok {
			continue
		}
		if n := toCount(v, stripSeparators); n > 0 {
			return n
		}
	}
	return 0
}

// SampleEstimate scales the number of organic results by fallbackMultiplier.
// It returns 0 when the multiplier is not positive or there are no results,
// and saturates at math.MaxInt64.
func SampleEstimate(doc engine.Document, fallbackMultiplier int64) int64 {
	if fallbackMultiplier <= 0 {
		return 0
	}
	results, ok := doc[organicResultsKey].([]any)
	if !ok || len(results) == 0 {
		return 0
	}
	n := int64(len(results))
	if fallbackMultiplier > math.MaxInt64/n {
		return math.MaxInt64
	}
	return n * fallbackMultiplier
}

// lookup walks nested objects along path.
func lookup(doc engine.Document, path []string) (any, bool) {
	var current any = map[string]any(doc)
	for _, key := range path {
		var obj map[string]any
		switch m := current.(type) {
		case map[string]any:
			obj = m
		case engine.Document:
			obj = m
		default:
			return nil, false
		}
		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// toCount converts a decoded JSON value into a non-negative count.
// clean normalizes string values before parsing. Malformed, negative and
// non-finite values yield 0.
func toCount(v any, clean func(string) string) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return nonNegative(i)
		}
		if f, err := n.Float64(); err == nil {
			return floatCount(f)
		}
	case float64:
		return floatCount(n)
	case float32:
		return floatCount(float64(n))
	case int:
		return nonNegative(int64(n))
	case int32:
		return nonNegative(int64(n))
	case int64:
		return nonNegative(n)
	case uint32:
		return int64(n)
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n)
		}
	case string:
		s := clean(n)
		if s == "" {
			return 0
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return nonNegative(i)
		}
	}
	return 0
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

func floatCount(f float64) int64 {
	if math.IsNaN(f) || f <= 0 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// stripCommas removes thousands separators and surrounding whitespace.
func stripCommas(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// stripSeparators removes commas and all whitespace.
func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
