package eval

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Sample is one gold question with its expected keywords and answer.
type Sample struct {
	Question         string   `json:"question"`
	ExpectedKeywords []string `json:"expected_keywords"`
	ExpectedAnswer   string   `json:"expected_answer"`
}

// Result scores one sample, both ratios in [0.0, 1.0].
type Result struct {
	Question        string
	KeywordsMatched float64
	TextSimilarity  float64
	Answer          string
}

// QueryFunc answers a single question end to end.
type QueryFunc func(question string) (string, error)

// LoadSamples reads evaluation samples from a JSON file.
func LoadSamples(path string) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read eval samples: %w", err)
	}
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("decode eval samples: %w", err)
	}
	return samples, nil
}

// Run answers every sample through query and scores the results.
func Run(samples []Sample, query QueryFunc, logger *zap.Logger) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	results := make([]Result, 0, len(samples))
	for i, sample := range samples {
		logger.Info("evaluating sample", zap.Int("n", i+1), zap.String("question", sample.Question))
		answer, err := query(sample.Question)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}
		results = append(results, Result{
			Question:        sample.Question,
			KeywordsMatched: KeywordMatch(answer, sample.ExpectedKeywords),
			TextSimilarity:  Similarity(answer, sample.ExpectedAnswer),
			Answer:          answer,
		})
	}
	return results, nil
}

// WriteCSV writes the per-sample scores as a CSV report.
func WriteCSV(results []Result, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create eval report: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"question", "keywords_matched", "text_similarity", "rag_answer"}); err != nil {
		return fmt.Errorf("write eval report: %w", err)
	}
	for _, r := range results {
		row := []string{
			r.Question,
			strconv.FormatFloat(r.KeywordsMatched, 'f', 4, 64),
			strconv.FormatFloat(r.TextSimilarity, 'f', 4, 64),
			r.Answer,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write eval report: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// KeywordMatch returns the proportion of expected keywords found in the
// answer, case-insensitively.
func KeywordMatch(answer string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	lowered := strings.ToLower(answer)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

// Similarity computes a rough case-insensitive similarity ratio between two
// strings: twice the total length of matching blocks over the combined
// length.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchLen(a, b)) / float64(total)
}

// matchLen sums the lengths of the matching blocks found by recursively
// taking the longest common substring and matching the pieces on each side.
func matchLen(a, b string) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	return matchLen(a[:ai], b[:bi]) + size + matchLen(a[ai+size:], b[bi+size:])
}

func longestCommonSubstring(a, b string) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					ai = i - size
					bi = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return ai, bi, size
}
