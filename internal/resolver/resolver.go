package resolver

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

var companyAliases = map[string]string{
	"microsoft": "MSFT",
	"apple":     "AAPL",
	"amazon":    "AMZN",
	"google":    "GOOGL",
	"alphabet":  "GOOGL",
	"intel":     "INTC",
	"amd":       "AMD",
	"nvidia":    "NVDA",
	"asml":      "ASML",
	"micron":    "MU",
	"cisco":     "CSCO",
}

var (
	yearPattern    = regexp.MustCompile(`20\d{2}`)
	quarterPattern = regexp.MustCompile(`(?i)q[1-4]`)
)

// Resolve extracts (company, year, quarter) hints from a free-text
// question. Fields with no match are left absent. When several company
// aliases appear, the one occurring earliest in the question wins; exact
// ties fall back to alphabetical alias order so the result is
// deterministic.
func Resolve(question string) domain.QueryFilter {
	lowered := strings.ToLower(question)

	var filter domain.QueryFilter
	bestPos := -1
	aliases := make([]string, 0, len(companyAliases))
	for alias := range companyAliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		pos := strings.Index(lowered, alias)
		if pos < 0 {
			continue
		}
		if bestPos == -1 || pos < bestPos {
			bestPos = pos
			filter.Company = companyAliases[alias]
		}
	}

	if year := yearPattern.FindString(lowered); year != "" {
		filter.Year = year
	}
	if q := quarterPattern.FindString(lowered); q != "" {
		if quarter, err := domain.ParseQuarter(q); err == nil {
			filter.Quarter = quarter
		}
	}
	return filter
}
