package ingest

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sivavenkatesh08/rag-mnc-insights/internal/domain"
)

// Transcript filenames look like 2021-Apr-15-MSFT.txt.
var filenamePattern = regexp.MustCompile(`^(\d{4})-(\w+)-\d{2}-(\w+)\.txt$`)

// ParseMetadata extracts (company, year, quarter) from a transcript path.
// Filenames that do not match the expected pattern fall back to the parent
// directory name as the company, with year and quarter left absent.
func ParseMetadata(path string) domain.Metadata {
	name := filepath.Base(path)
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return domain.Metadata{
			Company:  filepath.Base(filepath.Dir(path)),
			Filename: name,
		}
	}
	month := m[2]
	if len(month) > 3 {
		month = month[:3]
	}
	quarter, _ := domain.QuarterOfMonth(month, false)
	return domain.Metadata{
		Company:  strings.ToUpper(m[3]),
		Filename: name,
		Year:     m[1],
		Quarter:  quarter,
	}
}

// CleanText strips leading/trailing whitespace from every line and drops
// empty lines, collapsing blank-line noise without touching word content.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}
