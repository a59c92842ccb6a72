package ingest

import "strings"

// Splitter produces overlapping character windows, preferring to break at
// paragraph boundaries, then line breaks, then sentence ends, then spaces.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter with the given window size and overlap in
// characters. Non-positive arguments fall back to 500/50.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: []string{"\n\n", "\n", ".", " "},
	}
}

// Split divides text into windows of at most the configured size, with the
// configured overlap carried between consecutive windows.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *Splitter) split(text string, separators []string) []string {
	sep := ""
	rest := separators
	for i, cand := range separators {
		if strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
		rest = nil
	}

	var splits []string
	if sep == "" {
		splits = []string{text}
	} else {
		splits = strings.Split(text, sep)
	}

	var final []string
	var good []string
	for _, piece := range splits {
		if len(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good, sep)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, sep)...)
	}
	return final
}

// merge greedily joins small splits into windows up to chunkSize, retaining
// a tail of at most overlap characters as the start of the next window.
func (s *Splitter) merge(splits []string, sep string) []string {
	var chunks []string
	var current []string
	total := 0
	sepLen := len(sep)

	joined := func() string {
		return strings.TrimSpace(strings.Join(current, sep))
	}

	for _, piece := range splits {
		add := len(piece)
		if len(current) > 0 {
			add += sepLen
		}
		if total+add > s.chunkSize && len(current) > 0 {
			if doc := joined(); doc != "" {
				chunks = append(chunks, doc)
			}
			for total > s.overlap || (total+add > s.chunkSize && total > 0) {
				drop := len(current[0])
				if len(current) > 1 {
					drop += sepLen
				}
				total -= drop
				current = current[1:]
				add = len(piece)
				if len(current) > 0 {
					add += sepLen
				}
			}
		}
		current = append(current, piece)
		total += add
	}
	if doc := joined(); doc != "" {
		chunks = append(chunks, doc)
	}
	return chunks
}
