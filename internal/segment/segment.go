// Package segment cleans raw text and splits it into sentences with stable
// byte offsets. Boundary detection is rule-based: it tolerates common
// abbreviations, initials, decimal numbers and quoted speech. When no
// boundary can be found in non-empty text the whole text is returned as a
// single sentence together with a degradation warning, never an error.
package segment

import (
	"strings"
	"unicode"

	"textsum/internal/domain"
)

// abbreviations that end with a period but do not terminate a sentence.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "rev": {},
	"gen": {}, "sen": {}, "rep": {}, "st": {}, "sr": {}, "jr": {},
	"vs": {}, "etc": {}, "e.g": {}, "i.e": {}, "cf": {}, "al": {},
	"fig": {}, "no": {}, "dept": {}, "est": {}, "approx": {},
	"inc": {}, "ltd": {}, "co": {}, "corp": {},
}

// Clean strips control characters and collapses all whitespace runs into
// single spaces, keeping punctuation and casing intact.
func Clean(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, text)
	return strings.Join(strings.Fields(mapped), " ")
}

// Build cleans text and segments it into a Document.
func Build(text string) (domain.Document, *domain.Warning, error) {
	cleaned := Clean(text)
	sentences, warn, err := Segment(cleaned)
	if err != nil {
		return domain.Document{}, nil, err
	}
	return domain.Document{Text: cleaned, Sentences: sentences}, warn, nil
}

// Segment splits cleaned text into sentences. Offsets are byte offsets into
// text and are monotonically non-decreasing across the returned slice.
func Segment(text string) ([]domain.Sentence, *domain.Warning, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, domain.ErrEmptyInput
	}

	rs := []rune(text)
	// byte offset of every rune plus the final end-of-text offset
	offs := make([]int, len(rs)+1)
	b := 0
	for i, r := range rs {
		offs[i] = b
		b += len(string(r))
	}
	offs[len(rs)] = b

	var sentences []domain.Sentence
	emit := func(a, b int) {
		txt := strings.TrimSpace(string(rs[a:b]))
		if txt == "" {
			return
		}
		sentences = append(sentences, domain.Sentence{
			Index: len(sentences),
			Text:  txt,
			Start: offs[a],
			End:   offs[b],
		})
	}

	boundaryFound := false
	start, i := 0, 0
	for i < len(rs) {
		r := rs[i]
		if r != '.' && r != '!' && r != '?' {
			i++
			continue
		}
		if r == '.' && (isDecimalPoint(rs, i) || isAbbreviation(rs, start, i)) {
			i++
			continue
		}
		end := i + 1
		for end < len(rs) && isTerminator(rs[end]) {
			end++
		}
		for end < len(rs) && isCloser(rs[end]) {
			end++
		}
		if end >= len(rs) || (unicode.IsSpace(rs[end]) && startsSentence(rs, end)) {
			emit(start, end)
			boundaryFound = true
			i = end
			for i < len(rs) && unicode.IsSpace(rs[i]) {
				i++
			}
			start = i
			continue
		}
		i = end
	}
	if start < len(rs) {
		emit(start, len(rs))
	}

	if !boundaryFound && len(sentences) == 1 {
		warn := &domain.Warning{
			Code:    domain.WarnSegmentationDegraded,
			Message: "no sentence boundary detected, treating input as a single sentence",
			Index:   -1,
		}
		return sentences, warn, nil
	}
	return sentences, nil, nil
}

func isTerminator(r rune) bool { return r == '.' || r == '!' || r == '?' }

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']':
		return true
	}
	return false
}

func isOpener(r rune) bool {
	switch r {
	case '"', '\'', '“', '‘', '(', '[':
		return true
	}
	return false
}

func isDecimalPoint(rs []rune, i int) bool {
	return i > 0 && i+1 < len(rs) && unicode.IsDigit(rs[i-1]) && unicode.IsDigit(rs[i+1])
}

// isAbbreviation inspects the word ending at the period rs[i].
func isAbbreviation(rs []rune, start, i int) bool {
	j := i
	for j > start && (unicode.IsLetter(rs[j-1]) || rs[j-1] == '.') {
		j--
	}
	word := strings.ToLower(strings.Trim(string(rs[j:i]), "."))
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 {
		// single-letter initial, as in "J. Smith"
		return true
	}
	_, ok := abbreviations[word]
	return ok
}

// startsSentence reports whether the first non-space rune at or after pos
// looks like the start of a new sentence.
func startsSentence(rs []rune, pos int) bool {
	for pos < len(rs) && unicode.IsSpace(rs[pos]) {
		pos++
	}
	if pos >= len(rs) {
		return true
	}
	r := rs[pos]
	return unicode.IsUpper(r) || unicode.IsDigit(r) || isOpener(r)
}
