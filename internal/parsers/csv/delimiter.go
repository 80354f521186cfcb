package csv

import (
	"slices"
	"strings"
)

// candidateDelimiters in tie-break order
var candidateDelimiters = []CsvDelimiter{DelimiterSemicolon, DelimiterComma, DelimiterTab}

// DetectDelimiter picks the field delimiter of an export.
// A delimiter that splits the header into every required column wins outright. Otherwise the
// delimiter with the most consistent per-line count over the first lines is used, since
// Spanish-locale amounts contain ',' as the decimal separator.
func DetectDelimiter(content string) CsvDelimiter {
	sample := sampleLines(content, 5)
	if len(sample) == 0 {
		return DelimiterComma
	}

	for _, delim := range candidateDelimiters {
		if headerMatches(sample[0], delim) {
			return delim
		}
	}

	best := DelimiterComma
	bestScore := 0.0
	for _, delim := range candidateDelimiters {
		counts := make([]int, len(sample))
		for i, line := range sample {
			counts[i] = countOutsideQuotes(line, rune(delim[0]))
		}
		if score := consistency(counts); score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// sampleLines returns up to n trimmed non-empty lines
func sampleLines(content string, n int) []string {
	sample := make([]string, 0, n)
	for line := range strings.SplitSeq(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) == n {
				break
			}
		}
	}
	return sample
}

// headerMatches reports whether splitting line by delim yields all required columns
func headerMatches(line string, delim CsvDelimiter) bool {
	fields := strings.Split(strings.TrimPrefix(line, "\ufeff"), string(delim))
	for i := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(fields[i]), `"`)
	}
	for _, col := range requiredColumns {
		if !slices.Contains(fields, col) {
			return false
		}
	}
	return true
}

// consistency scores a delimiter by its mean count per line penalised by the variance
func consistency(counts []int) float64 {
	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	variance /= float64(len(counts))

	return mean / (1 + variance)
}

// countOutsideQuotes counts delimiter occurrences that are not inside a quoted field
func countOutsideQuotes(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}
