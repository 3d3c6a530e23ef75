// Package sniffer detects how a delimited statement export is encoded and split:
// text encoding, field delimiter and a header fingerprint for layout recognition.
package sniffer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

// Candidate delimiters in tie-break order.
var delimiters = []rune{',', ';', '\t', '|'}

const (
	sampleLines = 10
	// share of sampled lines that must agree on a delimiter count
	consistencyThreshold = 0.8
)

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrInvalidDelimiter = errors.New("could not detect a consistent delimiter")
)

// Delimiter is the outcome of delimiter sniffing.
type Delimiter struct {
	Rune    rune
	Sniffed bool // false when the raw-count fallback decided
}

// String renders the delimiter for metadata ("\t" is spelled out).
func (d Delimiter) String() string {
	if d.Rune == '\t' {
		return `\t`
	}
	return string(d.Rune)
}

// DetectDelimiter sniffs the field delimiter from the first lines of text.
// A delimiter is consistent when most sampled lines contain it the same
// non-zero number of times outside quotes; the most consistent one with the
// most columns wins. Without a consistent candidate the one with the highest
// raw count wins, and comma is used when nothing matches at all.
func DetectDelimiter(text string) Delimiter {
	lines := sample(text, sampleLines)

	if d, err := sniffConsistent(lines); err == nil {
		return Delimiter{Rune: d, Sniffed: true}
	}

	joined := strings.Join(lines, "\n")
	best, bestCount := ',', 0
	for _, d := range delimiters {
		if c := strings.Count(joined, string(d)); c > bestCount {
			best, bestCount = d, c
		}
	}
	return Delimiter{Rune: best}
}

func sniffConsistent(lines []string) (rune, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyFile
	}

	var (
		best      rune
		bestScore float64
		bestCols  int
	)
	for _, d := range delimiters {
		counts := make(map[int]int, len(lines))
		for _, line := range lines {
			counts[countOutsideQuotes(line, d)]++
		}

		mode, freq := 0, 0
		for n, f := range counts {
			if f > freq || (f == freq && n > mode) {
				mode, freq = n, f
			}
		}
		if mode == 0 {
			continue
		}

		score := float64(freq) / float64(len(lines))
		if score < consistencyThreshold {
			continue
		}
		if score > bestScore || (score == bestScore && mode > bestCols) {
			best, bestScore, bestCols = d, score, mode
		}
	}

	if best == 0 {
		return 0, ErrInvalidDelimiter
	}
	return best, nil
}

// sample returns up to n non-blank lines with BOM and trailing CR removed.
func sample(text string, n int) []string {
	var out []string
	for i, line := range strings.Split(text, "\n") {
		line = cleanLine(line, i == 0)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}

func cleanLine(line string, firstLine bool) string {
	line = strings.TrimRight(line, "\r")
	if firstLine {
		line = StripBOM(line)
	}
	return strings.TrimSpace(line)
}

func countOutsideQuotes(line string, d rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == d && !quoted:
			n++
		}
	}
	return n
}

// StripBOM removes a leading UTF-8 byte order mark.
func StripBOM(s string) string {
	return strings.TrimPrefix(s, "\uFEFF")
}

// Fingerprint hashes normalized header names so the same bank layout yields
// the same value regardless of spacing, case or punctuation.
func Fingerprint(headers []string) string {
	var normalized []string
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}
	if len(normalized) == 0 {
		return ""
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}
