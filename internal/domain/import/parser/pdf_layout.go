package parser

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

const (
	// glyphs closer than this horizontally belong to the same word
	wordGap = 3.0
	// baseline tolerance when grouping glyphs and words into rows
	rowTolerance = 3.0
	// fallback glyph width, as a share of the font size, for fonts without widths
	defaultAdvance = 0.5
)

// word is a run of glyphs on one baseline. Coordinates are PDF points with
// y growing upwards.
type word struct {
	text   string
	x0, x1 float64
	y      float64
	size   float64
}

func (w word) center() float64 { return (w.x0 + w.x1) / 2 }

// middle is the vertical middle of the glyph box above the baseline.
func (w word) middle() float64 { return w.y + w.size*0.35 }

// pageWords groups the glyphs of a page into words. Whitespace glyphs and
// horizontal gaps split words.
func pageWords(texts []pdf.Text) []word {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S != "" {
			glyphs = append(glyphs, t)
		}
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y > glyphs[j].Y })

	var words []word
	start := 0
	for i := 1; i <= len(glyphs); i++ {
		if i < len(glyphs) && glyphs[start].Y-glyphs[i].Y <= rowTolerance {
			continue
		}
		line := glyphs[start:i]
		sort.SliceStable(line, func(a, b int) bool { return line[a].X < line[b].X })
		words = append(words, lineWords(line)...)
		start = i
	}
	return words
}

func lineWords(line []pdf.Text) []word {
	var (
		out []word
		cur *word
		b   strings.Builder
	)
	flush := func() {
		if cur != nil && b.Len() > 0 {
			cur.text = b.String()
			out = append(out, *cur)
		}
		cur = nil
		b.Reset()
	}

	for _, g := range line {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		width := g.W
		if width <= 0 {
			width = g.FontSize * defaultAdvance
		}
		if cur != nil && g.X-cur.x1 > wordGap {
			flush()
		}
		if cur == nil {
			cur = &word{x0: g.X, x1: g.X, y: g.Y, size: g.FontSize}
		}
		b.WriteString(g.S)
		cur.x1 = math.Max(cur.x1, g.X+width)
		cur.size = math.Max(cur.size, g.FontSize)
	}
	flush()
	return out
}

// textRows clusters words by baseline, top to bottom, each row sorted left
// to right.
func textRows(words []word, tolerance float64) [][]word {
	if len(words) == 0 {
		return nil
	}
	sorted := make([]word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].y > sorted[j].y })

	var rows [][]word
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[start].y-sorted[i].y <= tolerance {
			continue
		}
		row := append([]word(nil), sorted[start:i]...)
		sort.SliceStable(row, func(a, b int) bool { return row[a].x0 < row[b].x0 })
		rows = append(rows, row)
		start = i
	}
	return rows
}

// phrases merges adjacent words of a row that are separated by no more than
// a space, so multi-word cell values stay together.
func phrases(row []word) []word {
	var out []word
	for _, w := range row {
		if n := len(out); n > 0 && w.x0-out[n-1].x1 <= out[n-1].size {
			last := &out[n-1]
			last.text += " " + w.text
			last.x1 = math.Max(last.x1, w.x1)
			continue
		}
		out = append(out, w)
	}
	return out
}

// layoutLines renders words as positional text: rows at the row tolerance,
// phrases joined by tabs.
func layoutLines(words []word) []string {
	var lines []string
	for _, row := range textRows(words, rowTolerance) {
		parts := make([]string, 0, len(row))
		for _, p := range phrases(row) {
			parts = append(parts, p.text)
		}
		if line := strings.TrimSpace(strings.Join(parts, "\t")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
