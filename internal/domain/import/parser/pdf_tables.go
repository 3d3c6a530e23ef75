package parser

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// Boundary says where a strategy takes cell edges from.
type Boundary string

const (
	// Lines uses ruled rectangles drawn on the page.
	Lines Boundary = "lines"
	// Text uses word alignment: gutters for columns, baselines for rows.
	Text Boundary = "text"
)

// Strategy describes one way of recovering tables from a page.
type Strategy struct {
	Name       string
	Vertical   Boundary
	Horizontal Boundary
	// SnapTolerance merges ruling positions and baselines closer than this.
	SnapTolerance float64
	// JoinTolerance lets a word sit this far outside a cell and still belong to it.
	JoinTolerance float64
	// MinGutter is the narrowest empty strip that separates text columns.
	MinGutter float64
}

// DefaultStrategies are tried in order on every page; the first one whose
// output passes validLines wins.
var DefaultStrategies = []Strategy{
	{Name: "default", Vertical: Lines, Horizontal: Lines, SnapTolerance: 3, JoinTolerance: 3, MinGutter: 5},
	{Name: "lines", Vertical: Lines, Horizontal: Lines, SnapTolerance: 3, JoinTolerance: 1, MinGutter: 5},
	{Name: "text", Vertical: Text, Horizontal: Text, SnapTolerance: 3, JoinTolerance: 3, MinGutter: 5},
	{Name: "lines-text", Vertical: Lines, Horizontal: Text, SnapTolerance: 3, JoinTolerance: 3, MinGutter: 5},
	{Name: "snap", Vertical: Lines, Horizontal: Lines, SnapTolerance: 5, JoinTolerance: 5, MinGutter: 5},
}

// thin rectangles are drawn rules rather than boxes
const ruleThickness = 2.0

// span is a closed interval on one axis.
type span struct{ lo, hi float64 }

func (s span) contains(v, slack float64) bool {
	return v >= s.lo-slack && v <= s.hi+slack
}

// Table recovers one table from a page's words and rectangles, or nil.
func (s Strategy) Table(words []word, rects []pdf.Rect) statement.Table {
	if len(words) == 0 {
		return nil
	}
	verticals, horizontals := rulings(rects)

	var cols []span
	switch s.Vertical {
	case Lines:
		cols = spansBetween(snap(verticals, s.SnapTolerance))
	case Text:
		cols = textColumns(words, s.MinGutter)
	}
	if len(cols) < 2 {
		return nil
	}

	region := span{cols[0].lo, cols[len(cols)-1].hi}
	var inside []word
	for _, w := range words {
		if region.contains(w.center(), s.JoinTolerance) {
			inside = append(inside, w)
		}
	}

	var rows [][]word
	switch s.Horizontal {
	case Lines:
		rows = ruledRows(inside, snap(horizontals, s.SnapTolerance), s.JoinTolerance)
	case Text:
		rows = textRows(inside, s.SnapTolerance)
	}

	table := fill(rows, cols, s.JoinTolerance)
	if len(table) < 2 {
		return nil
	}
	return table
}

// rulings splits rectangles into vertical and horizontal rule positions.
// Boxes contribute all four edges.
func rulings(rects []pdf.Rect) (verticals, horizontals []float64) {
	for _, r := range rects {
		x0, x1 := math.Min(r.Min.X, r.Max.X), math.Max(r.Min.X, r.Max.X)
		y0, y1 := math.Min(r.Min.Y, r.Max.Y), math.Max(r.Min.Y, r.Max.Y)
		switch {
		case y1-y0 <= ruleThickness && x1-x0 <= ruleThickness:
			continue
		case y1-y0 <= ruleThickness:
			horizontals = append(horizontals, (y0+y1)/2)
		case x1-x0 <= ruleThickness:
			verticals = append(verticals, (x0+x1)/2)
		default:
			verticals = append(verticals, x0, x1)
			horizontals = append(horizontals, y0, y1)
		}
	}
	return verticals, horizontals
}

// snap sorts positions and replaces each cluster closer than tolerance by its mean.
func snap(positions []float64, tolerance float64) []float64 {
	if len(positions) == 0 {
		return nil
	}
	sorted := append([]float64(nil), positions...)
	sort.Float64s(sorted)

	var out []float64
	sum, n := sorted[0], 1
	for _, p := range sorted[1:] {
		if p-sum/float64(n) <= tolerance {
			sum += p
			n++
			continue
		}
		out = append(out, sum/float64(n))
		sum, n = p, 1
	}
	return append(out, sum/float64(n))
}

func spansBetween(edges []float64) []span {
	if len(edges) < 2 {
		return nil
	}
	out := make([]span, 0, len(edges)-1)
	for i := 1; i < len(edges); i++ {
		out = append(out, span{edges[i-1], edges[i]})
	}
	return out
}

// ruledRows assigns words to the bands between horizontal rules, top band first.
func ruledRows(words []word, edges []float64, slack float64) [][]word {
	bands := spansBetween(edges)
	if len(bands) == 0 {
		return nil
	}
	rows := make([][]word, len(bands))
	for _, w := range words {
		// bands ascend in y; walk from the top so a word on a boundary goes up
		for i := len(bands) - 1; i >= 0; i-- {
			if bands[i].contains(w.middle(), slack) {
				rows[len(bands)-1-i] = append(rows[len(bands)-1-i], w)
				break
			}
		}
	}
	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool {
			if math.Abs(row[a].y-row[b].y) > rowTolerance {
				return row[a].y > row[b].y
			}
			return row[a].x0 < row[b].x0
		})
	}
	return rows
}

// textColumns finds column extents from phrase coverage. An x position is
// part of a column when phrases from at least two rows cover it; covered
// runs separated by less than minGutter are merged.
func textColumns(words []word, minGutter float64) []span {
	rows := textRows(words, rowTolerance)
	if len(rows) < 2 {
		return nil
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	var all []word
	coverage := make([][]word, len(rows))
	for i, row := range rows {
		coverage[i] = phrases(row)
		for _, p := range coverage[i] {
			minX = math.Min(minX, p.x0)
			maxX = math.Max(maxX, p.x1)
			all = append(all, p)
		}
	}
	if len(all) == 0 {
		return nil
	}

	origin := math.Floor(minX)
	counts := make([]int, int(math.Ceil(maxX)-origin)+1)
	for _, row := range coverage {
		seen := make([]bool, len(counts))
		for _, p := range row {
			for b := int(math.Floor(p.x0) - origin); b < int(math.Ceil(p.x1)-origin) && b < len(counts); b++ {
				if !seen[b] {
					seen[b] = true
					counts[b]++
				}
			}
		}
	}

	var runs []span
	inRun := false
	for b, c := range counts {
		x := origin + float64(b)
		switch {
		case c >= 2 && !inRun:
			runs = append(runs, span{lo: x, hi: x + 1})
			inRun = true
		case c >= 2:
			runs[len(runs)-1].hi = x + 1
		default:
			inRun = false
		}
	}

	var cols []span
	for _, r := range runs {
		if n := len(cols); n > 0 && r.lo-cols[n-1].hi < minGutter {
			cols[n-1].hi = r.hi
			continue
		}
		cols = append(cols, r)
	}
	return cols
}

// fill places each row's words into the column whose extent holds their
// center and drops rows that end up empty.
func fill(rows [][]word, cols []span, slack float64) statement.Table {
	var table statement.Table
	for _, row := range rows {
		cells := make([][]string, len(cols))
		filled := false
		for _, w := range row {
			for i, c := range cols {
				if c.contains(w.center(), slack) {
					cells[i] = append(cells[i], w.text)
					filled = true
					break
				}
			}
		}
		if !filled {
			continue
		}
		out := make([]string, len(cols))
		for i, parts := range cells {
			out[i] = strings.Join(parts, " ")
		}
		table = append(table, out)
	}
	return table
}

// tableLines renders table rows as trimmed, tab-joined, non-blank lines.
func tableLines(table statement.Table) []string {
	var lines []string
	for _, row := range table {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		if line := strings.Join(cells, "\t"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Statement years accepted by validLines, relative to the current year.
const (
	yearsBack    = 4
	yearsForward = 1
)

// recentYears lists the years a statement table is expected to mention.
func recentYears(now time.Time) []string {
	years := make([]string, 0, yearsBack+yearsForward+1)
	for y := now.Year() - yearsBack; y <= now.Year()+yearsForward; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return years
}

// validLines rejects table output that is too short, dominated by repeated
// lines, or missing rows dated in one of years right after the header.
func validLines(lines, years []string) bool {
	if len(lines) < 2 {
		return false
	}

	unique := make(map[string]struct{})
	for _, l := range lines[:min(10, len(lines))] {
		unique[l] = struct{}{}
	}
	if len(unique) <= 2 {
		return false
	}

	for _, l := range lines[1:min(5, len(lines))] {
		for _, y := range years {
			if strings.Contains(l, y) {
				return true
			}
		}
	}
	return false
}
