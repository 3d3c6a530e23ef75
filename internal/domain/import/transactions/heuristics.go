package transactions

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/statement-ingest/internal/domain/import/normalizer"
	"github.com/FACorreiaa/statement-ingest/internal/domain/import/statement"
)

// Heuristic recovers transactions from raw statement text for one known
// layout. Extract must be pure and safe for concurrent use.
type Heuristic struct {
	Name    string
	Extract func(rawText string) []statement.Transaction
}

var (
	// amountToken is a full cell such as "1,250,000.00" or "1250000.00".
	amountToken = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})*\.\d{2}|\d+\.\d{2})$`)
	bareDate    = regexp.MustCompile(`^(?:\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2}[./-]\d{4})$`)
	fullDate    = regexp.MustCompile(`(?:^|[^\d])(\d{4}[./-]\d{1,2}[./-]\d{1,2}|\d{1,2}[./-]\d{1,2}[./-]\d{4})(?:[^\d]|$)`)
	// shortDate is the year-less tail of a date whose "20" century prefix
	// ended up in the previous cell.
	shortDate = regexp.MustCompile(`^\d{2}\.\d{1,2}\.\d{1,2}$`)
)

// Tab-run layout: offsets of each column relative to the date cell.
const (
	tabRunIncome      = 1
	tabRunExpense     = 2
	tabRunRate        = 3 // exchange rate, unused
	tabRunReference   = 4 // related account
	tabRunBalance     = 5
	tabRunDescription = 6
)

// tabRunMinAmount drops values that are really teller or sequence numbers.
var tabRunMinAmount = decimal.NewFromInt(10)

const minDescriptionRunes = 3

const (
	nameTwoLine   = "two-line"
	nameTabRun    = "tab-run"
	nameLineBased = "line-based"
)

var (
	// TwoLine handles statements where each movement spans two lines: a bare
	// date, then a tab-separated record ending in income, expense and balance.
	TwoLine = Heuristic{Name: nameTwoLine, Extract: extractTwoLine}

	// TabRun handles statements flattened into tab runs where the date is
	// split as "...20" + "25.01.10" and every column sits at a fixed offset.
	TabRun = Heuristic{Name: nameTabRun, Extract: extractTabRun}

	// LineBased handles one-line records holding a full date and at least two
	// decimal amounts, income first.
	LineBased = Heuristic{Name: nameLineBased, Extract: extractLineBased}
)

// DefaultHeuristics is the ordered list used by the text tier.
var DefaultHeuristics = []Heuristic{TwoLine, TabRun, LineBased}

// Union runs every heuristic over text in order and drops transactions whose
// (date, amount, direction) key was already produced. First occurrence wins.
func Union(text string, heuristics ...Heuristic) []statement.Transaction {
	return union(text, heuristics, nil)
}

func union(text string, heuristics []Heuristic, report func(name string, found int)) []statement.Transaction {
	seen := make(map[string]struct{})
	var out []statement.Transaction
	for _, h := range heuristics {
		found := h.Extract(text)
		if report != nil {
			report(h.Name, len(found))
		}
		for _, tx := range found {
			key := tx.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tx)
		}
	}
	return out
}

func extractTwoLine(text string) []statement.Transaction {
	lines := splitLines(text)

	var out []statement.Transaction
	for i := 0; i+1 < len(lines); i++ {
		dateLine := strings.TrimSpace(lines[i])
		if !bareDate.MatchString(dateLine) {
			continue
		}
		date, err := normalizer.ParseDate(dateLine)
		if err != nil {
			continue
		}

		record := lines[i+1]
		if !strings.Contains(record, "\t") {
			continue
		}
		cells := splitCells(record)

		var amounts []string
		for _, c := range cells {
			if amountToken.MatchString(c) {
				amounts = append(amounts, c)
			}
		}

		var income, expense decimal.Decimal
		var balance *decimal.Decimal
		switch n := len(amounts); {
		case n >= 3:
			income = normalizer.ParseAmount(amounts[n-3])
			expense = normalizer.ParseAmount(amounts[n-2])
			b := normalizer.ParseAmount(amounts[n-1])
			balance = &b
		case n == 2:
			income = normalizer.ParseAmount(amounts[0])
			expense = normalizer.ParseAmount(amounts[1])
		default:
			continue
		}

		amount, dir, ok := Resolve(income, expense)
		if !ok {
			continue
		}

		out = append(out, statement.Transaction{
			Date:        normalizer.DateOnly(date),
			Description: longestText(cells),
			Amount:      amount,
			Direction:   dir,
			Balance:     balance,
			RawSource:   dateLine + "\n" + strings.Join(cells, "\t"),
			Source:      nameTwoLine,
		})
		i++
	}
	return out
}

func extractTabRun(text string) []statement.Transaction {
	var out []statement.Transaction
	for _, line := range splitLines(text) {
		cells := splitCells(line)
		for i := 1; i < len(cells); i++ {
			if !shortDate.MatchString(cells[i]) || !strings.HasSuffix(cells[i-1], "20") {
				continue
			}
			date, err := normalizer.ParseDate("20" + cells[i])
			if err != nil {
				continue
			}

			income := tabRunAmount(cells, i+tabRunIncome)
			expense := tabRunAmount(cells, i+tabRunExpense)
			amount, dir, ok := Resolve(income, expense)
			if !ok {
				continue
			}

			tx := statement.Transaction{
				Date:        normalizer.DateOnly(date),
				Description: normalizer.CleanDescription(cell(cells, i+tabRunDescription)),
				Amount:      amount,
				Direction:   dir,
				Reference:   cell(cells, i+tabRunReference),
				RawSource:   strings.Join(cells[i-1:min(len(cells), i+tabRunDescription+1)], "\t"),
				Source:      nameTabRun,
			}
			if b, err := normalizer.ParseAmountStrict(cell(cells, i+tabRunBalance)); err == nil {
				tx.Balance = &b
			}
			out = append(out, tx)
			i += tabRunDescription
		}
	}
	return out
}

func tabRunAmount(cells []string, idx int) decimal.Decimal {
	v := normalizer.ParseAmount(cell(cells, idx))
	if v.Abs().LessThan(tabRunMinAmount) {
		return decimal.Zero
	}
	return v
}

func extractLineBased(text string) []statement.Transaction {
	var out []statement.Transaction
	for _, line := range splitLines(text) {
		m := fullDate.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		date, err := normalizer.ParseDate(m[1])
		if err != nil {
			continue
		}

		tokens := strings.Fields(line)
		var amounts []decimal.Decimal
		for _, tok := range tokens {
			if amountToken.MatchString(tok) {
				amounts = append(amounts, normalizer.ParseAmount(tok))
			}
		}
		if len(amounts) < 2 {
			continue
		}

		amount, dir, ok := Resolve(amounts[0], amounts[1])
		if !ok {
			continue
		}

		out = append(out, statement.Transaction{
			Date:        normalizer.DateOnly(date),
			Description: lastTextRun(tokens),
			Amount:      amount,
			Direction:   dir,
			RawSource:   strings.TrimSpace(line),
			Source:      nameLineBased,
		})
	}
	return out
}

// longestText returns the longest cell that is neither numeric nor a time.
func longestText(cells []string) string {
	best := ""
	for _, c := range cells {
		if !isText(c) {
			continue
		}
		if utf8.RuneCountInString(c) > utf8.RuneCountInString(best) {
			best = c
		}
	}
	return normalizer.CleanDescription(best)
}

// lastTextRun returns the last run of consecutive text tokens that is at
// least minDescriptionRunes long.
func lastTextRun(tokens []string) string {
	var runs [][]string
	var cur []string
	for _, tok := range tokens {
		if isText(tok) && !fullDate.MatchString(tok) {
			cur = append(cur, tok)
			continue
		}
		if len(cur) > 0 {
			runs = append(runs, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}

	for i := len(runs) - 1; i >= 0; i-- {
		desc := strings.Join(runs[i], " ")
		if utf8.RuneCountInString(desc) >= minDescriptionRunes {
			return statement.TruncateRunes(desc, normalizer.MaxDescriptionRunes)
		}
	}
	return ""
}

func isText(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !normalizer.IsNumeric(s) && !amountToken.MatchString(s) && !normalizer.IsTimeToken(s)
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

func splitCells(line string) []string {
	raw := strings.Split(line, "\t")
	cells := make([]string, len(raw))
	for i, c := range raw {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}
