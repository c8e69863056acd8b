// Package deckimport turns pasted decklist text into counted card lines.
//
// Each line reads "count [card name ...] setcode". The first token is the
// count, the last token is the set code (parentheses are stripped), and
// everything between is the card name:
//
//	4 Angel's Trumpet (ulg)
//	2 Lightning Bolt M21
//
// The count is the leading run of digits of the first token, so "4x" reads
// as 4 and "1.5" as 1. Lines whose first token has no leading digits, or
// whose count is below one, are dropped without error, which covers comments,
// headers and blank lines alike.
package deckimport

import (
	"strconv"
	"strings"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

// ParsedLine is one valid decklist line.
type ParsedLine struct {
	Count    int    `json:"count"`
	SetCode  string `json:"set"`
	CardName string `json:"name"`
}

// Key returns the lookup key for the line's card.
func (l ParsedLine) Key() cards.Key {
	return cards.NewKey(l.CardName, l.SetCode)
}

var setCodeParens = strings.NewReplacer("(", "", ")", "")

// ParseLine parses a single decklist line. It reports false when the line
// has no leading count, a count below one, or no set code.
func ParseLine(line string) (ParsedLine, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < 2 {
		return ParsedLine{}, false
	}

	count, ok := leadingInt(tokens[0])
	if !ok || count <= 0 {
		return ParsedLine{}, false
	}

	setCode := setCodeParens.Replace(tokens[len(tokens)-1])
	if setCode == "" {
		return ParsedLine{}, false
	}

	return ParsedLine{
		Count:    count,
		SetCode:  setCode,
		CardName: strings.Join(tokens[1:len(tokens)-1], " "),
	}, true
}

// leadingInt reads an optionally signed run of leading digits.
func leadingInt(token string) (int, bool) {
	end := 0
	if end < len(token) && (token[end] == '+' || token[end] == '-') {
		end++
	}
	digits := end
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.Atoi(token[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseResult contains the parsed lines and the 1-based numbers of dropped
// non-blank lines. Dropped lines are for tracing only.
type ParseResult struct {
	Lines        []ParsedLine
	Dropped      int
	DroppedLines []int
}

// Parse parses decklist text, keeping the original line order.
func Parse(text string) *ParseResult {
	result := &ParseResult{
		Lines: make([]ParsedLine, 0),
	}

	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		parsed, ok := ParseLine(line)
		if !ok {
			result.Dropped++
			result.DroppedLines = append(result.DroppedLines, i+1)
			continue
		}
		result.Lines = append(result.Lines, parsed)
	}

	return result
}

// ParseDecklist returns only the valid lines of text.
func ParseDecklist(text string) []ParsedLine {
	return Parse(text).Lines
}

// TotalCards returns the sum of all line counts.
func (r *ParseResult) TotalCards() int {
	total := 0
	for _, l := range r.Lines {
		total += l.Count
	}
	return total
}

// Keys returns the distinct lookup keys of lines in first-seen order.
func Keys(lines []ParsedLine) []cards.Key {
	keys := make([]cards.Key, 0, len(lines))
	seen := make(map[cards.Key]struct{}, len(lines))
	for _, l := range lines {
		k := l.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
