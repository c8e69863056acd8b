package cards

import (
	"encoding/json"
	"strings"
)

// ColorSymbol is one of the five Magic colors.
type ColorSymbol int

const (
	White ColorSymbol = iota
	Black
	Red
	Blue
	Green
)

// colorTable maps each symbol to its display name and single-letter code.
// Order here is the legend order used by stats and charts.
var colorTable = [...]struct {
	name string
	code string
}{
	White: {"White", "W"},
	Black: {"Black", "B"},
	Red:   {"Red", "R"},
	Blue:  {"Blue", "U"},
	Green: {"Green", "G"},
}

// AllColors returns every color symbol in legend order.
func AllColors() []ColorSymbol {
	return []ColorSymbol{White, Black, Red, Blue, Green}
}

// Code returns the single-letter mana code (W, B, R, U, G).
func (c ColorSymbol) Code() string {
	if !c.valid() {
		return ""
	}
	return colorTable[c].code
}

// String returns the color name.
func (c ColorSymbol) String() string {
	if !c.valid() {
		return "Unknown"
	}
	return colorTable[c].name
}

func (c ColorSymbol) valid() bool {
	return c >= White && c <= Green
}

// ColorSymbolFromCode returns the symbol for a mana code. Codes are matched
// case-sensitively, the same way Scryfall emits them.
func ColorSymbolFromCode(code string) (ColorSymbol, bool) {
	for _, c := range AllColors() {
		if colorTable[c].code == code {
			return c, true
		}
	}
	return 0, false
}

// ColorSet is a set of color symbols. The zero value is colorless.
type ColorSet uint8

// NewColorSet builds a set from the given symbols.
func NewColorSet(symbols ...ColorSymbol) ColorSet {
	var s ColorSet
	for _, c := range symbols {
		s = s.Add(c)
	}
	return s
}

// ParseColorSet reads a color identity string such as "UB" or "W".
// Characters that are not mana codes are ignored.
func ParseColorSet(identity string) ColorSet {
	var s ColorSet
	for _, r := range identity {
		if c, ok := ColorSymbolFromCode(string(r)); ok {
			s = s.Add(c)
		}
	}
	return s
}

// Add returns a copy of the set with c included.
func (s ColorSet) Add(c ColorSymbol) ColorSet {
	if !c.valid() {
		return s
	}
	return s | 1<<uint(c)
}

// Has reports whether c is in the set.
func (s ColorSet) Has(c ColorSymbol) bool {
	return c.valid() && s&(1<<uint(c)) != 0
}

// Len returns the number of colors in the set.
func (s ColorSet) Len() int {
	n := 0
	for _, c := range AllColors() {
		if s.Has(c) {
			n++
		}
	}
	return n
}

// Symbols returns the members in legend order.
func (s ColorSet) Symbols() []ColorSymbol {
	out := make([]ColorSymbol, 0, 5)
	for _, c := range AllColors() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Codes returns the mana codes of the members in legend order.
func (s ColorSet) Codes() []string {
	symbols := s.Symbols()
	codes := make([]string, len(symbols))
	for i, c := range symbols {
		codes[i] = c.Code()
	}
	return codes
}

// String returns the concatenated codes, e.g. "BU". Colorless is "".
func (s ColorSet) String() string {
	return strings.Join(s.Codes(), "")
}

// MarshalJSON encodes the set as an array of mana codes.
func (s ColorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Codes())
}

// UnmarshalJSON accepts either an array of codes or a single identity string.
func (s *ColorSet) UnmarshalJSON(data []byte) error {
	var codes []string
	if err := json.Unmarshal(data, &codes); err == nil {
		*s = ParseColorSet(strings.Join(codes, ""))
		return nil
	}

	var identity string
	if err := json.Unmarshal(data, &identity); err != nil {
		return err
	}
	*s = ParseColorSet(identity)
	return nil
}
