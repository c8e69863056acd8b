package deckimport

import (
	"reflect"
	"testing"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   ParsedLine
		wantOK bool
	}{
		{
			name:   "parenthesized set code",
			line:   "4 Angel's Trumpet (ulg)",
			want:   ParsedLine{Count: 4, SetCode: "ulg", CardName: "Angel's Trumpet"},
			wantOK: true,
		},
		{
			name:   "bare set code",
			line:   "2 Lightning Bolt M21",
			want:   ParsedLine{Count: 2, SetCode: "M21", CardName: "Lightning Bolt"},
			wantOK: true,
		},
		{
			name:   "irregular whitespace",
			line:   "  3\tLlanowar    Elves   (DOM)  ",
			want:   ParsedLine{Count: 3, SetCode: "DOM", CardName: "Llanowar Elves"},
			wantOK: true,
		},
		{
			name:   "no name tokens",
			line:   "1 ulg",
			want:   ParsedLine{Count: 1, SetCode: "ulg", CardName: ""},
			wantOK: true,
		},
		{
			name:   "last token is always the set",
			line:   "2 ABC Foo",
			want:   ParsedLine{Count: 2, SetCode: "Foo", CardName: "ABC"},
			wantOK: true,
		},
		{name: "non-numeric count", line: "not-a-number FOO Card"},
		{name: "comment", line: "// comment"},
		{name: "header", line: "Deck"},
		{name: "blank", line: "   "},
		{name: "count only", line: "4"},
		{name: "zero count", line: "0 Island (M21)"},
		{name: "negative count", line: "-2 Island (M21)"},
		{
			name:   "count with suffix",
			line:   "4x Island (M21)",
			want:   ParsedLine{Count: 4, SetCode: "M21", CardName: "Island"},
			wantOK: true,
		},
		{
			name:   "fractional count",
			line:   "1.5 Island (M21)",
			want:   ParsedLine{Count: 1, SetCode: "M21", CardName: "Island"},
			wantOK: true,
		},
		{
			name:   "explicit plus sign",
			line:   "+3 Island (M21)",
			want:   ParsedLine{Count: 3, SetCode: "M21", CardName: "Island"},
			wantOK: true,
		},
		{name: "suffix only", line: "x4 Island (M21)"},
		{name: "sign only", line: "- Island (M21)"},
		{name: "count overflows", line: "99999999999999999999999 Island (M21)"},
		{name: "empty parens", line: "4 Island ()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	input := `// Main deck
4 Angel's Trumpet (ulg)

2 Lightning Bolt M21
not-a-number FOO Card
1 Island (M21)`

	result := Parse(input)

	want := []ParsedLine{
		{Count: 4, SetCode: "ulg", CardName: "Angel's Trumpet"},
		{Count: 2, SetCode: "M21", CardName: "Lightning Bolt"},
		{Count: 1, SetCode: "M21", CardName: "Island"},
	}
	if !reflect.DeepEqual(result.Lines, want) {
		t.Errorf("Lines = %+v, want %+v", result.Lines, want)
	}

	if result.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", result.Dropped)
	}
	if want := []int{1, 5}; !reflect.DeepEqual(result.DroppedLines, want) {
		t.Errorf("DroppedLines = %v, want %v", result.DroppedLines, want)
	}

	if got := result.TotalCards(); got != 7 {
		t.Errorf("TotalCards() = %d, want 7", got)
	}
}

func TestParse_NothingValid(t *testing.T) {
	result := Parse("// only a comment\n\nSideboard")

	if len(result.Lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(result.Lines))
	}
	if result.TotalCards() != 0 {
		t.Errorf("Expected 0 cards, got %d", result.TotalCards())
	}
}

func TestParseDecklist_WindowsLineEndings(t *testing.T) {
	lines := ParseDecklist("2 ABC Foo\r\n1 DEF Bar\r\n")

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}
	if lines[1].SetCode != "Bar" {
		t.Errorf("Expected trailing CR to be trimmed, got set %q", lines[1].SetCode)
	}
}

func TestKeys(t *testing.T) {
	lines := []ParsedLine{
		{Count: 2, SetCode: "M21", CardName: "Island"},
		{Count: 1, SetCode: "DOM", CardName: "Island"},
		{Count: 3, SetCode: "M21", CardName: "Island"},
	}

	want := []cards.Key{
		cards.NewKey("Island", "M21"),
		cards.NewKey("Island", "DOM"),
	}
	if got := Keys(lines); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}
