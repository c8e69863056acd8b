package drawer

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/deckimport"
)

func TestExpand_CopiesShareMetadata(t *testing.T) {
	lines := []deckimport.ParsedLine{{Count: 3, SetCode: "ulg", CardName: "Angel's Trumpet"}}
	md := cards.Metadata{
		Name:          "Angel's Trumpet",
		SetCode:       "ulg",
		ImageRef:      "https://img/trumpet.png",
		ColorIdentity: cards.NewColorSet(),
		TypeLine:      "Artifact",
	}

	deck := Expand(lines, map[cards.Key]cards.Metadata{md.Key(): md}, nil)
	if deck.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", deck.Len())
	}

	ids := make(map[string]bool)
	for _, e := range deck {
		ids[e.ID] = true
		if _, err := uuid.Parse(e.ID); err != nil {
			t.Errorf("Expected UUID id, got %q: %v", e.ID, err)
		}
		if e.Name != md.Name || e.SetCode != md.SetCode || e.ImageRef != md.ImageRef {
			t.Errorf("entry %+v does not carry metadata %+v", e, md)
		}
		if e.ColorIdentity != md.ColorIdentity || e.TypeLine != md.TypeLine {
			t.Errorf("entry %+v does not carry colors and type of %+v", e, md)
		}
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 distinct ids, got %d", len(ids))
	}
}

func TestExpand_PreservesOrder(t *testing.T) {
	lines := deckimport.ParseDecklist("2 ABC Foo\n1 DEF Bar")
	gen := &SequenceGenerator{Prefix: "c"}

	deck := Expand(lines, nil, gen)
	if deck.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", deck.Len())
	}

	gotIDs := []string{deck[0].ID, deck[1].ID, deck[2].ID}
	if want := []string{"c-1", "c-2", "c-3"}; !reflect.DeepEqual(gotIDs, want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
	gotSets := []string{deck[0].SetCode, deck[1].SetCode, deck[2].SetCode}
	if want := []string{"Foo", "Foo", "Bar"}; !reflect.DeepEqual(gotSets, want) {
		t.Errorf("sets = %v, want %v", gotSets, want)
	}
}

func TestExpand_MissingMetadataUsesPlaceholder(t *testing.T) {
	lines := []deckimport.ParsedLine{{Count: 1, SetCode: "XXX", CardName: "Unknown"}}

	deck := Expand(lines, map[cards.Key]cards.Metadata{}, nil)
	if deck.Len() != 1 {
		t.Fatalf("Expected 1 entry, got %d", deck.Len())
	}

	e := deck[0]
	if e.Name != "Unknown" {
		t.Errorf("Name = %q, want Unknown", e.Name)
	}
	if e.TypeLine != "" {
		t.Errorf("Expected no type line, got %q", e.TypeLine)
	}
	if e.ColorIdentity.Len() != 0 {
		t.Errorf("Expected colorless placeholder, got %v", e.ColorIdentity)
	}
}

func TestExpand_Empty(t *testing.T) {
	if deck := Expand(nil, nil, nil); deck.Len() != 0 {
		t.Errorf("Expected empty deck, got %d entries", deck.Len())
	}
}

func TestDeckEntry_Label(t *testing.T) {
	e := DeckEntry{Name: "Angel's Trumpet", SetCode: "ulg"}
	if got := e.Label(); got != "Angel's Trumpet ULG" {
		t.Errorf("Label() = %q, want %q", got, "Angel's Trumpet ULG")
	}
}
