package stats

import (
	"reflect"
	"testing"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
)

func entry(colors, typeLine string) drawer.DeckEntry {
	return drawer.DeckEntry{ColorIdentity: cards.ParseColorSet(colors), TypeLine: typeLine}
}

func values(d Distribution) map[string]int {
	out := make(map[string]int, len(d))
	for _, b := range d {
		out[b.Name] = b.Value
	}
	return out
}

func TestColorDistribution(t *testing.T) {
	tests := []struct {
		name  string
		hands []drawer.Hand
		want  map[string]int
	}{
		{
			name:  "multicolor counts once per color",
			hands: []drawer.Hand{{entry("WU", "")}},
			want:  map[string]int{"White": 1, "Black": 0, "Red": 0, "Blue": 1, "Green": 0},
		},
		{
			name:  "colorless counts nowhere",
			hands: []drawer.Hand{{entry("", "Artifact")}},
			want:  map[string]int{"White": 0, "Black": 0, "Red": 0, "Blue": 0, "Green": 0},
		},
		{
			name:  "across hands",
			hands: []drawer.Hand{{entry("W", ""), entry("BG", "")}, {entry("W", "")}},
			want:  map[string]int{"White": 2, "Black": 1, "Red": 0, "Blue": 0, "Green": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(ColorDistribution(tt.hands))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ColorDistribution() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTypeDistribution_MultiType(t *testing.T) {
	hands := []drawer.Hand{{entry("", "Artifact Creature — Construct")}}

	got := values(TypeDistribution(hands))
	want := map[string]int{"Land": 0, "Creature": 1, "Spell": 0, "Artifact": 1, "Enchantment": 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TypeDistribution() = %v, want %v", got, want)
	}
}

func TestTypeDistribution_Matchers(t *testing.T) {
	tests := []struct {
		typeLine string
		want     []string
	}{
		{"Basic Land — Island", []string{"Land"}},
		{"Instant", []string{"Spell"}},
		{"Sorcery", []string{"Spell"}},
		{"Enchant Creature", []string{"Creature", "Enchantment"}},
		{"Enchantment — Aura", []string{"Enchantment"}},
		{"Legendary Artifact", []string{"Artifact"}},
		{"instant", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.typeLine, func(t *testing.T) {
			var got []string
			for _, b := range TypeDistribution([]drawer.Hand{{entry("", tt.typeLine)}}) {
				if b.Value > 0 {
					got = append(got, b.Name)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("categories for %q = %v, want %v", tt.typeLine, got, tt.want)
			}
		})
	}
}

func TestAggregate_EmptySession(t *testing.T) {
	snap := Aggregate(nil)

	if len(snap.Colors) != 5 || len(snap.Types) != 5 {
		t.Fatalf("Expected 5 color and 5 type buckets, got %d and %d", len(snap.Colors), len(snap.Types))
	}
	if snap.Colors.Total() != 0 || snap.Types.Total() != 0 {
		t.Errorf("Expected all buckets zero, got colors %d types %d", snap.Colors.Total(), snap.Types.Total())
	}
	if snap.TotalHands != 0 {
		t.Errorf("TotalHands = %d, want 0", snap.TotalHands)
	}
}

func TestAggregate_LegendOrderAndColors(t *testing.T) {
	snap := Aggregate(nil)

	var codes []string
	for _, b := range snap.Colors {
		codes = append(codes, b.Code)
	}
	if want := []string{"W", "B", "R", "U", "G"}; !reflect.DeepEqual(codes, want) {
		t.Errorf("color order = %v, want %v", codes, want)
	}
	if snap.Colors[3].Color != "#2486c1" {
		t.Errorf("Blue chart color = %s, want #2486c1", snap.Colors[3].Color)
	}

	var names []string
	for _, b := range snap.Types {
		names = append(names, b.Name)
	}
	if want := []string{"Land", "Creature", "Spell", "Artifact", "Enchantment"}; !reflect.DeepEqual(names, want) {
		t.Errorf("type order = %v, want %v", names, want)
	}
	if snap.Types[0].Color != "#572e0a" {
		t.Errorf("Land chart color = %s, want #572e0a", snap.Types[0].Color)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	hands := []drawer.Hand{
		{entry("W", "Creature"), entry("BR", "Instant")},
		{entry("G", "Land")},
	}

	first := Aggregate(hands)
	second := Aggregate(hands)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Aggregate is not repeatable:\n%+v\n%+v", first, second)
	}
	if first.TotalCards != 3 {
		t.Errorf("TotalCards = %d, want 3", first.TotalCards)
	}
	if first.TotalHands != 2 {
		t.Errorf("TotalHands = %d, want 2", first.TotalHands)
	}
}

func TestAggregate_AcrossHands(t *testing.T) {
	hands := []drawer.Hand{
		{entry("W", ""), entry("W", "")},
		{entry("W", "Creature")},
	}

	snap := Aggregate(hands)
	if got := snap.Colors.Get("White"); got != 3 {
		t.Errorf("White = %d, want 3", got)
	}
	if got := snap.Types.Get("Creature"); got != 1 {
		t.Errorf("Creature = %d, want 1", got)
	}
	if got := snap.Types.Get("Nonexistent"); got != 0 {
		t.Errorf("unknown bucket = %d, want 0", got)
	}
}

func TestTypeCategory_Matchers(t *testing.T) {
	if got := Spell.Matchers(); !reflect.DeepEqual(got, []string{"Sorcery", "Instant"}) {
		t.Errorf("Spell.Matchers() = %v", got)
	}
	if got := TypeCategory(99).Matchers(); got != nil {
		t.Errorf("out of range Matchers() = %v, want nil", got)
	}
	if got := TypeCategory(-1).String(); got != "Unknown" {
		t.Errorf("out of range String() = %q, want Unknown", got)
	}
}
