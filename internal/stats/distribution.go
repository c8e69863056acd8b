// Package stats aggregates color and card type counts over drawn hands.
//
// Both aggregations are multi-membership: a two-color card counts once in
// each of its colors, and an artifact creature counts as both Artifact and
// Creature. Every bucket is always reported, even at zero.
package stats

import (
	"strings"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/drawer"
)

// TypeCategory is a coarse card type bucket.
type TypeCategory int

const (
	Land TypeCategory = iota
	Creature
	Spell
	Artifact
	Enchantment
)

// typeTable lists the case-sensitive type line substrings for each category,
// in legend order.
var typeTable = [...]struct {
	name     string
	matchers []string
	hex      string
}{
	Land:        {"Land", []string{"Land"}, "#572e0a"},
	Creature:    {"Creature", []string{"Creature"}, "#4aa637"},
	Spell:       {"Spell", []string{"Sorcery", "Instant"}, "#1732bb"},
	Artifact:    {"Artifact", []string{"Artifact"}, "#4487b9"},
	Enchantment: {"Enchantment", []string{"Enchant Creature", "Enchantment"}, "#ffff00"},
}

// colorHex is the chart color for each mana color.
var colorHex = map[cards.ColorSymbol]string{
	cards.White: "#d0c39c",
	cards.Black: "#2f2a1f",
	cards.Red:   "#9f1d16",
	cards.Blue:  "#2486c1",
	cards.Green: "#366e45",
}

// AllTypes returns every type category in legend order.
func AllTypes() []TypeCategory {
	return []TypeCategory{Land, Creature, Spell, Artifact, Enchantment}
}

// String returns the category name.
func (c TypeCategory) String() string {
	if c < Land || c > Enchantment {
		return "Unknown"
	}
	return typeTable[c].name
}

// Matchers returns the substrings that place a type line in this category.
func (c TypeCategory) Matchers() []string {
	if c < Land || c > Enchantment {
		return nil
	}
	return append([]string(nil), typeTable[c].matchers...)
}

// Matches reports whether typeLine belongs to the category.
func (c TypeCategory) Matches(typeLine string) bool {
	if typeLine == "" || c < Land || c > Enchantment {
		return false
	}
	for _, m := range typeTable[c].matchers {
		if strings.Contains(typeLine, m) {
			return true
		}
	}
	return false
}

// Bucket is one named count of a distribution.
type Bucket struct {
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// Distribution is an ordered list of buckets.
type Distribution []Bucket

// Get returns the value of the named bucket, or 0.
func (d Distribution) Get(name string) int {
	for _, b := range d {
		if b.Name == name {
			return b.Value
		}
	}
	return 0
}

// Total returns the sum of all buckets. Because of multi-membership this can
// exceed the number of cards counted.
func (d Distribution) Total() int {
	total := 0
	for _, b := range d {
		total += b.Value
	}
	return total
}

// ColorDistribution counts, per color, the entries whose identity contains it.
func ColorDistribution(hands []drawer.Hand) Distribution {
	colors := cards.AllColors()
	dist := make(Distribution, len(colors))
	for i, c := range colors {
		dist[i] = Bucket{Name: c.String(), Code: c.Code(), Color: colorHex[c]}
	}

	for _, hand := range hands {
		for _, e := range hand {
			for i, c := range colors {
				if e.ColorIdentity.Has(c) {
					dist[i].Value++
				}
			}
		}
	}
	return dist
}

// TypeDistribution counts, per category, the entries whose type line matches.
func TypeDistribution(hands []drawer.Hand) Distribution {
	types := AllTypes()
	dist := make(Distribution, len(types))
	for i, c := range types {
		dist[i] = Bucket{Name: c.String(), Color: typeTable[c].hex}
	}

	for _, hand := range hands {
		for _, e := range hand {
			for i, c := range types {
				if c.Matches(e.TypeLine) {
					dist[i].Value++
				}
			}
		}
	}
	return dist
}

// Snapshot is both distributions over one set of hands.
type Snapshot struct {
	Scope      Scope        `json:"scope"`
	Colors     Distribution `json:"colors"`
	Types      Distribution `json:"types"`
	TotalHands int          `json:"total_hands"`
	TotalCards int          `json:"total_cards"`
}

// Aggregate computes a snapshot over hands. It keeps no state between calls.
func Aggregate(hands []drawer.Hand) Snapshot {
	totalCards := 0
	for _, h := range hands {
		totalCards += len(h)
	}

	return Snapshot{
		Scope:      ScopeAll,
		Colors:     ColorDistribution(hands),
		Types:      TypeDistribution(hands),
		TotalHands: len(hands),
		TotalCards: totalCards,
	}
}
