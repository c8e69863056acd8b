// Package drawer expands parsed decklists into individually identified cards
// and samples opening hands from them.
package drawer

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/deckimport"
)

// DeckEntry is one physical copy of a card. Copies of the same card share
// everything but their ID.
type DeckEntry struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	SetCode       string         `json:"set"`
	ImageRef      string         `json:"image,omitempty"`
	ColorIdentity cards.ColorSet `json:"color_identity"`
	TypeLine      string         `json:"type_line,omitempty"`
}

// Label returns the display form "name SET".
func (e DeckEntry) Label() string {
	return e.Name + " " + strings.ToUpper(e.SetCode)
}

// Key returns the lookup key of the entry's card.
func (e DeckEntry) Key() cards.Key {
	return cards.Key{Name: e.Name, SetCode: e.SetCode}
}

// Deck is the expanded decklist in line order, then copy order.
// A Deck is never modified after Expand returns it.
type Deck []DeckEntry

// Len returns the number of cards in the deck.
func (d Deck) Len() int {
	return len(d)
}

// IDGenerator produces identifiers for deck entries.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequenceGenerator issues "<prefix>-1", "<prefix>-2", ... and is safe for
// concurrent use.
type SequenceGenerator struct {
	Prefix string
	next   atomic.Uint64
}

// NewID implements IDGenerator.
func (g *SequenceGenerator) NewID() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "card"
	}
	return fmt.Sprintf("%s-%d", prefix, g.next.Add(1))
}

// Expand builds a deck with Count entries per line. Lines whose key is
// missing from metadata get placeholder metadata. A nil ids uses UUIDs.
func Expand(lines []deckimport.ParsedLine, metadata map[cards.Key]cards.Metadata, ids IDGenerator) Deck {
	if ids == nil {
		ids = UUIDGenerator{}
	}

	total := 0
	for _, l := range lines {
		total += max(l.Count, 0)
	}

	deck := make(Deck, 0, total)
	for _, l := range lines {
		key := l.Key()
		md, ok := metadata[key]
		if !ok {
			md = cards.Placeholder(key)
		}

		for i := 0; i < l.Count; i++ {
			deck = append(deck, DeckEntry{
				ID:            ids.NewID(),
				Name:          md.Name,
				SetCode:       md.SetCode,
				ImageRef:      md.ImageRef,
				ColorIdentity: md.ColorIdentity,
				TypeLine:      md.TypeLine,
			})
		}
	}
	return deck
}
