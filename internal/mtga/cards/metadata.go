// Package cards holds the card metadata shared by the lookup, deck and stats layers.
package cards

import "strings"

// Key identifies a card printing for lookup and caching.
// Both fields are trimmed but otherwise kept exactly as written in the decklist.
type Key struct {
	Name    string `json:"name"`
	SetCode string `json:"set"`
}

// NewKey returns the normalized lookup key for a card name and set code.
func NewKey(name, setCode string) Key {
	return Key{
		Name:    strings.TrimSpace(name),
		SetCode: strings.TrimSpace(setCode),
	}
}

// String returns "name set", the same shape used for log messages.
func (k Key) String() string {
	return k.Name + " " + k.SetCode
}

// Resolution is what an external metadata source returns for one card.
// Empty strings mean the field was absent.
type Resolution struct {
	ImageRef      string `json:"image,omitempty"`
	ColorIdentity string `json:"color_identity"`
	TypeLine      string `json:"type_line,omitempty"`
}

// Metadata is the resolved, immutable description of a card printing.
type Metadata struct {
	Name          string   `json:"name"`
	SetCode       string   `json:"set"`
	ImageRef      string   `json:"image,omitempty"`
	ColorIdentity ColorSet `json:"color_identity"`
	TypeLine      string   `json:"type_line,omitempty"`
}

// NewMetadata combines a lookup key with a resolution.
func NewMetadata(key Key, res *Resolution) Metadata {
	md := Metadata{
		Name:    key.Name,
		SetCode: key.SetCode,
	}
	if res == nil {
		return md
	}
	md.ImageRef = res.ImageRef
	md.ColorIdentity = ParseColorSet(res.ColorIdentity)
	md.TypeLine = res.TypeLine
	return md
}

// Placeholder returns the metadata used when a lookup fails: no image,
// colorless, and no type line.
func Placeholder(key Key) Metadata {
	return NewMetadata(key, nil)
}

// Key returns the lookup key for this metadata.
func (m Metadata) Key() Key {
	return Key{Name: m.Name, SetCode: m.SetCode}
}

// HasImage reports whether an image reference is present.
func (m Metadata) HasImage() bool {
	return m.ImageRef != ""
}

// HasTypeLine reports whether a type line is present.
func (m Metadata) HasTypeLine() bool {
	return m.TypeLine != ""
}
