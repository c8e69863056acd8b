package scryfall

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards"
)

// Card represents the subset of a Scryfall card object the drawer reads.
type Card struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Layout        string     `json:"layout"`
	ImageURIs     *ImageURIs `json:"image_uris,omitempty"`
	ManaCost      string     `json:"mana_cost,omitempty"`
	CMC           float64    `json:"cmc"`
	TypeLine      string     `json:"type_line"`
	Colors        []string   `json:"colors,omitempty"`
	ColorIdentity []string   `json:"color_identity"`

	SetCode         string `json:"set"`
	SetName         string `json:"set_name"`
	CollectorNumber string `json:"collector_number"`
	Rarity          string `json:"rarity"`

	// Card faces (for DFCs, MDFCs, split cards)
	CardFaces []CardFace `json:"card_faces,omitempty"`
}

// CardFace represents one face of a multi-faced card.
type CardFace struct {
	Name      string     `json:"name"`
	ManaCost  string     `json:"mana_cost,omitempty"`
	TypeLine  string     `json:"type_line"`
	Colors    []string   `json:"colors,omitempty"`
	ImageURIs *ImageURIs `json:"image_uris,omitempty"`
}

// ImageURIs contains URLs for card images in various sizes.
type ImageURIs struct {
	Small      string `json:"small"`
	Normal     string `json:"normal"`
	Large      string `json:"large"`
	PNG        string `json:"png"`
	ArtCrop    string `json:"art_crop"`
	BorderCrop string `json:"border_crop"`
}

// ImageRef returns the PNG image URL. Double-faced cards carry their images
// on the faces, so the front face is used when the card has none.
func (c *Card) ImageRef() string {
	if c.ImageURIs != nil && c.ImageURIs.PNG != "" {
		return c.ImageURIs.PNG
	}
	for _, face := range c.CardFaces {
		if face.ImageURIs != nil && face.ImageURIs.PNG != "" {
			return face.ImageURIs.PNG
		}
	}
	return ""
}

// Resolution converts the card to the lookup result shape.
func (c *Card) Resolution() *cards.Resolution {
	return &cards.Resolution{
		ImageRef:      c.ImageRef(),
		ColorIdentity: strings.Join(c.ColorIdentity, ""),
		TypeLine:      c.TypeLine,
	}
}

// APIError represents an error response from the Scryfall API.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Type     string   `json:"type,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Details)
	}
	return fmt.Sprintf("Scryfall API error (HTTP %d): %s", e.Status, e.Code)
}

// NotFoundError represents a 404 error from the API.
type NotFoundError struct {
	URL string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// IsNotFound returns true if err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
