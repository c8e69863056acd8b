package scryfall_test

import (
	"context"
	"fmt"
	"log"

	"github.com/ramonehamilton/MTG-Drawer/internal/mtga/cards/scryfall"
)

// ExampleClient_Resolve demonstrates resolving a decklist entry to drawer metadata.
func ExampleClient_Resolve() {
	client := scryfall.NewClient()
	ctx := context.Background()

	res, err := client.Resolve(ctx, "Arc Spitter", "snc")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Type: %s\n", res.TypeLine)
	fmt.Printf("Colors: %s\n", res.ColorIdentity)
}
